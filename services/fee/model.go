package fee

import (
	"time"

	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeeTypeApplication   FeeType = "application"
	FeeTypeAcceptance    FeeType = "acceptance"
	FeeTypeTuition       FeeType = "tuition"
	FeeTypeLate          FeeType = "late"
	FeeTypeMiscellaneous FeeType = "miscellaneous"
)

func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeApplication, FeeTypeAcceptance, FeeTypeTuition, FeeTypeLate, FeeTypeMiscellaneous:
		return true
	default:
		return false
	}
}

// FeeStructure is the amount charged for a fee type. A nil ProgramID makes
// it the global default for that type.
type FeeStructure struct {
	ID            string          `gorm:"column:id;primaryKey;size:32" json:"id"`
	Name          string          `gorm:"column:name;size:120;not null" json:"name"`
	FeeType       FeeType         `gorm:"column:fee_type;size:20;not null;index:idx_fee_lookup" json:"fee_type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	ProgramID     *string         `gorm:"column:program_id;size:32;index:idx_fee_lookup" json:"program_id"`
	IsRequired    bool            `gorm:"column:is_required;not null" json:"is_required"`
	IsActive      bool            `gorm:"column:is_active;not null;index:idx_fee_lookup" json:"is_active"`
	DueDate       *time.Time      `gorm:"column:due_date;type:date" json:"due_date,omitempty"`
	LateFeeAmount decimal.Decimal `gorm:"column:late_fee_amount;type:decimal(12,2);not null" json:"late_fee_amount"`
	GraceDays     int             `gorm:"column:grace_days;not null" json:"grace_days"`
	AcademicYear  string          `gorm:"column:academic_year;size:16" json:"academic_year,omitempty"`
	Description   string          `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (f *FeeStructure) IsGlobal() bool {
	return f.ProgramID == nil || *f.ProgramID == ""
}

func Models() []any {
	return []any{&FeeStructure{}}
}
