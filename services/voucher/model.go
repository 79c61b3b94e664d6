package voucher

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Type string

const (
	TypePercentage  Type = "percentage"
	TypeFixedAmount Type = "fixed_amount"
	TypeFullWaiver  Type = "full_waiver"
)

func (t Type) Valid() bool {
	switch t {
	case TypePercentage, TypeFixedAmount, TypeFullWaiver:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired:
		return true
	default:
		return false
	}
}

// Voucher is a redeemable fee waiver or discount. ValidFrom and ValidUntil
// are calendar dates stored as midnight UTC.
type Voucher struct {
	ID                 string                      `gorm:"column:id;primaryKey;size:32" json:"id"`
	Code               string                      `gorm:"column:code;size:64;uniqueIndex;not null" json:"code"`
	Pin                string                      `gorm:"column:pin;size:32;uniqueIndex;not null" json:"pin"`
	Serial             string                      `gorm:"column:serial;size:64;uniqueIndex;not null" json:"serial"`
	Type               Type                        `gorm:"column:type;size:20;not null" json:"type"`
	DiscountValue      decimal.Decimal             `gorm:"column:discount_value;type:decimal(12,2);not null" json:"discount_value"`
	MaxUses            int                         `gorm:"column:max_uses;not null;default:1" json:"max_uses"`
	UsedCount          int                         `gorm:"column:used_count;not null;default:0" json:"used_count"`
	ValidFrom          time.Time                   `gorm:"column:valid_from;type:date;not null" json:"valid_from"`
	ValidUntil         time.Time                   `gorm:"column:valid_until;type:date;not null;index" json:"valid_until"`
	ApplicablePrograms datatypes.JSONSlice[string] `gorm:"column:applicable_programs" json:"applicable_programs"`
	ApplicableUsers    datatypes.JSONSlice[string] `gorm:"column:applicable_users" json:"applicable_users"`
	Status             Status                      `gorm:"column:status;size:20;not null;default:'active';index" json:"status"`
	BatchName          string                      `gorm:"column:batch_name;size:120;index" json:"batch_name,omitempty"`
	Description        string                      `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedBy          string                      `gorm:"column:created_by;size:32" json:"created_by,omitempty"`
	CreatedAt          time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Voucher) TableName() string { return "vouchers" }

// Remaining is the number of redemptions still available.
func (v *Voucher) Remaining() int {
	if v.UsedCount >= v.MaxUses {
		return 0
	}
	return v.MaxUses - v.UsedCount
}

// AppliesToProgram reports whether programID is inside the program scope.
// An empty scope is unrestricted.
func (v *Voucher) AppliesToProgram(programID string) bool {
	return len(v.ApplicablePrograms) == 0 || slices.Contains(v.ApplicablePrograms, programID)
}

// AppliesToUser reports whether userID is inside the user scope.
// An empty scope is unrestricted.
func (v *Voucher) AppliesToUser(userID string) bool {
	return len(v.ApplicableUsers) == 0 || slices.Contains(v.ApplicableUsers, userID)
}

// VoucherUsage records one successful redemption. Rows are never updated.
type VoucherUsage struct {
	ID             string          `gorm:"column:id;primaryKey;size:32" json:"id"`
	VoucherID      string          `gorm:"column:voucher_id;size:32;index;not null" json:"voucher_id"`
	ApplicationID  string          `gorm:"column:application_id;size:32;index;not null" json:"application_id"`
	UserID         string          `gorm:"column:user_id;size:32;index" json:"user_id,omitempty"`
	BaseAmount     decimal.Decimal `gorm:"column:base_amount;type:decimal(12,2);not null" json:"base_amount"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(12,2);not null" json:"discount_amount"`
	FinalAmount    decimal.Decimal `gorm:"column:final_amount;type:decimal(12,2);not null" json:"final_amount"`
	UsedAt         time.Time       `gorm:"column:used_at;not null" json:"used_at"`
}

func (VoucherUsage) TableName() string { return "voucher_usages" }

// Models lists the tables owned by this package, in migration order.
func Models() []any {
	return []any{&Voucher{}, &VoucherUsage{}}
}
