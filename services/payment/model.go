package payment

import (
	"time"

	"admissions-backoffice/services/fee"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusVerified, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}

type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
	MethodCard         Method = "card"
	MethodOnline       Method = "online"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodMobileMoney, MethodCard, MethodOnline:
		return true
	default:
		return false
	}
}

// Payment records money received against an application. Only the single
// pending to verified/rejected transition mutates a row.
type Payment struct {
	ID              string          `gorm:"column:id;primaryKey;size:32" json:"id"`
	ApplicationID   string          `gorm:"column:application_id;size:32;index;not null" json:"application_id"`
	StudentID       string          `gorm:"column:student_id;size:32;index;not null" json:"student_id"`
	FeeType         fee.FeeType     `gorm:"column:fee_type;size:20;not null" json:"fee_type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Method          Method          `gorm:"column:method;size:20;not null" json:"method"`
	Reference       string          `gorm:"column:reference;size:64" json:"reference,omitempty"`
	Status          Status          `gorm:"column:status;size:20;not null;default:'pending';index" json:"status"`
	VerifiedBy      string          `gorm:"column:verified_by;size:32" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time      `gorm:"column:verified_at" json:"verified_at,omitempty"`
	RejectionReason string          `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	ReceiptNumber   *string         `gorm:"column:receipt_number;size:32;uniqueIndex" json:"receipt_number,omitempty"`
	VoucherUsageID  *string         `gorm:"column:voucher_usage_id;size:32" json:"voucher_usage_id,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

func Models() []any {
	return []any{&Payment{}}
}
