package fee

import (
	"time"

	"admissions-backoffice/pkg/util"

	"github.com/shopspring/decimal"
)

// LateFee returns the late fee owed on f as of today. It applies only once
// today is past the due date plus the grace period. Nothing is stored.
func LateFee(f *FeeStructure, today time.Time) (decimal.Decimal, bool) {
	if f.DueDate == nil || !f.LateFeeAmount.IsPositive() {
		return decimal.Zero, false
	}

	cutoff := util.TruncateDate(*f.DueDate).AddDate(0, 0, f.GraceDays)
	if !today.After(cutoff) {
		return decimal.Zero, false
	}
	return f.LateFeeAmount, true
}
