package voucher

import (
	"errors"

	"admissions-backoffice/pkg/errutil"
)

const (
	ReasonNotFound      = "voucher_not_found"
	ReasonInactive      = "voucher_inactive"
	ReasonExpired       = "voucher_expired"
	ReasonLimitExceeded = "voucher_limit_exceeded"
	ReasonNotApplicable = "voucher_not_applicable"
	ReasonNoDiscount    = "voucher_no_discount"
)

// Redemption failures. Match them with errors.Is.
var (
	ErrNotFound      error = errutil.BaseError{Code: errutil.StatusNotFound, Reason: ReasonNotFound, Message: "voucher not found"}
	ErrInactive      error = errutil.BaseError{Code: errutil.StatusUnprocessableEntity, Reason: ReasonInactive, Message: "voucher is not active"}
	ErrExpired       error = errutil.BaseError{Code: errutil.StatusUnprocessableEntity, Reason: ReasonExpired, Message: "voucher is outside its validity window"}
	ErrLimitExceeded error = errutil.BaseError{Code: errutil.StatusUnprocessableEntity, Reason: ReasonLimitExceeded, Message: "voucher usage limit reached"}
	ErrNotApplicable error = errutil.BaseError{Code: errutil.StatusUnprocessableEntity, Reason: ReasonNotApplicable, Message: "voucher does not apply to this program or user"}
	ErrNoDiscount    error = errutil.BaseError{Code: errutil.StatusUnprocessableEntity, Reason: ReasonNoDiscount, Message: "voucher gives no discount on this fee"}
	ErrValidation          = errutil.ErrValidation
)

// reasonOf labels a redemption outcome for metrics.
func reasonOf(err error) string {
	var be errutil.BaseError
	if errors.As(err, &be) && be.Reason != "" {
		return be.Reason
	}
	return "error"
}
