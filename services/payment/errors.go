package payment

import "admissions-backoffice/pkg/errutil"

const ReasonNotFound = "payment_not_found"

var ErrNotFound error = errutil.BaseError{Code: errutil.StatusNotFound, Reason: ReasonNotFound, Message: "payment not found"}

func notPending(st Status) error {
	return errutil.Invalid("payment is not pending",
		errutil.Detail{Field: "status", Message: "payment is already " + string(st)})
}
