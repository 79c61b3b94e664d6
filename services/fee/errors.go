package fee

import "admissions-backoffice/pkg/errutil"

const ReasonNotFound = "fee_not_found"

var ErrNotFound error = errutil.BaseError{Code: errutil.StatusNotFound, Reason: ReasonNotFound, Message: "fee structure not found"}
