package application

import "admissions-backoffice/pkg/errutil"

const ReasonNotFound = "application_not_found"

var ErrNotFound error = errutil.BaseError{Code: errutil.StatusNotFound, Reason: ReasonNotFound, Message: "application not found"}

// ErrStatusChanged is returned when another request changed the status
// between load and update.
var ErrStatusChanged error = errutil.BaseError{Code: errutil.StatusConflict, Reason: "application_status_changed", Message: "application status was changed by another request"}
