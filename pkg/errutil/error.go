package errutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BaseError is the error type returned for expected business conditions.
// Reason narrows Code down to a specific business rule (e.g. voucher_expired)
// so callers can branch on it with errors.Is.
type BaseError struct {
	Code    CoreStatus `json:"code"`
	Reason  string     `json:"reason,omitempty"`
	Message string     `json:"message"`
	Details []Detail   `json:"details,omitempty"`
	Err     error      `json:"-"`
}

func (e BaseError) Status() CoreStatus {
	return e.Code
}

func (e BaseError) URL() string {
	values := url.Values{}

	values.Set("error_code", string(e.Code))
	values.Set("error_message", e.Message)
	if e.Reason != "" {
		values.Set("error_reason", e.Reason)
	}

	for _, d := range e.Details {
		values.Set("details["+strings.TrimSpace(d.Field)+"]", d.Message)
	}

	return values.Encode()
}

func (e BaseError) JSON() interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    e.Code,
			"reason":  e.Reason,
			"message": e.Message,
			"details": e.Details,
		},
	}
}

func (e BaseError) Unwrap() error {
	return e.Err
}

// Is matches another BaseError with the same Code and Reason, ignoring the
// message, details and wrapped cause.
func (e BaseError) Is(target error) bool {
	var t BaseError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

func (e BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.messageWithErr())
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e BaseError) messageWithErr() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

type Option func(*BaseError)

func WithDetails(details ...Detail) Option {
	return func(be *BaseError) { be.Details = details }
}

func WithErr(err error) Option {
	return func(be *BaseError) { be.Err = err }
}

func WithReason(reason string) Option {
	return func(be *BaseError) { be.Reason = reason }
}

func New(code CoreStatus, message string, opts ...Option) error {
	be := BaseError{Code: code, Message: message}
	for _, opt := range opts {
		opt(&be)
	}
	return be
}

func newWithErr(code CoreStatus, msg string, err error, options []Option) error {
	if err != nil {
		options = append([]Option{WithErr(err)}, options...)
	}
	return New(code, msg, options...)
}

func NotFound(msg string, err error, options ...Option) error {
	return newWithErr(StatusNotFound, msg, err, options)
}

func UnprocessableEntity(msg string, err error, options ...Option) error {
	return newWithErr(StatusUnprocessableEntity, msg, err, options)
}

func Conflict(msg string, err error, options ...Option) error {
	return newWithErr(StatusConflict, msg, err, options)
}

func BadRequest(msg string, err error, options ...Option) error {
	return newWithErr(StatusBadRequest, msg, err, options)
}

func ValidationFailed(msg string, err error, options ...Option) error {
	return newWithErr(StatusValidationFailed, msg, err, options)
}

func Internal(msg string, err error, options ...Option) error {
	return newWithErr(StatusInternal, msg, err, options)
}

func Unauthorized(msg string, err error, options ...Option) error {
	return newWithErr(StatusUnauthorized, msg, err, options)
}

func Forbidden(msg string, err error, options ...Option) error {
	return newWithErr(StatusForbidden, msg, err, options)
}

// IsBusiness reports whether err is (or wraps) a BaseError, i.e. an expected,
// user-facing condition rather than an infrastructure failure.
func IsBusiness(err error) bool {
	var be BaseError
	return errors.As(err, &be)
}

const ReasonValidation = "validation_error"

// ErrValidation matches every error built with Invalid.
var ErrValidation error = BaseError{Code: StatusValidationFailed, Reason: ReasonValidation}

// Invalid reports rejected input. Nothing has been changed when it is returned.
func Invalid(msg string, details ...Detail) error {
	return New(StatusValidationFailed, msg, WithReason(ReasonValidation), WithDetails(details...))
}
