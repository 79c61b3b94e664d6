package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseErrorIsMatchesCodeAndReason(t *testing.T) {
	sentinel := UnprocessableEntity("voucher expired", nil, WithReason("voucher_expired"))
	other := UnprocessableEntity("voucher inactive", nil, WithReason("voucher_inactive"))

	err := fmt.Errorf("redeem: %w", UnprocessableEntity("voucher EARLY expired on 2026-01-01", nil, WithReason("voucher_expired")))

	require.ErrorIs(t, err, sentinel)
	require.NotErrorIs(t, err, other)
	require.True(t, IsBusiness(err))
	require.False(t, IsBusiness(errors.New("connection reset")))
}

func TestBaseErrorWrapsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflict("voucher code already exists", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "[conflict] voucher code already exists: duplicate key", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusNotFound.HTTPStatus())
	require.Equal(t, http.StatusUnprocessableEntity, StatusValidationFailed.HTTPStatus())
	require.Equal(t, http.StatusForbidden, StatusForbidden.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, StatusInternal.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, CoreStatus("whatever").HTTPStatus())
}

func TestURLIncludesReason(t *testing.T) {
	be := New(StatusNotFound, "voucher not found", WithReason("voucher_not_found")).(BaseError)
	require.Contains(t, be.URL(), "error_reason=voucher_not_found")
}

func TestInvalid(t *testing.T) {
	err := Invalid("bad status", Detail{Field: "status", Message: "unknown value"})
	require.True(t, errors.Is(err, ErrValidation))
	require.Equal(t, 422, StatusValidationFailed.HTTPStatus())

	var be BaseError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Details, 1)
}
