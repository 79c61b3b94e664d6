package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"admissions-backoffice/pkg/middleware"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/payment"
	"admissions-backoffice/services/voucher"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeApplications struct{ err error }

func (f fakeApplications) CountByStatus(context.Context) (map[application.Status]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[application.Status]int64{
		application.StatusPending:     4,
		application.StatusUnderReview: 2,
		application.StatusApproved:    1,
		application.StatusRejected:    0,
		application.StatusWaitlisted:  0,
	}, nil
}

type fakePayments struct{}

func (fakePayments) TotalsByStatus(context.Context) (map[payment.Status]payment.StatusTotal, error) {
	return map[payment.Status]payment.StatusTotal{
		payment.StatusPending:  {Count: 1, Amount: decimal.RequireFromString("50")},
		payment.StatusVerified: {Count: 3, Amount: decimal.RequireFromString("300")},
		payment.StatusRejected: {Amount: decimal.Zero},
	}, nil
}

type fakeVouchers struct{}

func (fakeVouchers) Stats(context.Context) (*voucher.Stats, error) {
	return &voucher.Stats{ActiveVouchers: 6, Redemptions: 9, TotalDiscount: decimal.RequireFromString("420.50")}, nil
}

func TestDashboard(t *testing.T) {
	svc := NewService(ServiceParams{Applications: fakeApplications{}, Payments: fakePayments{}, Vouchers: fakeVouchers{}})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 4, d.Applications[application.StatusPending])
	require.EqualValues(t, 3, d.Payments[payment.StatusVerified].Count)
	require.EqualValues(t, 9, d.Vouchers.Redemptions)
	require.False(t, d.GeneratedAt.IsZero())
}

func TestDashboardFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(ServiceParams{Applications: fakeApplications{err: boom}, Payments: fakePayments{}, Vouchers: fakeVouchers{}})

	_, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(ServiceParams{Applications: fakeApplications{}, Payments: fakePayments{}, Vouchers: fakeVouchers{}})

	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1", middleware.Error()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"under_review":2`)
	require.Contains(t, w.Body.String(), `"total_discount":"420.5"`)
}
