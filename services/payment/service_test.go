package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"admissions-backoffice/pkg/errutil"
	"admissions-backoffice/pkg/middleware"
	"admissions-backoffice/pkg/sequence"
	"admissions-backoffice/pkg/sequence/mock"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/fee"
	"admissions-backoffice/services/testutil"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeApplications map[string]bool

func (f fakeApplications) Get(_ context.Context, id string) (*application.Application, error) {
	if !f[id] {
		return nil, application.ErrNotFound
	}
	return &application.Application{ID: id}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, Models()...)

	var (
		mu sync.Mutex
		n  int64
	)
	seq := mock.NewMockGenerator(gomock.NewController(t))
	seq.EXPECT().NextReceiptNumber(gomock.Any(), 2025).DoAndReturn(func(_ context.Context, year int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return sequence.FormatYearly("RCP", year, n, 6), nil
	}).AnyTimes()

	svc := NewService(ServiceParams{
		DB:           db,
		Node:         testutil.NewNode(t),
		Seq:          seq,
		Applications: fakeApplications{"app-1": true, "app-2": true},
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	return svc
}

func createPayment(t *testing.T, svc *Service, appID, amount string) *Payment {
	t.Helper()

	p, err := svc.Create(context.Background(), CreateRequest{
		ApplicationID: appID,
		StudentID:     "stu-1",
		FeeType:       fee.FeeTypeApplication,
		Amount:        decimal.RequireFromString(amount),
		Method:        MethodMobileMoney,
		Reference:     "MM-" + amount,
	})
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := createPayment(t, svc, "app-1", "100.00")
	require.Equal(t, StatusPending, p.Status)
	require.Nil(t, p.ReceiptNumber)

	_, err := svc.Create(ctx, CreateRequest{ApplicationID: "app-1", StudentID: "stu-1", FeeType: "parking", Amount: decimal.Zero, Method: "cheque"})
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.ReasonValidation, be.Reason)
	require.Len(t, be.Details, 3)

	_, err = svc.Create(ctx, CreateRequest{ApplicationID: "app-9", StudentID: "stu-1", FeeType: fee.FeeTypeApplication, Amount: decimal.NewFromInt(10), Method: MethodCash})
	require.ErrorIs(t, err, application.ErrNotFound)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyAssignsReceipt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := createPayment(t, svc, "app-1", "100.00")
	second := createPayment(t, svc, "app-2", "250.00")

	v1, err := svc.Verify(ctx, first.ID, "fin-1")
	require.NoError(t, err)
	require.Equal(t, StatusVerified, v1.Status)
	require.Equal(t, "RCP-2025-000001", *v1.ReceiptNumber)
	require.Equal(t, "fin-1", v1.VerifiedBy)
	require.NotNil(t, v1.VerifiedAt)

	v2, err := svc.Verify(ctx, second.ID, "fin-1")
	require.NoError(t, err)
	require.Equal(t, "RCP-2025-000002", *v2.ReceiptNumber)

	_, err = svc.Verify(ctx, first.ID, "fin-2")
	require.ErrorIs(t, err, errutil.ErrValidation)

	_, err = svc.Reject(ctx, first.ID, "fin-2", "duplicate")
	require.ErrorIs(t, err, errutil.ErrValidation)
}

func TestConcurrentVerifyIssuesOneReceipt(t *testing.T) {
	svc := newTestService(t)
	p := createPayment(t, svc, "app-1", "75.50")

	const workers = 5
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Verify(context.Background(), p.ID, "fin-1"); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, oks)
	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusVerified, got.Status)
}

func TestReject(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := createPayment(t, svc, "app-1", "100.00")

	_, err := svc.Reject(ctx, p.ID, "fin-1", "  ")
	require.ErrorIs(t, err, errutil.ErrValidation)

	rejected, err := svc.Reject(ctx, p.ID, "fin-1", "reference not found at bank")
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)
	require.Equal(t, "reference not found at bank", rejected.RejectionReason)
	require.Nil(t, rejected.ReceiptNumber)

	_, err = svc.Verify(ctx, p.ID, "fin-1")
	require.ErrorIs(t, err, errutil.ErrValidation)
}

func TestListAndTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := createPayment(t, svc, "app-1", "100.00")
	createPayment(t, svc, "app-1", "50.00")
	c := createPayment(t, svc, "app-2", "20.00")

	_, err := svc.Verify(ctx, a.ID, "fin-1")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, c.ID, "fin-1", "bounced")
	require.NoError(t, err)

	list, info, err := svc.List(ctx, ListRequest{ApplicationID: "app-1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.EqualValues(t, 2, info.Total)

	list, _, err = svc.List(ctx, ListRequest{Status: StatusVerified})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)

	_, _, err = svc.List(ctx, ListRequest{Status: "lost"})
	require.ErrorIs(t, err, errutil.ErrValidation)

	totals, err := svc.TotalsByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.EqualValues(t, 1, totals[StatusVerified].Count)
	require.Equal(t, "100.00", totals[StatusVerified].Amount.StringFixed(2))
	require.Equal(t, "50.00", totals[StatusPending].Amount.StringFixed(2))
	require.Equal(t, "20.00", totals[StatusRejected].Amount.StringFixed(2))
}

func TestHandlerVerifyUsesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	p := createPayment(t, svc, "app-1", "100.00")

	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1", middleware.Error(), middleware.ActorMiddleware()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+p.ID+"/verify", nil)
	req.Header.Set(middleware.HeaderActorID, "fin-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"verified_by":"fin-7"`)
	require.Contains(t, w.Body.String(), "RCP-2025-000001")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+p.ID+"/reject", strings.NewReader(`{"reason":"late"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), errutil.ReasonValidation)
}
