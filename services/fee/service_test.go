package fee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admissions-backoffice/pkg/errutil"
	"admissions-backoffice/pkg/middleware"
	"admissions-backoffice/services/testutil"
	"admissions-backoffice/services/voucher"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeVouchers struct {
	validated []voucher.CheckRequest
	redeemed  []voucher.CheckRequest
	err       error
}

func (f *fakeVouchers) result(req voucher.CheckRequest, redeemed bool) (*voucher.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	discount := voucher.Calculate(voucher.TypePercentage, d("20"), req.BaseFee)
	return &voucher.Result{
		VoucherID:      "v-1",
		Code:           req.Code,
		Type:           voucher.TypePercentage,
		BaseAmount:     req.BaseFee,
		DiscountAmount: discount,
		FinalAmount:    req.BaseFee.Sub(discount),
		Redeemed:       redeemed,
	}, nil
}

func (f *fakeVouchers) Validate(_ context.Context, req voucher.CheckRequest) (*voucher.Result, error) {
	f.validated = append(f.validated, req)
	return f.result(req, false)
}

func (f *fakeVouchers) Redeem(_ context.Context, req voucher.CheckRequest) (*voucher.Result, error) {
	f.redeemed = append(f.redeemed, req)
	return f.result(req, true)
}

func newTestService(t *testing.T, now time.Time) (*Service, *fakeVouchers) {
	t.Helper()

	db := testutil.NewTestDB(t, Models()...)
	node := testutil.NewNode(t)

	vouchers := &fakeVouchers{}
	svc := NewService(ServiceParams{DB: db, Node: node, Vouchers: vouchers})
	svc.now = func() time.Time { return now }
	return svc, vouchers
}

func TestResolveFeeProgramBeatsGlobal(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "Application fee", FeeType: FeeTypeApplication, Amount: d("100.00")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "Application fee (MBA)", FeeType: FeeTypeApplication, Amount: d("150.00"), ProgramID: "prog-mba"})
	require.NoError(t, err)

	f, err := svc.ResolveFee(ctx, "prog-mba", FeeTypeApplication)
	require.NoError(t, err)
	require.Equal(t, "150.00", f.Amount.StringFixed(2))

	f, err = svc.ResolveFee(ctx, "prog-bsc", FeeTypeApplication)
	require.NoError(t, err)
	require.Equal(t, "100.00", f.Amount.StringFixed(2))
	require.True(t, f.IsGlobal())

	f, err = svc.ResolveFee(ctx, "", FeeTypeApplication)
	require.NoError(t, err)
	require.True(t, f.IsGlobal())

	_, err = svc.ResolveFee(ctx, "prog-mba", FeeTypeTuition)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ResolveFee(ctx, "prog-mba", FeeType("parking"))
	require.ErrorIs(t, err, errutil.ErrValidation)
}

func TestResolveFeeSkipsInactive(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()

	global, err := svc.Create(ctx, CreateRequest{Name: "Acceptance", FeeType: FeeTypeAcceptance, Amount: d("80")})
	require.NoError(t, err)
	program, err := svc.Create(ctx, CreateRequest{Name: "Acceptance (Law)", FeeType: FeeTypeAcceptance, Amount: d("120"), ProgramID: "prog-law"})
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, program.ID, false)
	require.NoError(t, err)

	f, err := svc.ResolveFee(ctx, "prog-law", FeeTypeAcceptance)
	require.NoError(t, err)
	require.Equal(t, global.ID, f.ID)

	_, err = svc.SetActive(ctx, global.ID, false)
	require.NoError(t, err)
	_, err = svc.ResolveFee(ctx, "prog-law", FeeTypeAcceptance)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLateFee(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f := &FeeStructure{DueDate: &due, LateFeeAmount: d("25"), GraceDays: 5}

	cases := []struct {
		today time.Time
		late  bool
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		amount, late := LateFee(f, tc.today)
		require.Equal(t, tc.late, late, tc.today)
		if late {
			require.True(t, d("25").Equal(amount))
		} else {
			require.True(t, amount.IsZero())
		}
	}

	_, late := LateFee(&FeeStructure{LateFeeAmount: d("25")}, time.Now())
	require.False(t, late)
}

func TestQuote(t *testing.T) {
	svc, vouchers := newTestService(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{
		Name:          "Tuition",
		FeeType:       FeeTypeTuition,
		Amount:        d("1000.00"),
		DueDate:       "2025-03-01",
		LateFeeAmount: d("50.00"),
		GraceDays:     7,
	})
	require.NoError(t, err)

	q, err := svc.Quote(ctx, QuoteRequest{FeeType: FeeTypeTuition})
	require.NoError(t, err)
	require.True(t, q.IsLate)
	require.Equal(t, "1050.00", q.Payable.StringFixed(2))
	require.Nil(t, q.Voucher)

	q, err = svc.Quote(ctx, QuoteRequest{FeeType: FeeTypeTuition, VoucherCode: "EARLY2025", ProgramID: "prog-a"})
	require.NoError(t, err)
	require.Equal(t, "200.00", q.DiscountAmount.StringFixed(2))
	require.Equal(t, "850.00", q.Payable.StringFixed(2))
	require.Len(t, vouchers.validated, 1)
	require.Empty(t, vouchers.redeemed)
	require.True(t, d("1000").Equal(vouchers.validated[0].BaseFee))

	q, err = svc.Quote(ctx, QuoteRequest{FeeType: FeeTypeTuition, VoucherCode: "EARLY2025", ApplicationID: "app-1", Redeem: true})
	require.NoError(t, err)
	require.True(t, q.Voucher.Redeemed)
	require.Len(t, vouchers.redeemed, 1)
	require.Equal(t, "app-1", vouchers.redeemed[0].ApplicationID)

	vouchers.err = voucher.ErrExpired
	_, err = svc.Quote(ctx, QuoteRequest{FeeType: FeeTypeTuition, VoucherCode: "OLD"})
	require.ErrorIs(t, err, voucher.ErrExpired)
}

func TestQuoteWithinGrace(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2025, 3, 8, 23, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "Tuition", FeeType: FeeTypeTuition, Amount: d("1000"), DueDate: "2025-03-01", LateFeeAmount: d("50"), GraceDays: 7})
	require.NoError(t, err)

	q, err := svc.Quote(ctx, QuoteRequest{FeeType: FeeTypeTuition})
	require.NoError(t, err)
	require.False(t, q.IsLate)
	require.Equal(t, "1000.00", q.Payable.StringFixed(2))
}

func TestCreateAndUpdateValidation(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()

	for _, req := range []CreateRequest{
		{FeeType: FeeTypeTuition, Amount: d("10")},
		{Name: "x", FeeType: "parking", Amount: d("10")},
		{Name: "x", FeeType: FeeTypeTuition, Amount: d("-1")},
		{Name: "x", FeeType: FeeTypeTuition, Amount: d("10"), GraceDays: -2},
		{Name: "x", FeeType: FeeTypeTuition, Amount: d("10"), DueDate: "tomorrow"},
	} {
		_, err := svc.Create(ctx, req)
		require.ErrorIs(t, err, errutil.ErrValidation)
	}

	f, err := svc.Create(ctx, CreateRequest{Name: "Misc", FeeType: FeeTypeMiscellaneous, Amount: d("10"), AcademicYear: "2025/2026"})
	require.NoError(t, err)
	require.True(t, f.IsActive)

	neg := d("-5")
	_, err = svc.Update(ctx, f.ID, UpdateRequest{Amount: &neg})
	require.ErrorIs(t, err, errutil.ErrValidation)

	amount := d("12.50")
	due := "2025-09-01"
	updated, err := svc.Update(ctx, f.ID, UpdateRequest{Amount: &amount, DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, "12.50", updated.Amount.StringFixed(2))
	require.NotNil(t, updated.DueDate)

	none := ""
	updated, err = svc.Update(ctx, f.ID, UpdateRequest{DueDate: &none})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "App", FeeType: FeeTypeApplication, Amount: d("100")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "App MBA", FeeType: FeeTypeApplication, Amount: d("150"), ProgramID: "prog-mba"})
	require.NoError(t, err)
	off, err := svc.Create(ctx, CreateRequest{Name: "Old tuition", FeeType: FeeTypeTuition, Amount: d("900")})
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, off.ID, false)
	require.NoError(t, err)

	fees, info, err := svc.List(ctx, ListRequest{ProgramID: "global"})
	require.NoError(t, err)
	require.Len(t, fees, 2)
	require.EqualValues(t, 2, info.Total)

	active := true
	fees, _, err = svc.List(ctx, ListRequest{Active: &active})
	require.NoError(t, err)
	require.Len(t, fees, 2)

	fees, _, err = svc.List(ctx, ListRequest{ProgramID: "prog-mba", FeeType: FeeTypeApplication})
	require.NoError(t, err)
	require.Len(t, fees, 1)
}

func TestHandlerResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t, time.Now())

	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1", middleware.Error()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/fees/resolve?fee_type=tuition&program_id=p1", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), ReasonNotFound)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "Tuition", FeeType: FeeTypeTuition, Amount: d("500")})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/fees/resolve?fee_type=tuition&program_id=p1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"fee_type":"tuition"`)
}
