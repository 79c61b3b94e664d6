package report

import (
	"context"
	"time"

	"admissions-backoffice/pkg/logger"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/payment"
	"admissions-backoffice/services/voucher"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ApplicationCounter interface {
	CountByStatus(ctx context.Context) (map[application.Status]int64, error)
}

type PaymentTotaler interface {
	TotalsByStatus(ctx context.Context) (map[payment.Status]payment.StatusTotal, error)
}

type VoucherStatter interface {
	Stats(ctx context.Context) (*voucher.Stats, error)
}

type Service struct {
	applications ApplicationCounter
	payments     PaymentTotaler
	vouchers     VoucherStatter
	now          func() time.Time
}

type ServiceParams struct {
	fx.In
	Applications ApplicationCounter
	Payments     PaymentTotaler
	Vouchers     VoucherStatter
}

func NewService(p ServiceParams) *Service {
	return &Service{
		applications: p.Applications,
		payments:     p.Payments,
		vouchers:     p.Vouchers,
		now:          time.Now,
	}
}

type Dashboard struct {
	Applications map[application.Status]int64           `json:"applications"`
	Payments     map[payment.Status]payment.StatusTotal `json:"payments"`
	Vouchers     *voucher.Stats                         `json:"vouchers"`
	GeneratedAt  time.Time                              `json:"generated_at"`
}

// Dashboard runs the aggregations concurrently. The first failure cancels
// the others.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	out := &Dashboard{GeneratedAt: s.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Applications, err = s.applications.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Payments, err = s.payments.TotalsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Vouchers, err = s.vouchers.Stats(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to build dashboard", zap.Error(err))
		return nil, err
	}
	return out, nil
}
