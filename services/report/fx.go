package report

import (
	"admissions-backoffice/pkg/httpapi"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/payment"
	"admissions-backoffice/services/voucher"

	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(
		func(a *application.Service) ApplicationCounter { return a },
		func(p *payment.Service) PaymentTotaler { return p },
		func(v *voucher.Service) VoucherStatter { return v },
		NewService,
		httpapi.AsRoutes(NewHandler),
	),
)
