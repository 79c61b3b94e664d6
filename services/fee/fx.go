package fee

import (
	"admissions-backoffice/pkg/httpapi"
	"admissions-backoffice/services/voucher"

	"go.uber.org/fx"
)

var Module = fx.Module("fee.service",
	fx.Provide(
		func(v *voucher.Service) VoucherRedeemer { return v },
		NewService,
		httpapi.AsRoutes(NewHandler),
	),
)
