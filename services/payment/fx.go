package payment

import (
	"admissions-backoffice/pkg/httpapi"
	"admissions-backoffice/services/application"

	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(
		func(a *application.Service) ApplicationGetter { return a },
		NewService,
		httpapi.AsRoutes(NewHandler),
	),
)
