package application

import (
	"admissions-backoffice/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("application.service",
	fx.Provide(
		NewService,
		httpapi.AsRoutes(NewHandler),
	),
)
