package main

import (
	"log"

	"admissions-backoffice/pkg/accesscontrol"
	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/db"
	"admissions-backoffice/pkg/gen"
	"admissions-backoffice/pkg/health"
	"admissions-backoffice/pkg/httpapi"
	"admissions-backoffice/pkg/logger"
	"admissions-backoffice/pkg/otelcol"
	"admissions-backoffice/pkg/profiling"
	"admissions-backoffice/pkg/redis"
	"admissions-backoffice/pkg/secretmanager"
	"admissions-backoffice/pkg/sequence"
	"admissions-backoffice/pkg/server"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/fee"
	"admissions-backoffice/services/payment"
	"admissions-backoffice/services/report"
	"admissions-backoffice/services/voucher"

	"go.uber.org/fx"
)

func main() {
	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		otelcol.Module,
		profiling.Module,
		db.Module,
		redis.Module,
		gen.Module,
		sequence.Module,
		accesscontrol.Module,
		health.Module,
		voucher.Module,
		application.Module,
		fee.Module,
		payment.Module,
		report.Module,
		httpapi.Module,
		server.ProvideHTTPServer,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}
