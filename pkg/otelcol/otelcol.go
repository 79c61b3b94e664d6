package otelcol

import (
	"context"
	"time"

	"admissions-backoffice/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("otelcol", fx.Invoke(Register))

func newExporter(cfg *config.Config) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Otel.Addr),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	)
}

// Sampler samples root spans at OTEL.SAMPLE_RATIO and follows the parent
// decision otherwise. Ratios outside (0,1] sample everything.
func Sampler(cfg *config.Config) trace.Sampler {
	ratio := cfg.Otel.SampleRatio
	if ratio <= 0 || ratio >= 1 {
		return trace.ParentBased(trace.AlwaysSample())
	}
	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}

func NewTracerProvider(cfg *config.Config, exporter trace.SpanExporter) *trace.TracerProvider {
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithSampler(Sampler(cfg)),
		trace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.AppName),
			attribute.String("service.version", cfg.AppVersion),
			attribute.String("deployment.environment", cfg.AppEnv),
		)),
	)
}

// Register installs the global tracer provider when OTEL.ADDR is set.
// Without it the otel no-op provider stays in place.
func Register(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Otel.Addr == "" {
		return nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	tp := NewTracerProvider(cfg, exporter)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	zap.L().Info("otel tracing enabled", zap.String("addr", cfg.Otel.Addr), zap.Float64("sample_ratio", cfg.Otel.SampleRatio))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return nil
}
