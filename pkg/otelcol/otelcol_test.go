package otelcol

import (
	"context"
	"testing"

	"admissions-backoffice/pkg/config"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSampler(t *testing.T) {
	cfg := &config.Config{}
	require.Contains(t, Sampler(cfg).Description(), "AlwaysOnSampler")

	cfg.Otel.SampleRatio = 0.25
	require.Contains(t, Sampler(cfg).Description(), "TraceIDRatioBased{0.25}")
}

func TestTracerProviderExportsSpans(t *testing.T) {
	cfg := &config.Config{AppName: "admissions-backoffice"}
	exporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProvider(cfg, exporter)

	_, span := tp.Tracer("test").Start(context.Background(), "voucher.redeem")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "voucher.redeem", spans[0].Name)
	require.NoError(t, tp.Shutdown(context.Background()))
}
