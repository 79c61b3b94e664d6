package logger

import (
	"context"
	"fmt"

	"admissions-backoffice/pkg/config"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("zap",
	fx.Provide(New),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

type ConfigParams struct {
	fx.In
	Cfg *config.Config
}

// BuildConfig returns the console development config, or JSON with
// severity/timestamp keys in production. LOG_LEVEL overrides the level.
func BuildConfig(cfg *config.Config) (zap.Config, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg != nil && cfg.AppEnv == "production" {
		zc = zap.NewProductionConfig()
		zc.Encoding = "json"
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.StacktraceKey = "stacktrace"
		zc.EncoderConfig.LevelKey = "severity"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		zc.OutputPaths = []string{"stdout"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	if cfg != nil && cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return zc, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc, nil
}

// New builds the process logger and installs it as zap.L().
func New(p ConfigParams) (*zap.Logger, error) {
	zc, err := BuildConfig(p.Cfg)
	if err != nil {
		return nil, err
	}

	log, err := zc.Build()
	if err != nil {
		return nil, err
	}
	if p.Cfg != nil {
		log = log.With(
			zap.String("env", p.Cfg.AppEnv),
			zap.String("service_name", p.Cfg.AppName),
		)
	}

	zap.ReplaceGlobals(log)
	return log, nil
}

// FromContext returns the global logger tagged with the trace and span of ctx.
func FromContext(ctx context.Context) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return zap.L()
	}
	return zap.L().With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
