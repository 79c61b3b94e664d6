package profiling

import (
	"context"

	"admissions-backoffice/pkg/config"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("profiling", fx.Invoke(Start))

// ProfilerConfig tags profiles with the service, version and environment so
// API and worker processes can be told apart.
func ProfilerConfig(c *config.Config) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName: c.AppName,
		ServerAddress:   c.Pyroscope.Addr,
		Logger:          pyroscope.StandardLogger,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
		},
		Tags: map[string]string{
			"service_name": c.AppName,
			"version":      c.AppVersion,
			"env":          c.AppEnv,
		},
	}
}

// Start runs continuous profiling when PYROSCOPE.ADDR is set.
func Start(lc fx.Lifecycle, c *config.Config) error {
	if c.Pyroscope.Addr == "" {
		return nil
	}

	profiler, err := pyroscope.Start(ProfilerConfig(c))
	if err != nil {
		zap.L().Error("failed to start pyroscope", zap.String("addr", c.Pyroscope.Addr), zap.Error(err))
		return err
	}
	zap.L().Info("pyroscope profiling started", zap.String("addr", c.Pyroscope.Addr))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return profiler.Stop()
		},
	})
	return nil
}
