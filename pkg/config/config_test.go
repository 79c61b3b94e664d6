package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "mysql", cfg.Database.Type)
	require.Equal(t, "8080", cfg.Server.Addr)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "secret", cfg.Vault.MountPath)
	require.Equal(t, 1.0, cfg.Otel.SampleRatio)
	require.Equal(t, 5, cfg.Worker.Concurrency)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("TIMEZONE", "Africa/Kampala")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, "postgres", cfg.Database.Type)
	require.Equal(t, "Africa/Kampala", cfg.Location().String())
}

func TestLocationFallback(t *testing.T) {
	var nilCfg *Config
	require.Equal(t, time.UTC, nilCfg.Location())
	require.Equal(t, time.UTC, (&Config{Timezone: "Not/AZone"}).Location())
}
