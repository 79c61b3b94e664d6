package profiling

import (
	"testing"

	"admissions-backoffice/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestProfilerConfig(t *testing.T) {
	c := &config.Config{AppName: "admissions-backoffice", AppVersion: "1.2.0", AppEnv: "staging"}
	c.Pyroscope.Addr = "http://pyroscope:4040"

	pc := ProfilerConfig(c)
	require.Equal(t, "admissions-backoffice", pc.ApplicationName)
	require.Equal(t, "1.2.0", pc.Tags["version"])
	require.Equal(t, "staging", pc.Tags["env"])
}

func TestStartDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	require.NoError(t, Start(lc, &config.Config{}))
}
