package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatYearly(t *testing.T) {
	require.Equal(t, "RCP-2026-000042", FormatYearly("RCP", 2026, 42, 6))
	require.Equal(t, "APP-2025-00001", FormatYearly("APP", 2025, 1, 5))
	require.Equal(t, "APP-2025-123456", FormatYearly("APP", 2025, 123456, 5))
}

func TestFormatDaily(t *testing.T) {
	require.Equal(t, "VS-261018-001AB", FormatDaily("VS", "261018", 1, "AB"))
	require.Equal(t, "EARLY-261018-00ZXY", FormatDaily("EARLY", "261018", 35, "XY"))
	require.Equal(t, "VS-261018-0ZZ", FormatDaily("VS", "261018", 36*36-1, ""))
	require.Equal(t, "VS-261018-1000", FormatDaily("VS", "261018", 36*36*36, ""))
}

func TestRandomAlphaNumeric(t *testing.T) {
	s, err := randomAlphaNumeric(8)
	require.NoError(t, err)
	require.Len(t, s, 8)
	require.NotContains(t, s, "0")
	require.NotContains(t, s, "O")
}
