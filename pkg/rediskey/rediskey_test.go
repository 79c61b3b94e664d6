package rediskey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "seq:application:2025", ApplicationSeqKey(2025))
	require.Equal(t, "seq:receipt:2026", ReceiptSeqKey(2026))
	require.Equal(t, "seq:VS:261018", DailySeqKey("VS", "261018"))
}
