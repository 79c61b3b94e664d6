package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, ok := ParseStatus(string(st))
		require.True(t, ok)
		require.Equal(t, st, got)
	}

	got, ok := ParseStatus(" Under_Review ")
	require.True(t, ok)
	require.Equal(t, StatusUnderReview, got)

	_, ok = ParseStatus("archived")
	require.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(StatusPending, StatusUnderReview))
	require.True(t, CanTransition(StatusPending, StatusApproved))
	require.True(t, CanTransition(StatusUnderReview, StatusWaitlisted))
	require.False(t, CanTransition(StatusUnderReview, StatusPending))
	require.False(t, CanTransition(StatusApproved, StatusRejected))
	require.False(t, CanTransition(StatusWaitlisted, StatusApproved))
	require.False(t, CanTransition(StatusPending, StatusPending))
}

func TestTerminal(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusUnderReview.Terminal())
	require.True(t, StatusApproved.Terminal())
	require.True(t, StatusRejected.Terminal())
	require.True(t, StatusWaitlisted.Terminal())
	require.Empty(t, NextStatuses(StatusApproved))
	require.Len(t, NextStatuses(StatusPending), 4)
}
