package voucher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClaimUse(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	repo := NewRepository(db)

	v := createVoucher(t, svc, CreateRequest{Code: "ONCE", Type: TypeFullWaiver, MaxUses: 1})

	claimed, err := repo.ClaimUse(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = repo.ClaimUse(ctx, v.ID)
	require.NoError(t, err)
	require.False(t, claimed)

	claimed, err = repo.ClaimUse(ctx, "missing")
	require.NoError(t, err)
	require.False(t, claimed)

	stored, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.UsedCount)
}

func TestSetMaxUsesAndDeleteUnused(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	repo := NewRepository(db)

	v := createVoucher(t, svc, CreateRequest{Code: "TWICE", Type: TypeFullWaiver, MaxUses: 2})
	claimed, err := repo.ClaimUse(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	ok, err := repo.SetMaxUses(ctx, v.ID, 0)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.SetMaxUses(ctx, v.ID, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DeleteUnused(ctx, v.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
