package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishithaRamesh/wolfcafeplus/internal/cart"
	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/internal/storetest"
)

func newService(t *testing.T) (*cart.Service, *storetest.Store) {
	t.Helper()
	st := storetest.New()
	return cart.New(st.Cart(), st.Catalog()), st
}

func seedItem(t *testing.T, st *storetest.Store, id, name string, price string, available bool) {
	t.Helper()
	err := st.Catalog().Insert(context.Background(), domain.MenuItem{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Category:  "drinks",
		Available: available,
	})
	require.NoError(t, err)
}

func TestAddMergesQuantities(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)
	crt, err := svc.AddOrIncrement(ctx, "u1", "latte", 3)
	require.NoError(t, err)

	require.Len(t, crt.Lines, 1, "same item stays on one line")
	assert.Equal(t, 5, crt.Lines[0].Quantity)
	assert.Equal(t, "Latte", crt.Lines[0].Name)
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)

	crt, err := svc.AddOrIncrement(ctx, "u1", "latte", -1)
	require.NoError(t, err)
	require.Len(t, crt.Lines, 1)
	assert.Equal(t, 1, crt.Lines[0].Quantity)

	crt, err = svc.AddOrIncrement(ctx, "u1", "latte", -1)
	require.NoError(t, err)
	assert.Empty(t, crt.Lines, "line removed once quantity reaches zero")
}

func TestDecrementByFullQuantityRemovesLine(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)

	crt, err := svc.AddOrIncrement(ctx, "u1", "latte", -2)
	require.NoError(t, err, "a delta that empties the line removes it, never stores zero")
	assert.Empty(t, crt.Lines)
}

func TestDecrementBelowZeroRemovesLine(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)

	crt, err := svc.AddOrIncrement(ctx, "u1", "latte", -5)
	require.NoError(t, err)
	assert.Empty(t, crt.Lines, "quantity never goes negative")
}

func TestNegativeDeltaOnMissingLine(t *testing.T) {
	svc, st := newService(t)
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(context.Background(), "u1", "latte", -1)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestZeroDeltaRejected(t *testing.T) {
	svc, st := newService(t)
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(context.Background(), "u1", "latte", 0)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestAddUnknownItem(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddOrIncrement(context.Background(), "u1", "nope", 1)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestAddUnavailableItemRejected(t *testing.T) {
	svc, st := newService(t)
	seedItem(t, st, "latte", "Latte", "4.50", false)

	_, err := svc.AddOrIncrement(context.Background(), "u1", "latte", 1)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestRemoveWithoutCart(t *testing.T) {
	svc, st := newService(t)
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.Remove(context.Background(), "u1", "latte")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)
	seedItem(t, st, "muffin", "Muffin", "3.25", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 1)
	require.NoError(t, err)

	crt, err := svc.Remove(ctx, "u1", "muffin")
	require.NoError(t, err)
	require.Len(t, crt.Lines, 1)
	assert.Equal(t, "latte", crt.Lines[0].MenuItemID)
}

func TestRemoveLine(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 3)
	require.NoError(t, err)

	crt, err := svc.Remove(ctx, "u1", "latte")
	require.NoError(t, err)
	assert.Empty(t, crt.Lines, "remove drops the whole line regardless of quantity")
}

func TestClearIsIdempotent(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))
	require.NoError(t, svc.Clear(ctx, "u1"), "clearing an already-empty cart succeeds")
	require.NoError(t, svc.Clear(ctx, "nobody"), "clearing an absent cart succeeds")

	crt, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, crt.Lines)
}

func TestGetWithoutCart(t *testing.T) {
	svc, _ := newService(t)

	crt, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", crt.UserID)
	assert.Empty(t, crt.Lines, "absent cart reads as empty")
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	seedItem(t, st, "latte", "Latte", "4.50", true)

	_, err := svc.AddOrIncrement(ctx, "u1", "latte", 2)
	require.NoError(t, err)
	_, err = svc.AddOrIncrement(ctx, "u2", "latte", 7)
	require.NoError(t, err)

	crt, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, crt.Lines, 1)
	assert.Equal(t, 2, crt.Lines[0].Quantity)
}
