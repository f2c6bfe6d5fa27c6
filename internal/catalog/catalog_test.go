package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishithaRamesh/wolfcafeplus/internal/cart"
	"github.com/RishithaRamesh/wolfcafeplus/internal/catalog"
	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/internal/storetest"
)

func newService(t *testing.T) (*catalog.Service, *cart.Service, *storetest.Store) {
	t.Helper()
	st := storetest.New()
	return catalog.New(st.Catalog(), st.Cart(), nil, nil), cart.New(st.Cart(), st.Catalog()), st
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc, _, _ := newService(t)

	item, err := svc.Create(context.Background(), catalog.CreateInput{
		Name:     "Latte",
		Price:    dec("4.50"),
		Category: "drinks",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.Available)
	assert.True(t, item.Price.Equal(dec("4.50")))
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.CreateInput{Name: "  ", Price: dec("1"), Category: "drinks"})
	assert.True(t, domain.IsValidation(err), "blank name")

	_, err = svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("1")})
	assert.True(t, domain.IsValidation(err), "missing category")

	_, err = svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("-1"), Category: "drinks"})
	assert.True(t, domain.IsValidation(err), "negative price")
}

func TestUpdatePartial(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)

	price := dec("5.00")
	updated, err := svc.Update(ctx, item.ID, domain.MenuItemPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, "Latte", updated.Name, "untouched fields survive")

	empty := ""
	_, err = svc.Update(ctx, item.ID, domain.MenuItemPatch{Name: &empty})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateUnknownItem(t *testing.T) {
	svc, _, _ := newService(t)
	name := "Flat White"
	_, err := svc.Update(context.Background(), "nope", domain.MenuItemPatch{Name: &name})
	assert.True(t, domain.IsNotFound(err))
}

func TestArchiveCascadesIntoCarts(t *testing.T) {
	svc, carts, _ := newService(t)
	ctx := context.Background()

	latte, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)
	muffin, err := svc.Create(ctx, catalog.CreateInput{Name: "Muffin", Price: dec("3.25"), Category: "food"})
	require.NoError(t, err)

	_, err = carts.AddOrIncrement(ctx, "u1", latte.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "u1", muffin.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "u2", latte.ID, 1)
	require.NoError(t, err)

	item, touched, err := svc.Archive(ctx, latte.ID)
	require.NoError(t, err)
	assert.False(t, item.Available)
	assert.Equal(t, int64(2), touched, "both carts holding the item are purged")

	crt, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, crt.Lines, 1, "other lines are untouched")
	assert.Equal(t, muffin.ID, crt.Lines[0].MenuItemID)
}

func TestArchiveIsIdempotent(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)

	_, _, err = svc.Archive(ctx, item.ID)
	require.NoError(t, err)
	archived, touched, err := svc.Archive(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, archived.Available)
	assert.Equal(t, int64(0), touched, "second archive finds nothing to purge")
}

func TestArchiveSurvivesCascadeFailure(t *testing.T) {
	svc, _, st := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)

	st.PurgeErr = errors.New("purge down")
	archived, touched, err := svc.Archive(ctx, item.ID)
	require.NoError(t, err, "a failed purge never rolls the archive back")
	assert.False(t, archived.Available)
	assert.Equal(t, int64(0), touched)

	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
}

type archiveEvent struct {
	itemID string
	carts  int64
}

type recordingEvents struct {
	mu       sync.Mutex
	archived []archiveEvent
}

func (r *recordingEvents) MenuItemArchived(item domain.MenuItem, carts int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived = append(r.archived, archiveEvent{itemID: item.ID, carts: carts})
}

func TestArchiveNotifiesEvents(t *testing.T) {
	st := storetest.New()
	events := &recordingEvents{}
	svc := catalog.New(st.Catalog(), st.Cart(), events, nil)
	carts := cart.New(st.Cart(), st.Catalog())
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "u1", item.ID, 2)
	require.NoError(t, err)

	_, _, err = svc.Archive(ctx, item.ID)
	require.NoError(t, err)

	require.Len(t, events.archived, 1)
	assert.Equal(t, item.ID, events.archived[0].itemID)
	assert.Equal(t, int64(1), events.archived[0].carts)
}

func TestRestoreDoesNotReaddLines(t *testing.T) {
	svc, carts, _ := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "u1", item.ID, 2)
	require.NoError(t, err)

	_, _, err = svc.Archive(ctx, item.ID)
	require.NoError(t, err)
	restored, err := svc.Restore(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, restored.Available)

	crt, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, crt.Lines, "invalidation is one-way")
}

func TestDeleteCascadesFirst(t *testing.T) {
	svc, carts, _ := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "u1", item.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	assert.True(t, domain.IsNotFound(err))

	crt, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, crt.Lines)
}

func TestDeleteAbortsWhenCascadeFails(t *testing.T) {
	svc, _, st := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)

	st.PurgeErr = errors.New("purge down")
	err = svc.Delete(ctx, item.ID)
	require.Error(t, err, "deleting with live references would corrupt carts")

	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err, "item stays when the cascade cannot run")
	assert.True(t, got.Available)
}

func TestDeleteUnknownItem(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Delete(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
}

func TestListFiltersUnavailable(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	latte, err := svc.Create(ctx, catalog.CreateInput{Name: "Latte", Price: dec("4.50"), Category: "drinks"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, catalog.CreateInput{Name: "Muffin", Price: dec("3.25"), Category: "food"})
	require.NoError(t, err)
	_, _, err = svc.Archive(ctx, latte.ID)
	require.NoError(t, err)

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Muffin", visible[0].Name)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
