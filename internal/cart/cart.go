// Package cart owns the per-user cart: one cart per user, at most one line
// per menu item, quantities merged by atomic upserts so concurrent clicks
// from two tabs never lose an increment.
package cart

import (
	"context"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
)

type Store interface {
	HasCart(ctx context.Context, userID string) (bool, error)
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)

	// AddLine lazily creates the cart and merges qty (> 0) into the line in a
	// single upsert against the (user, item) pair.
	AddLine(ctx context.Context, userID, menuItemID string, qty int) error

	// AdjustLine applies a negative delta to an existing line and removes the
	// line once its quantity drops to zero or below. Returns false when the
	// user has no such line.
	AdjustLine(ctx context.Context, userID, menuItemID string, delta int) (bool, error)

	RemoveLine(ctx context.Context, userID, menuItemID string) error
	Clear(ctx context.Context, userID string) error

	// PurgeItem bulk-removes every line referencing the item across all
	// carts; returns the number of carts modified.
	PurgeItem(ctx context.Context, menuItemID string) (int64, error)
}

// Catalog is the narrow slice of the catalog needed to validate references
// at insertion time.
type Catalog interface {
	Get(ctx context.Context, id string) (domain.MenuItem, error)
}

type Service struct {
	store   Store
	catalog Catalog
}

func New(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Get returns the user's cart, or an empty representation when none exists.
func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, error) {
	lines, err := s.store.Lines(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{UserID: userID, Lines: lines}, nil
}

// AddOrIncrement merges delta into the user's line for the item. Positive
// deltas resolve the item against the catalog first; negative deltas apply
// only to an existing line and remove it once the quantity reaches zero.
func (s *Service) AddOrIncrement(ctx context.Context, userID, menuItemID string, delta int) (domain.Cart, error) {
	if delta == 0 {
		return domain.Cart{}, domain.Validationf("quantity must not be zero")
	}
	item, err := s.catalog.Get(ctx, menuItemID)
	if err != nil {
		return domain.Cart{}, err
	}
	if delta > 0 {
		if !item.Available {
			return domain.Cart{}, domain.Validationf("%s is currently unavailable", item.Name)
		}
		if err := s.store.AddLine(ctx, userID, menuItemID, delta); err != nil {
			return domain.Cart{}, err
		}
		return s.Get(ctx, userID)
	}
	found, err := s.store.AdjustLine(ctx, userID, menuItemID, delta)
	if err != nil {
		return domain.Cart{}, err
	}
	if !found {
		return domain.Cart{}, domain.Validationf("quantity must be positive for a new cart line")
	}
	return s.Get(ctx, userID)
}

// Remove deletes the line if present. A missing cart is a NotFoundError; a
// missing line in an existing cart is a no-op.
func (s *Service) Remove(ctx context.Context, userID, menuItemID string) (domain.Cart, error) {
	has, err := s.store.HasCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !has {
		return domain.Cart{}, domain.NotFound("cart", userID)
	}
	if err := s.store.RemoveLine(ctx, userID, menuItemID); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart in place; clearing an absent or already-empty cart
// succeeds.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
