// Package catalog owns the menu: item CRUD, the availability flag and the
// cart invalidation cascade triggered by archive and delete.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/metrics"
)

type Store interface {
	Insert(ctx context.Context, item domain.MenuItem) error
	Get(ctx context.Context, id string) (domain.MenuItem, error)
	Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) (domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error)
}

// Invalidator is the cart-side port of the availability cascade: remove every
// cart line referencing the item, as one bulk mutation, and report how many
// carts were touched.
type Invalidator interface {
	PurgeItem(ctx context.Context, menuItemID string) (int64, error)
}

// Events receives catalog lifecycle edges for downstream consumers; nil
// disables publication.
type Events interface {
	MenuItemArchived(item domain.MenuItem, carts int64)
}

type Service struct {
	store   Store
	carts   Invalidator
	events  Events
	metrics *metrics.ServerMetrics
}

func New(store Store, carts Invalidator, events Events, m *metrics.ServerMetrics) *Service {
	return &Service{store: store, carts: carts, events: events, metrics: m}
}

type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.MenuItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.MenuItem{}, domain.Validationf("name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return domain.MenuItem{}, domain.Validationf("category is required")
	}
	if in.Price.IsNegative() {
		return domain.MenuItem{}, domain.Validationf("price must be >= 0")
	}
	item := domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    in.Category,
		Image:       in.Image,
		Available:   true,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	return s.store.Get(ctx, item.ID)
}

func (s *Service) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.MenuItem{}, domain.Validationf("name must not be empty")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return domain.MenuItem{}, domain.Validationf("category must not be empty")
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.MenuItem{}, domain.Validationf("price must be >= 0")
	}
	return s.store.Update(ctx, id, patch)
}

// Archive flips availability off and purges the item from every cart. The
// cascade runs after the flag commits: the catalog is the source of truth, so
// a failed purge is logged and counted but never rolls the archive back.
// Stale lines left behind are dropped by checkout-time re-validation.
func (s *Service) Archive(ctx context.Context, id string) (domain.MenuItem, int64, error) {
	item, err := s.store.SetAvailability(ctx, id, false)
	if err != nil {
		return domain.MenuItem{}, 0, err
	}
	carts := s.cascade(ctx, id)
	if s.events != nil {
		s.events.MenuItemArchived(item, carts)
	}
	return item, carts, nil
}

// Restore makes the item orderable again. Lines removed by an earlier archive
// stay gone; invalidation is one-way.
func (s *Service) Restore(ctx context.Context, id string) (domain.MenuItem, error) {
	return s.store.SetAvailability(ctx, id, true)
}

// Delete hard-removes an item. Historical orders are untouched (they hold
// frozen snapshots), but active carts get the same cascade as archive. Unlike
// archive the cascade must succeed first: deleting while carts still
// reference the row would corrupt them.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.carts.PurgeItem(ctx, id); err != nil {
		return domain.Storef("purge cart lines", err)
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	return s.store.List(ctx, includeUnavailable)
}

func (s *Service) cascade(ctx context.Context, itemID string) int64 {
	carts, err := s.carts.PurgeItem(ctx, itemID)
	if err != nil {
		logging.Log(logging.Fields{Service: "catalog", ItemID: itemID, Step: "cascade", Status: "failed", Error: err.Error()})
		return 0
	}
	if s.metrics != nil {
		s.metrics.CascadeLines.Add(float64(carts))
	}
	logging.Log(logging.Fields{Service: "catalog", ItemID: itemID, Step: "cascade", Status: "ok", Carts: carts})
	return carts
}
