// Package storetest provides in-memory implementations of the catalog, cart
// and order store ports with the same semantics as the Postgres stores, for
// use in package tests. The three views share one state so cross-component
// behavior (cascades, checkout clearing the cart) can be exercised.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/internal/order"
)

type Store struct {
	mu     sync.Mutex
	items  map[string]domain.MenuItem
	carts  map[string]bool
	lines  map[string]map[string]int // user -> item -> quantity
	orders map[string]domain.Order
	idem   map[string]string // idempotency key -> order id

	// PurgeErr, when set, makes PurgeItem fail; used to exercise the
	// cascade failure paths.
	PurgeErr error
}

func New() *Store {
	return &Store{
		items:  map[string]domain.MenuItem{},
		carts:  map[string]bool{},
		lines:  map[string]map[string]int{},
		orders: map[string]domain.Order{},
		idem:   map[string]string{},
	}
}

func (s *Store) Catalog() *CatalogStore { return &CatalogStore{s} }
func (s *Store) Cart() *CartStore       { return &CartStore{s} }
func (s *Store) Orders() *OrderStore    { return &OrderStore{s} }

// writeLine enforces the schema's quantity check: no cart line may ever be
// stored with a non-positive quantity. Callers must delete instead.
func (s *Store) writeLine(userID, menuItemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cart line quantity check violated: %d", qty)
	}
	if s.lines[userID] == nil {
		s.lines[userID] = map[string]int{}
	}
	s.lines[userID][menuItemID] = qty
	return nil
}

// CatalogStore implements catalog.Store and the cart service's Catalog port.
type CatalogStore struct{ s *Store }

func (c *CatalogStore) Insert(_ context.Context, item domain.MenuItem) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	c.s.items[item.ID] = item
	return nil
}

func (c *CatalogStore) Get(_ context.Context, id string) (domain.MenuItem, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	item, ok := c.s.items[id]
	if !ok {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	return item, nil
}

func (c *CatalogStore) Update(_ context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	item, ok := c.s.items[id]
	if !ok {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	item.UpdatedAt = time.Now()
	c.s.items[id] = item
	return item, nil
}

func (c *CatalogStore) SetAvailability(_ context.Context, id string, available bool) (domain.MenuItem, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	item, ok := c.s.items[id]
	if !ok {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	item.Available = available
	item.UpdatedAt = time.Now()
	c.s.items[id] = item
	return item, nil
}

func (c *CatalogStore) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.items[id]; !ok {
		return domain.NotFound("menu item", id)
	}
	delete(c.s.items, id)
	return nil
}

func (c *CatalogStore) List(_ context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	items := []domain.MenuItem{}
	for _, item := range c.s.items {
		if includeUnavailable || item.Available {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// CartStore implements cart.Store and the catalog service's Invalidator port.
type CartStore struct{ s *Store }

func (c *CartStore) HasCart(_ context.Context, userID string) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.carts[userID], nil
}

func (c *CartStore) Lines(_ context.Context, userID string) ([]domain.CartLine, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	lines := []domain.CartLine{}
	for itemID, qty := range c.s.lines[userID] {
		ln := domain.CartLine{MenuItemID: itemID, Quantity: qty}
		if item, ok := c.s.items[itemID]; ok {
			ln.Name = item.Name
			ln.UnitPrice = item.Price
		}
		lines = append(lines, ln)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

func (c *CartStore) AddLine(_ context.Context, userID, menuItemID string, qty int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.carts[userID] = true
	return c.s.writeLine(userID, menuItemID, c.s.lines[userID][menuItemID]+qty)
}

func (c *CartStore) AdjustLine(_ context.Context, userID, menuItemID string, delta int) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	qty, ok := c.s.lines[userID][menuItemID]
	if !ok {
		return false, nil
	}
	if qty+delta <= 0 {
		delete(c.s.lines[userID], menuItemID)
		return true, nil
	}
	return true, c.s.writeLine(userID, menuItemID, qty+delta)
}

func (c *CartStore) RemoveLine(_ context.Context, userID, menuItemID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.lines[userID], menuItemID)
	return nil
}

func (c *CartStore) Clear(_ context.Context, userID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.lines, userID)
	return nil
}

func (c *CartStore) PurgeItem(_ context.Context, menuItemID string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.PurgeErr != nil {
		return 0, c.s.PurgeErr
	}
	var carts int64
	for _, lines := range c.s.lines {
		if _, ok := lines[menuItemID]; ok {
			delete(lines, menuItemID)
			carts++
		}
	}
	return carts, nil
}

// OrderStore implements order.Store.
type OrderStore struct{ s *Store }

func (o *OrderStore) Checkout(_ context.Context, p order.CheckoutParams) (domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	lines := []domain.OrderLine{}
	for itemID, qty := range o.s.lines[p.User.ID] {
		item, ok := o.s.items[itemID]
		if !ok || !item.Available {
			continue
		}
		lines = append(lines, domain.OrderLine{
			MenuItemID: itemID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   qty,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	if len(lines) == 0 {
		return domain.Order{}, domain.Validationf("no items")
	}

	if p.IdempotencyKey != "" {
		if _, exists := o.s.idem[p.IdempotencyKey]; exists {
			return domain.Order{}, order.ErrIdempotencyRace
		}
	}

	subtotal := domain.Subtotal(lines)
	tax, total := domain.Totals(subtotal, p.TaxRate, p.Tip)
	now := time.Now()
	ord := domain.Order{
		ID:        p.OrderID,
		UserID:    p.User.ID,
		UserName:  p.User.Name,
		UserEmail: p.User.Email,
		Lines:     lines,
		Subtotal:  subtotal,
		Tax:       tax,
		Tip:       p.Tip.Round(2),
		Total:     total,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.s.orders[ord.ID] = ord
	if p.IdempotencyKey != "" {
		o.s.idem[p.IdempotencyKey] = ord.ID
	}
	delete(o.s.lines, p.User.ID)
	return ord, nil
}

func (o *OrderStore) Get(_ context.Context, id string) (domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFound("order", id)
	}
	return ord, nil
}

func (o *OrderStore) GetByIdempotencyKey(_ context.Context, key string) (domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	id, ok := o.s.idem[key]
	if !ok {
		return domain.Order{}, domain.NotFound("order", "")
	}
	return o.s.orders[id], nil
}

func (o *OrderStore) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	orders := []domain.Order{}
	for _, ord := range o.s.orders {
		if ord.UserID == userID {
			orders = append(orders, ord)
		}
	}
	sortOrders(orders)
	return orders, nil
}

func (o *OrderStore) ListAll(_ context.Context) ([]domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	orders := []domain.Order{}
	for _, ord := range o.s.orders {
		orders = append(orders, ord)
	}
	sortOrders(orders)
	return orders, nil
}

func (o *OrderStore) TransitionFrom(_ context.Context, id string, from, to domain.OrderStatus) (domain.Order, bool, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok || ord.Status != from {
		return domain.Order{}, false, nil
	}
	ord.Status = to
	ord.UpdatedAt = time.Now()
	o.s.orders[id] = ord
	return ord, true, nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
