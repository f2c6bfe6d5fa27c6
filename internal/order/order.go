// Package order drives the order lifecycle: checkout from a cart snapshot
// and the fixed pending → in_progress → ready → completed sequence.
package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
)

// ErrIdempotencyRace reports that another request committed the same
// idempotency key first; the caller replays the stored order.
var ErrIdempotencyRace = errors.New("idempotency race")

type CheckoutParams struct {
	OrderID        string
	User           domain.User
	TaxRate        decimal.Decimal
	Tip            decimal.Decimal
	IdempotencyKey string
}

type Store interface {
	// Checkout snapshots the user's cart into frozen order lines at current
	// catalog prices, skipping unavailable items, and clears the cart in the
	// same transaction. Returns a ValidationError when nothing orderable is
	// in the cart, ErrIdempotencyRace on a duplicate idempotency key.
	Checkout(ctx context.Context, p CheckoutParams) (domain.Order, error)

	Get(ctx context.Context, id string) (domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)

	// TransitionFrom compare-and-sets the status: the update applies only
	// when the order currently holds from. Returns applied=false without
	// error when the predicate did not match.
	TransitionFrom(ctx context.Context, id string, from, to domain.OrderStatus) (domain.Order, bool, error)
}

// Dispatcher receives lifecycle edges. Implementations must not block the
// caller; failures stay on their side of the fence.
type Dispatcher interface {
	OrderCreated(order domain.Order)
	OrderReady(order domain.Order)
	OrderStatusChanged(order domain.Order)
}

type Service struct {
	store    Store
	dispatch Dispatcher
}

func New(store Store, dispatch Dispatcher) *Service {
	return &Service{store: store, dispatch: dispatch}
}

type CheckoutInput struct {
	TaxRate        decimal.Decimal
	Tip            decimal.Decimal
	IdempotencyKey string
}

// Checkout converts the user's cart into a pending order. The returned bool
// is true when an idempotency key replayed a previously created order.
func (s *Service) Checkout(ctx context.Context, user domain.User, in CheckoutInput) (domain.Order, bool, error) {
	if in.TaxRate.IsNegative() {
		return domain.Order{}, false, domain.Validationf("tax rate must be >= 0")
	}
	if in.Tip.IsNegative() {
		return domain.Order{}, false, domain.Validationf("tip must be >= 0")
	}

	if in.IdempotencyKey != "" {
		if existing, err := s.store.GetByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
			return existing, true, nil
		}
	}

	ord, err := s.store.Checkout(ctx, CheckoutParams{
		OrderID:        uuid.NewString(),
		User:           user,
		TaxRate:        in.TaxRate,
		Tip:            in.Tip,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		if errors.Is(err, ErrIdempotencyRace) && in.IdempotencyKey != "" {
			if existing, qerr := s.store.GetByIdempotencyKey(ctx, in.IdempotencyKey); qerr == nil {
				return existing, true, nil
			}
		}
		return domain.Order{}, false, err
	}

	logging.Log(logging.Fields{Service: "order", UserID: user.ID, OrderID: ord.ID, Step: "checkout", Status: string(ord.Status)})
	s.dispatch.OrderCreated(ord)
	return ord, false, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.store.Get(ctx, id)
}

// List returns the caller's own orders, or every order for staff.
func (s *Service) List(ctx context.Context, user domain.User) ([]domain.Order, error) {
	if user.IsStaff() {
		return s.store.ListAll(ctx)
	}
	return s.store.ListByUser(ctx, user.ID)
}

// Transition advances an order one step along the fixed sequence. The status
// change commits before any notification is attempted; entering "ready"
// fires the dispatcher exactly once because the compare-and-set can only
// cross that edge once.
func (s *Service) Transition(ctx context.Context, id string, target domain.OrderStatus) (domain.Order, error) {
	if !target.Valid() {
		return domain.Order{}, domain.Validationf("unknown status %q", string(target))
	}
	pred, ok := domain.Predecessor(target)
	if !ok {
		return domain.Order{}, domain.Validationf("orders cannot transition into %q", string(target))
	}

	ord, applied, err := s.store.TransitionFrom(ctx, id, pred, target)
	if err != nil {
		return domain.Order{}, err
	}
	if !applied {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.Validationf("cannot transition from %q to %q", string(current.Status), string(target))
	}

	logging.Log(logging.Fields{Service: "order", OrderID: ord.ID, Step: "transition", Status: string(ord.Status)})
	if target == domain.StatusReady {
		s.dispatch.OrderReady(ord)
	} else {
		s.dispatch.OrderStatusChanged(ord)
	}
	return ord, nil
}
