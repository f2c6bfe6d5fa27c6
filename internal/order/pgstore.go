package order

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
)

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Checkout(ctx context.Context, p CheckoutParams) (domain.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, domain.Storef("begin checkout", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Checkout-time re-validation: the join drops lines whose item vanished
	// or was archived after it entered the cart.
	rows, err := tx.Query(ctx,
		`SELECT c.menu_item_id, c.quantity, m.name, m.price::text
		   FROM cart_lines c
		   JOIN menu_items m ON m.id = c.menu_item_id AND m.available
		  WHERE c.user_id = $1
		  ORDER BY m.name`,
		p.User.ID,
	)
	if err != nil {
		return domain.Order{}, domain.Storef("snapshot cart", err)
	}
	lines := []domain.OrderLine{}
	for rows.Next() {
		var ln domain.OrderLine
		var price string
		if err := rows.Scan(&ln.MenuItemID, &ln.Quantity, &ln.Name, &price); err != nil {
			rows.Close()
			return domain.Order{}, domain.Storef("scan cart snapshot", err)
		}
		if ln.UnitPrice, err = decimal.NewFromString(price); err != nil {
			rows.Close()
			return domain.Order{}, domain.Storef("scan cart snapshot price", err)
		}
		lines = append(lines, ln)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Order{}, domain.Storef("snapshot cart", err)
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.Validationf("no items")
	}

	subtotal := domain.Subtotal(lines)
	tax, total := domain.Totals(subtotal, p.TaxRate, p.Tip)

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
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders(id, user_id, user_name, user_email, status, subtotal, tax, tip, total)
		 VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9::numeric)
		 RETURNING created_at, updated_at`,
		ord.ID, ord.UserID, ord.UserName, ord.UserEmail, string(ord.Status),
		ord.Subtotal.StringFixed(2), ord.Tax.StringFixed(2), ord.Tip.StringFixed(2), ord.Total.StringFixed(2),
	).Scan(&ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return domain.Order{}, domain.Storef("insert order", err)
	}

	for _, ln := range lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_lines(order_id, menu_item_id, name, unit_price, quantity)
			 VALUES ($1, $2, $3, $4::numeric, $5)`,
			ord.ID, ln.MenuItemID, ln.Name, ln.UnitPrice.StringFixed(2), ln.Quantity,
		)
		if err != nil {
			return domain.Order{}, domain.Storef("insert order line", err)
		}
	}

	if p.IdempotencyKey != "" {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_idempotency(idempotency_key, order_id) VALUES ($1, $2)`,
			p.IdempotencyKey, ord.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Order{}, ErrIdempotencyRace
			}
			return domain.Order{}, domain.Storef("insert idempotency key", err)
		}
	}

	// The order is the cart's successor, not a copy: clearing rides in the
	// same transaction as the snapshot.
	if _, err = tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, p.User.ID); err != nil {
		logging.Log(logging.Fields{Service: "order", UserID: p.User.ID, OrderID: ord.ID, Step: "clear_cart", Status: "failed", Error: err.Error()})
		return domain.Order{}, domain.Storef("clear cart", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, domain.Storef("commit checkout", err)
	}
	return ord, nil
}

const orderColumns = `id, user_id, user_name, user_email, status, subtotal::text, tax::text, tip::text, total::text, created_at, updated_at`

func (s *PGStore) Get(ctx context.Context, id string) (domain.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	ord, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFound("order", id)
	}
	if err != nil {
		return domain.Order{}, domain.Storef("get order", err)
	}
	if ord.Lines, err = s.lines(ctx, ord.ID); err != nil {
		return domain.Order{}, err
	}
	return ord, nil
}

func (s *PGStore) GetByIdempotencyKey(ctx context.Context, key string) (domain.Order, error) {
	var orderID string
	err := s.pool.QueryRow(ctx, `SELECT order_id FROM order_idempotency WHERE idempotency_key = $1`, key).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFound("order", "")
	}
	if err != nil {
		return domain.Order{}, domain.Storef("lookup idempotency key", err)
	}
	return s.Get(ctx, orderID)
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *PGStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (s *PGStore) TransitionFrom(ctx context.Context, id string, from, to domain.OrderStatus) (domain.Order, bool, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE orders SET status = $3, updated_at = now()
		  WHERE id = $1 AND status = $2
		  RETURNING `+orderColumns,
		id, string(from), string(to),
	)
	ord, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, domain.Storef("transition order", err)
	}
	if ord.Lines, err = s.lines(ctx, ord.ID); err != nil {
		return domain.Order{}, false, err
	}
	return ord, true, nil
}

func (s *PGStore) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storef("list orders", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Storef("scan order", err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef("list orders", err)
	}
	for i := range orders {
		if orders[i].Lines, err = s.lines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *PGStore) lines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT menu_item_id, name, unit_price::text, quantity FROM order_lines WHERE order_id = $1 ORDER BY name`,
		orderID,
	)
	if err != nil {
		return nil, domain.Storef("read order lines", err)
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var ln domain.OrderLine
		var price string
		if err := rows.Scan(&ln.MenuItemID, &ln.Name, &price, &ln.Quantity); err != nil {
			return nil, domain.Storef("scan order line", err)
		}
		if ln.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, domain.Storef("scan order line price", err)
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var ord domain.Order
	var status, subtotal, tax, tip, total string
	err := row.Scan(&ord.ID, &ord.UserID, &ord.UserName, &ord.UserEmail, &status,
		&subtotal, &tax, &tip, &total, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	ord.Status = domain.OrderStatus(status)
	if ord.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return domain.Order{}, err
	}
	if ord.Tax, err = decimal.NewFromString(tax); err != nil {
		return domain.Order{}, err
	}
	if ord.Tip, err = decimal.NewFromString(tip); err != nil {
		return domain.Order{}, err
	}
	if ord.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, err
	}
	return ord, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
