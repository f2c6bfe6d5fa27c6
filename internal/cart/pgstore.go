package cart

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
)

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) HasCart(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM carts WHERE user_id=$1)`, userID).Scan(&exists)
	if err != nil {
		return false, domain.Storef("check cart", err)
	}
	return exists, nil
}

func (s *PGStore) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.menu_item_id, COALESCE(m.name, ''), COALESCE(m.price, 0)::text, c.quantity
		   FROM cart_lines c
		   LEFT JOIN menu_items m ON m.id = c.menu_item_id
		  WHERE c.user_id = $1
		  ORDER BY COALESCE(m.name, '')`,
		userID,
	)
	if err != nil {
		return nil, domain.Storef("read cart lines", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var ln domain.CartLine
		var price string
		if err := rows.Scan(&ln.MenuItemID, &ln.Name, &price, &ln.Quantity); err != nil {
			return nil, domain.Storef("scan cart line", err)
		}
		if ln.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, domain.Storef("scan cart line price", err)
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef("read cart lines", err)
	}
	return lines, nil
}

// AddLine is a single upsert against the (user, item) line so two concurrent
// increments serialize at the store instead of one overwriting the other.
func (s *PGStore) AddLine(ctx context.Context, userID, menuItemID string, qty int) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO carts(user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return domain.Storef("create cart", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO cart_lines(user_id, menu_item_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, menu_item_id)
		 DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()`,
		userID, menuItemID, qty,
	)
	if err != nil {
		return domain.Storef("upsert cart line", err)
	}
	return nil
}

// AdjustLine applies the delta and the zero floor in one statement. The two
// CTEs see the same snapshot and their predicates are disjoint, so a line
// emptied by the delta is deleted outright and the quantity check never sees
// an intermediate row at zero.
func (s *PGStore) AdjustLine(ctx context.Context, userID, menuItemID string, delta int) (bool, error) {
	var touched int
	err := s.pool.QueryRow(ctx,
		`WITH gone AS (
		    DELETE FROM cart_lines
		     WHERE user_id = $1 AND menu_item_id = $2 AND quantity + $3 <= 0
		 RETURNING 1
		), kept AS (
		    UPDATE cart_lines SET quantity = quantity + $3, updated_at = now()
		     WHERE user_id = $1 AND menu_item_id = $2 AND quantity + $3 > 0
		 RETURNING 1
		)
		SELECT (SELECT count(*) FROM gone) + (SELECT count(*) FROM kept)`,
		userID, menuItemID, delta,
	).Scan(&touched)
	if err != nil {
		return false, domain.Storef("adjust cart line", err)
	}
	return touched > 0, nil
}

func (s *PGStore) RemoveLine(ctx context.Context, userID, menuItemID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1 AND menu_item_id = $2`, userID, menuItemID)
	if err != nil {
		return domain.Storef("remove cart line", err)
	}
	return nil
}

func (s *PGStore) Clear(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		return domain.Storef("clear cart", err)
	}
	return nil
}

// PurgeItem is the availability cascade: one bulk DELETE, not a per-cart
// read-then-write loop. Each cart holds at most one line per item, so rows
// affected equals carts modified.
func (s *PGStore) PurgeItem(ctx context.Context, menuItemID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE menu_item_id = $1`, menuItemID)
	if err != nil {
		return 0, domain.Storef("purge cart lines", err)
	}
	return tag.RowsAffected(), nil
}
