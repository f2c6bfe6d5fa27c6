package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

const itemColumns = `id, name, description, price::text, category, image, available, created_at, updated_at`

func (s *PGStore) Insert(ctx context.Context, item domain.MenuItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO menu_items(id, name, description, price, category, image, available)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)`,
		item.ID, item.Name, item.Description, item.Price.StringFixed(2), item.Category, item.Image, item.Available,
	)
	if err != nil {
		return domain.Storef("insert menu item", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id=$1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	if err != nil {
		return domain.MenuItem{}, domain.Storef("get menu item", err)
	}
	return item, nil
}

func (s *PGStore) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	var price any
	if patch.Price != nil {
		price = patch.Price.StringFixed(2)
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE menu_items SET
		    name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    price       = COALESCE($4::numeric, price),
		    category    = COALESCE($5, category),
		    image       = COALESCE($6, image),
		    available   = COALESCE($7, available),
		    updated_at  = now()
		  WHERE id = $1
		  RETURNING `+itemColumns,
		id, patch.Name, patch.Description, price, patch.Category, patch.Image, patch.Available,
	)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	if err != nil {
		return domain.MenuItem{}, domain.Storef("update menu item", err)
	}
	return item, nil
}

func (s *PGStore) SetAvailability(ctx context.Context, id string, available bool) (domain.MenuItem, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE menu_items SET available=$2, updated_at=now() WHERE id=$1 RETURNING `+itemColumns,
		id, available,
	)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, domain.NotFound("menu item", id)
	}
	if err != nil {
		return domain.MenuItem{}, domain.Storef("set availability", err)
	}
	return item, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return domain.Storef("delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("menu item", id)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE available ORDER BY name`
	if includeUnavailable {
		query = `SELECT ` + itemColumns + ` FROM menu_items ORDER BY name`
	}
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.Storef("list menu items", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.Storef("scan menu item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef("list menu items", err)
	}
	return items, nil
}

func scanItem(row pgx.Row) (domain.MenuItem, error) {
	var item domain.MenuItem
	var price string
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Category, &item.Image, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return domain.MenuItem{}, err
	}
	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}
