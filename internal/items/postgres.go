package items

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed item repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (p *PostgresRepository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO items (id, title, description, price, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		nullableString(item.Description),
		item.Price,
		nullableString(item.ImagePath),
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (p *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := `
		SELECT id, title, description, price, image_path, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item, err := scanItem(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return item, nil
}

func (p *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	query := `
		SELECT id, title, description, price, image_path, created_at, updated_at
		FROM items
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, filter.Offset, filter.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, item)
	}

	return result, rows.Err()
}

func (p *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)

	return count, err
}

func (p *PostgresRepository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE items
		SET title = $2, description = $3, price = $4, image_path = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		nullableString(item.Description),
		item.Price,
		nullableString(item.ImagePath),
		item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		item        Item
		description *string
		imagePath   *string
	)

	err := row.Scan(
		&item.ID,
		&item.Title,
		&description,
		&item.Price,
		&imagePath,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		item.Description = *description
	}

	if imagePath != nil {
		item.ImagePath = *imagePath
	}

	return &item, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ Repository = (*PostgresRepository)(nil)
