package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshtrack/backend/internal/domain"
)

// ItemRepository persists food items in PostgreSQL
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.FoodItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO food_items (id, user_id, name, barcode, category, quantity, expiry_date, destination, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		item.ID,
		item.UserID,
		item.Name,
		nullable(item.Barcode),
		nullable(item.Category),
		item.Quantity,
		item.ExpiryDate,
		string(item.Destination),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert food item: %w", err)
	}
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FoodItem, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, COALESCE(barcode, ''), COALESCE(category, ''), quantity, expiry_date, destination, created_at
		FROM food_items
		WHERE id = $1
	`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get food item: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FoodItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, COALESCE(barcode, ''), COALESCE(category, ''), quantity, expiry_date, destination, created_at
		FROM food_items
		WHERE user_id = $1
		ORDER BY expiry_date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	items := []domain.FoodItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.FoodItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE food_items
		SET name = $2, barcode = $3, category = $4, quantity = $5, expiry_date = $6, destination = $7
		WHERE id = $1
	`,
		item.ID,
		item.Name,
		nullable(item.Barcode),
		nullable(item.Category),
		item.Quantity,
		item.ExpiryDate,
		string(item.Destination),
	)
	if err != nil {
		return fmt.Errorf("update food item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM food_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete food item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanItem reads one food item from a row or rows cursor
func scanItem(row pgx.Row) (*domain.FoodItem, error) {
	var item domain.FoodItem
	var destination string
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Barcode,
		&item.Category,
		&item.Quantity,
		&item.ExpiryDate,
		&destination,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Destination = domain.ItemDestination(destination)
	return &item, nil
}

// nullable maps empty strings to NULL so optional columns stay clean
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
