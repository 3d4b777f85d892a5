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

// DiscountRepository persists retailer discounts in PostgreSQL
type DiscountRepository struct {
	db *pgxpool.Pool
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO discounts (id, retailer_id, item_id, percent, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		discount.ID,
		discount.RetailerID,
		discount.ItemID,
		discount.Percent,
		discount.Active,
		discount.CreatedAt,
		discount.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Discount, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, retailer_id, item_id, percent, active, created_at, updated_at
		FROM discounts
		WHERE id = $1
	`, id)

	var d domain.Discount
	err := row.Scan(&d.ID, &d.RetailerID, &d.ItemID, &d.Percent, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return &d, nil
}

func (r *DiscountRepository) ListByRetailer(ctx context.Context, retailerID uuid.UUID) ([]domain.Discount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, retailer_id, item_id, percent, active, created_at, updated_at
		FROM discounts
		WHERE retailer_id = $1
		ORDER BY created_at DESC
	`, retailerID)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()

	discounts := []domain.Discount{}
	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.ID, &d.RetailerID, &d.ItemID, &d.Percent, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

func (r *DiscountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE discounts SET active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("toggle discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
