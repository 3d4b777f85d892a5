package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ItemRepository defines persistence for food items
type ItemRepository interface {
	Create(ctx context.Context, item *FoodItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*FoodItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FoodItem, error)
	Update(ctx context.Context, item *FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines persistence for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// DiscountRepository defines persistence for retailer discounts
type DiscountRepository interface {
	Create(ctx context.Context, discount *Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*Discount, error)
	ListByRetailer(ctx context.Context, retailerID uuid.UUID) ([]Discount, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// BarcodeClient defines the interface for the Open Food Facts API
type BarcodeClient interface {
	GetProduct(ctx context.Context, barcode string) (*OFFProduct, error)
	SearchProducts(ctx context.Context, query string) ([]OFFProduct, error)
}

// OCREngine recognizes text from a label photo. Implementations may run
// multiple passes (e.g. image rotations) and concatenate their output into
// one text blob before returning.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// FreshnessClassifier suggests a destination for a near-expiry item
type FreshnessClassifier interface {
	RouteItem(ctx context.Context, productName string, daysLeft int) (*RoutingDecision, error)
}
