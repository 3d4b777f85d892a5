package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshtrack/backend/internal/domain"
)

// CreateItemInput carries the fields needed to record a food item. ExpiryDate
// is either the auto-resolved scan date, the candidate the user picked, or a
// manually entered date.
type CreateItemInput struct {
	Name       string
	Barcode    string
	Category   string
	Quantity   int
	ExpiryDate time.Time
}

// InventoryService handles food item CRUD and expiry classification
type InventoryService struct {
	items domain.ItemRepository
	now   func() time.Time
}

// NewInventoryService creates a new inventory service with dependencies
func NewInventoryService(items domain.ItemRepository) *InventoryService {
	return &InventoryService{items: items, now: time.Now}
}

// Create validates and persists a new item for the given user
func (s *InventoryService) Create(ctx context.Context, userID uuid.UUID, input CreateItemInput) (*domain.FoodItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.ExpiryDate.IsZero() {
		return nil, domain.ErrInvalidRequest
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := &domain.FoodItem{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Barcode:     input.Barcode,
		Category:    input.Category,
		Quantity:    quantity,
		ExpiryDate:  input.ExpiryDate,
		Destination: domain.DestinationKeep,
		CreatedAt:   s.now(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.classify(item)
	return item, nil
}

// Get returns one item, enforcing ownership
func (s *InventoryService) Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.FoodItem, error) {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	s.classify(item)
	return item, nil
}

// List returns all items for a user, each annotated with its expiry status
func (s *InventoryService) List(ctx context.Context, userID uuid.UUID) ([]domain.FoodItem, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.classify(&items[i])
	}
	return items, nil
}

// Update replaces the mutable fields of an owned item
func (s *InventoryService) Update(ctx context.Context, userID, itemID uuid.UUID, input CreateItemInput) (*domain.FoodItem, error) {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if !input.ExpiryDate.IsZero() {
		item.ExpiryDate = input.ExpiryDate
	}
	if input.Quantity > 0 {
		item.Quantity = input.Quantity
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	s.classify(item)
	return item, nil
}

// Delete removes an owned item
func (s *InventoryService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.items.Delete(ctx, item.ID)
}

// AlertsSummary partitions a user's items into the two actionable buckets
type AlertsSummary struct {
	Expired []domain.FoodItem `json:"expired"`
	UseSoon []domain.FoodItem `json:"useSoon"`
}

// Alerts returns the items that are expired or within the use-soon window.
// Classification uses the same shared status rule as listings and scan
// candidate annotation.
func (s *InventoryService) Alerts(ctx context.Context, userID uuid.UUID) (*AlertsSummary, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &AlertsSummary{
		Expired: []domain.FoodItem{},
		UseSoon: []domain.FoodItem{},
	}
	for _, item := range items {
		switch item.Status {
		case domain.StatusExpired:
			summary.Expired = append(summary.Expired, item)
		case domain.StatusUseSoon:
			summary.UseSoon = append(summary.UseSoon, item)
		}
	}
	return summary, nil
}

// owned fetches an item and verifies it belongs to userID
func (s *InventoryService) owned(ctx context.Context, userID, itemID uuid.UUID) (*domain.FoodItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (s *InventoryService) classify(item *domain.FoodItem) {
	today := s.now()
	item.Status = domain.StatusFor(item.ExpiryDate, today)
	item.DaysLeft = domain.DaysUntil(item.ExpiryDate, today)
}
