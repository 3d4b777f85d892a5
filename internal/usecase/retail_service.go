package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshtrack/backend/internal/domain"
)

// Discount bounds: retailers can mark down between 1 and 90 percent
const (
	minDiscountPercent = 1
	maxDiscountPercent = 90
)

// compostKeywords marks products too perishable to donate once expired
var compostKeywords = []string{
	"milk", "yogurt", "yoghurt", "cream", "meat", "chicken", "beef", "pork",
	"fish", "salmon", "prawn", "shrimp", "egg", "salad", "sprout",
}

// RetailService handles retailer-side operations: percentage discounts on
// near-expiry stock and advisory routing of items to donation or compost.
type RetailService struct {
	items      domain.ItemRepository
	discounts  domain.DiscountRepository
	classifier domain.FreshnessClassifier
	now        func() time.Time
}

// NewRetailService creates a new retail service with dependencies.
// classifier may be nil; routing then always uses the deterministic fallback.
func NewRetailService(items domain.ItemRepository, discounts domain.DiscountRepository, classifier domain.FreshnessClassifier) *RetailService {
	return &RetailService{
		items:      items,
		discounts:  discounts,
		classifier: classifier,
		now:        time.Now,
	}
}

// CreateDiscount records an active discount on one of the retailer's items
func (s *RetailService) CreateDiscount(ctx context.Context, retailerID, itemID uuid.UUID, percent int) (*domain.Discount, error) {
	if percent < minDiscountPercent || percent > maxDiscountPercent {
		return nil, domain.ErrInvalidRequest
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != retailerID {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	discount := &domain.Discount{
		ID:         uuid.New(),
		RetailerID: retailerID,
		ItemID:     itemID,
		Percent:    percent,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.discounts.Create(ctx, discount); err != nil {
		return nil, err
	}

	item.Destination = domain.DestinationDiscount
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return discount, nil
}

// ToggleDiscount flips a discount between active and inactive
func (s *RetailService) ToggleDiscount(ctx context.Context, retailerID, discountID uuid.UUID) (*domain.Discount, error) {
	discount, err := s.discounts.GetByID(ctx, discountID)
	if err != nil {
		return nil, err
	}
	if discount.RetailerID != retailerID {
		return nil, domain.ErrForbidden
	}
	if err := s.discounts.SetActive(ctx, discount.ID, !discount.Active); err != nil {
		return nil, err
	}
	discount.Active = !discount.Active
	discount.UpdatedAt = s.now()
	return discount, nil
}

// ListDiscounts returns all discounts created by the retailer
func (s *RetailService) ListDiscounts(ctx context.Context, retailerID uuid.UUID) ([]domain.Discount, error) {
	return s.discounts.ListByRetailer(ctx, retailerID)
}

// RouteItem suggests a destination for one of the retailer's items. The AI
// classifier is advisory; when it is unconfigured or fails, a deterministic
// status-based fallback answers instead so routing always works offline.
func (s *RetailService) RouteItem(ctx context.Context, retailerID, itemID uuid.UUID) (*domain.RoutingDecision, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != retailerID {
		return nil, domain.ErrForbidden
	}

	daysLeft := domain.DaysUntil(item.ExpiryDate, s.now())
	if s.classifier != nil {
		decision, err := s.classifier.RouteItem(ctx, item.Name, daysLeft)
		if err == nil && decision != nil {
			return decision, nil
		}
		log.Printf("[RETAIL] classifier unavailable, using fallback: %v", err)
	}
	return fallbackRouting(item.Name, daysLeft), nil
}

// ConfirmRouting persists a destination after the retailer accepts a suggestion
func (s *RetailService) ConfirmRouting(ctx context.Context, retailerID, itemID uuid.UUID, destination domain.ItemDestination) (*domain.FoodItem, error) {
	switch destination {
	case domain.DestinationKeep, domain.DestinationDiscount, domain.DestinationDonate, domain.DestinationCompost:
	default:
		return nil, domain.ErrInvalidRequest
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != retailerID {
		return nil, domain.ErrForbidden
	}
	item.Destination = destination
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// fallbackRouting is the deterministic routing policy: expired perishables go
// to compost, other expired stock to donation partners that accept it, and
// still-edible near-expiry stock is discounted for quick sale.
func fallbackRouting(productName string, daysLeft int) *domain.RoutingDecision {
	if daysLeft < 0 {
		name := strings.ToLower(productName)
		for _, kw := range compostKeywords {
			if strings.Contains(name, kw) {
				return &domain.RoutingDecision{
					Destination: domain.DestinationCompost,
					Reason:      "expired perishable, unsafe to donate",
					Source:      "fallback",
				}
			}
		}
		return &domain.RoutingDecision{
			Destination: domain.DestinationDonate,
			Reason:      "expired but shelf-stable, donation partner may accept",
			Source:      "fallback",
		}
	}
	if daysLeft <= domain.UseSoonWindowDays {
		return &domain.RoutingDecision{
			Destination: domain.DestinationDonate,
			Reason:      "near expiry, still safe for same-day donation",
			Source:      "fallback",
		}
	}
	return &domain.RoutingDecision{
		Destination: domain.DestinationDiscount,
		Reason:      "enough shelf life left to sell at a markdown",
		Source:      "fallback",
	}
}
