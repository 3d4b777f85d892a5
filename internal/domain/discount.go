package domain

import (
	"time"

	"github.com/google/uuid"
)

// Discount is a retailer-applied percentage discount on a near-expiry item
type Discount struct {
	ID         uuid.UUID `json:"id"`
	RetailerID uuid.UUID `json:"retailerId"`
	ItemID     uuid.UUID `json:"itemId"`
	Percent    int       `json:"percent"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RoutingDecision is an advisory suggestion for where to send a near-expiry
// item. The retailer confirms before any destination is persisted.
type RoutingDecision struct {
	Destination ItemDestination `json:"destination"`
	Reason      string          `json:"reason"`
	Source      string          `json:"source"` // "ai" or "fallback"
}
