package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus classifies how close a food item is to its expiry date
type ItemStatus string

const (
	StatusExpired ItemStatus = "expired"
	StatusUseSoon ItemStatus = "use-soon"
	StatusSafe    ItemStatus = "safe"
)

// UseSoonWindowDays is the forward window in which an item counts as "use-soon".
// Shared by candidate annotation, inventory listings, and alerts so every part of
// the application classifies dates the same way.
const UseSoonWindowDays = 3

// ItemDestination records where a near-expiry item is routed
type ItemDestination string

const (
	DestinationKeep     ItemDestination = "keep"
	DestinationDiscount ItemDestination = "discount"
	DestinationDonate   ItemDestination = "donate"
	DestinationCompost  ItemDestination = "compost"
)

// FoodItem represents a tracked food product with an expiry date
type FoodItem struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode,omitempty"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiryDate"`
	Destination ItemDestination `json:"destination"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Derived fields, populated at read time and never persisted
	Status   ItemStatus `json:"status,omitempty"`
	DaysLeft int        `json:"daysLeft"`
}

// DaysUntil returns the number of whole calendar days from today until date.
// Both instants are truncated to their calendar day before subtracting, so the
// result is negative for past dates regardless of time-of-day.
func DaysUntil(date, today time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// StatusFor applies the shared expiry classification rule:
// daysLeft < 0 is expired, 0..UseSoonWindowDays is use-soon, beyond that is safe.
func StatusFor(date, today time.Time) ItemStatus {
	daysLeft := DaysUntil(date, today)
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft <= UseSoonWindowDays:
		return StatusUseSoon
	default:
		return StatusSafe
	}
}
