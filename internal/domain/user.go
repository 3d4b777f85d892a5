package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles supported by the application. Consumers track their own pantry;
// retailers additionally manage discounts and donation routing.
const (
	RoleConsumer = "consumer"
	RoleRetailer = "retailer"
)

// User is a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidRole reports whether role is one of the supported account roles
func ValidRole(role string) bool {
	return role == RoleConsumer || role == RoleRetailer
}
