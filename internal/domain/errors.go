package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when a record belongs to a different user
	ErrForbidden = errors.New("access to record denied")

	// ErrEmailTaken is returned when registering with an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrProductNotFound is returned when a barcode or query has no match in Open Food Facts
	ErrProductNotFound = errors.New("product not found in Open Food Facts")

	// ErrOFFAPIFailure is returned when an Open Food Facts request fails
	ErrOFFAPIFailure = errors.New("Open Food Facts API request failed")

	// ErrOCRFailure is returned when every recognition pass over an image fails
	ErrOCRFailure = errors.New("text recognition failed")

	// ErrClassifierUnavailable is returned when the AI classifier cannot be reached
	ErrClassifierUnavailable = errors.New("freshness classifier unavailable")
)
