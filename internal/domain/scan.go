package domain

import "time"

// PatternKind identifies which date pattern produced a candidate
type PatternKind string

const (
	PatternExpiryLabeled      PatternKind = "expiry-labeled"
	PatternManufactureLabeled PatternKind = "manufacture-labeled"
	PatternISOFirst           PatternKind = "isoFirst"
	PatternGenericNumeric     PatternKind = "genericNumeric"
)

// DateCandidate is a date parsed from label text, not yet confirmed as the
// product's true expiry date. Date is always a valid calendar date; for
// manufacture-labeled matches the shelf-life offset has already been applied.
type DateCandidate struct {
	RawMatch string      `json:"rawMatch"`
	Date     time.Time   `json:"date"`
	Kind     PatternKind `json:"kind"`
	Status   ItemStatus  `json:"status"`
}

// ScanState is the terminal outcome of one label-scan attempt
type ScanState string

const (
	// ScanAutoResolved means exactly one plausible date was found and is
	// accepted without user confirmation.
	ScanAutoResolved ScanState = "auto-resolved"
	// ScanAwaitingUserChoice means multiple plausible dates were found and the
	// user must pick one (or reject them all and enter a date manually).
	ScanAwaitingUserChoice ScanState = "awaiting-user-choice"
	// ScanNeedsManualEntry means no plausible date survived parsing; manual
	// entry is a normal path, not a failure.
	ScanNeedsManualEntry ScanState = "needs-manual-entry"
)

// ScanResult is what one parsing invocation hands back to the flow layer.
// Candidates is sorted ascending by date and deduplicated by calendar date.
type ScanResult struct {
	State       ScanState       `json:"state"`
	ProductName string          `json:"productName"`
	ExpiryDate  *time.Time      `json:"expiryDate,omitempty"`
	Candidates  []DateCandidate `json:"candidates,omitempty"`
	RawText     string          `json:"-"`
}
