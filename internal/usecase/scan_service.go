package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/freshtrack/backend/internal/domain"
)

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	EnableDebugLogging bool
}

// ScanService turns a label photo into a scan outcome: the OCR engine
// collaborator produces raw text, the parsing core extracts and disambiguates
// expiry-date candidates, and the result tells the flow layer whether the
// date was auto-resolved, needs a user choice, or needs manual entry.
//
// Nothing is persisted here. A confirmed scan arrives as a separate request
// handled by the inventory service, so an abandoned scan simply discards all
// in-flight values.
type ScanService struct {
	engine             domain.OCREngine
	now                func() time.Time
	enableDebugLogging bool
}

// NewScanService creates a new scan service with dependencies
func NewScanService(engine domain.OCREngine, config ScanServiceConfig) *ScanService {
	return &ScanService{
		engine:             engine,
		now:                time.Now,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ScanImage recognizes text from a label photo and parses it. OCR engine
// failures surface as errors; an image with no recognizable dates is a normal
// NeedsManualEntry outcome, not an error.
func (s *ScanService) ScanImage(ctx context.Context, image []byte) (*domain.ScanResult, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	text, err := s.engine.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	return s.ParseText(text), nil
}

// ParseText runs the pure parsing core over one raw text blob. The blob may be
// the concatenation of OCR passes at several image rotations; all of it is
// scanned in one invocation.
func (s *ScanService) ParseText(rawText string) *domain.ScanResult {
	today := s.now()
	candidates := ExtractDateCandidates(rawText, today)
	name := ExtractProductName(rawText)

	if s.enableDebugLogging {
		log.Printf("[SCAN] parsed %d candidate(s), name=%q", len(candidates), name)
	}

	result := &domain.ScanResult{
		ProductName: name,
		RawText:     rawText,
	}

	switch len(candidates) {
	case 0:
		result.State = domain.ScanNeedsManualEntry
	case 1:
		// A single plausible date is accepted without confirmation.
		result.State = domain.ScanAutoResolved
		date := candidates[0].Date
		result.ExpiryDate = &date
		result.Candidates = annotate(candidates, today)
	default:
		// Never auto-guess between multiple dates; hand the ordered set to
		// the caller so the user decides.
		result.State = domain.ScanAwaitingUserChoice
		result.Candidates = annotate(candidates, today)
	}
	return result
}

// annotate stamps each candidate with its derived status so a choice UI can
// show expired/use-soon/safe next to every date.
func annotate(candidates []domain.DateCandidate, today time.Time) []domain.DateCandidate {
	for i := range candidates {
		candidates[i].Status = domain.StatusFor(candidates[i].Date, today)
	}
	return candidates
}
