package usecase

import (
	"regexp"
	"strings"
)

// PlaceholderProductName is returned when no label line survives the name
// heuristics; the user can rename it before saving.
const PlaceholderProductName = "Scanned Product"

// Name heuristic bounds: a plausible product name line is 4-49 characters and
// not purely numeric.
const (
	minNameLength = 4
	maxNameLength = 49
)

// noiseTokenPattern strips label vocabulary that never belongs in a product
// name (batch codes, barcode captions, label sections).
var noiseTokenPattern = regexp.MustCompile(`(?i)\b(?:barcode|batch|lot|net\s*weight|ingredients)\b`)

// numericOnlyPattern matches lines that are just digits and separators, e.g.
// what is left of "BATCH 22" after the noise token is stripped.
var numericOnlyPattern = regexp.MustCompile(`^[\d\s.,/\-:]+$`)

// ExtractProductName derives a best-effort product name from raw OCR text by
// stripping all date-shaped substrings and noise tokens, then picking the
// first remaining line that looks like a name. Falls back to
// PlaceholderProductName when nothing qualifies.
func ExtractProductName(rawText string) string {
	cleaned := rawText
	for _, p := range datePatterns {
		cleaned = p.re.ReplaceAllString(cleaned, "")
	}
	cleaned = noiseTokenPattern.ReplaceAllString(cleaned, "")

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minNameLength || len(line) > maxNameLength {
			continue
		}
		if numericOnlyPattern.MatchString(line) {
			continue
		}
		return line
	}
	return PlaceholderProductName
}
