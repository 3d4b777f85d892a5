package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/freshtrack/backend/internal/domain"
)

// Parsing policy tunables. Kept as named constants so the policy is auditable
// and testable in isolation.
const (
	yearLowerBound    = 2000 // exclusive: resolved year must be > 2000
	yearUpperBound    = 2100 // exclusive: resolved year must be < 2100
	recencyWindowDays = 30   // tolerate items already mildly past expiry
	shelfLifeYears    = 1    // assumed shelf life applied to manufacture dates
	centuryPivot      = 50   // 2-digit years <= 50 map to the current century
)

// Package-level compiled date patterns. Go's regexp matchers are stateless, so
// sharing compiled patterns across invocations is safe.
//
// Every pattern is applied globally (all non-overlapping matches) over the full
// text blob, which may be the concatenation of OCR passes at several image
// rotations. No pattern short-circuits another; the order here only determines
// the PatternKind tag on the resulting candidate.
var (
	// "EXP 01/02/24", "Best Before: 15-08-2025", "use by 1.2.24"
	expiryLabeledPattern = regexp.MustCompile(`(?i)\b(?:exp(?:iry|ires)?|best\s*before|use\s*by)\b[:.\s]*(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	// "MFG: 01/01/2024", "manufactured 1-1-24"
	manufactureLabeledPattern = regexp.MustCompile(`(?i)\b(?:mfg|mfd|manufactured|production\s*date)\b[:.\s]*(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	// "2025-08-15" (year first)
	isoFirstPattern = regexp.MustCompile(`\b(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})\b`)
	// "15/08/2025" (unlabeled, 4-digit year)
	genericFourDigitYearPattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`)
	// "15/08/25" (unlabeled, 2-digit year)
	genericTwoDigitYearPattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2})\b`)
)

// datePattern pairs a compiled pattern with how its capture groups are read
type datePattern struct {
	re          *regexp.Regexp
	kind        domain.PatternKind
	yearFirst   bool // capture groups are (year, month, day) instead of (day, month, year)
	manufacture bool // the matched date is a production date, not an expiry date
}

var datePatterns = []datePattern{
	{re: expiryLabeledPattern, kind: domain.PatternExpiryLabeled},
	{re: manufactureLabeledPattern, kind: domain.PatternManufactureLabeled, manufacture: true},
	{re: isoFirstPattern, kind: domain.PatternISOFirst, yearFirst: true},
	{re: genericFourDigitYearPattern, kind: domain.PatternGenericNumeric},
	{re: genericTwoDigitYearPattern, kind: domain.PatternGenericNumeric},
}

// ExtractDateCandidates scans raw OCR text for date-like substrings and returns
// the deduplicated, date-ascending set of plausible expiry dates. The today
// parameter supplies the caller's clock for recency filtering; it is truncated
// to calendar-day granularity internally.
//
// Known accuracy limitation: a genuinely ambiguous numeric triple (day <= 12)
// is assumed day-first. There is no locale signal on a label to do better, so
// validity (month > 12 forces a swap) is the only disambiguator.
func ExtractDateCandidates(rawText string, today time.Time) []domain.DateCandidate {
	var candidates []domain.DateCandidate
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(rawText, -1) {
			if c, ok := normalizeMatch(m, p, today); ok {
				candidates = append(candidates, c)
			}
		}
	}
	return dedupeAndSort(candidates)
}

// normalizeMatch converts one raw regex match into zero or one candidate.
// Malformed or implausible matches are silently discarded: OCR text is noisy
// and a dropped misread is the expected outcome, not an error.
func normalizeMatch(m []string, p datePattern, today time.Time) (domain.DateCandidate, bool) {
	var dayStr, monthStr, yearStr string
	if p.yearFirst {
		yearStr, monthStr, dayStr = m[1], m[2], m[3]
	} else {
		dayStr, monthStr, yearStr = m[1], m[2], m[3]
	}

	year := normalizeYear(yearStr, today)
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)

	date, ok := resolveDayMonth(year, month, day)
	if !ok {
		return domain.DateCandidate{}, false
	}

	if p.manufacture {
		// Fixed shelf-life assumption: a production date implies expiry one
		// year later when no explicit expiry date is printed. Calendar-year
		// arithmetic keeps the day-of-month stable across leap years
		// (2024-01-01 maps to 2025-01-01).
		date = date.AddDate(shelfLifeYears, 0, 0)
	}

	if date.Year() <= yearLowerBound || date.Year() >= yearUpperBound {
		return domain.DateCandidate{}, false
	}
	cutoff := truncateToDay(today).AddDate(0, 0, -recencyWindowDays)
	if date.Before(cutoff) {
		return domain.DateCandidate{}, false
	}

	return domain.DateCandidate{
		RawMatch: m[0],
		Date:     date,
		Kind:     p.kind,
	}, true
}

// normalizeYear expands 2-digit years against the current century: values up
// to the pivot map to the current century, the rest to the previous one
// ("05" -> 2005 and "75" -> 1975 when today is in the 2000s).
func normalizeYear(yearStr string, today time.Time) int {
	y, _ := strconv.Atoi(yearStr)
	if len(yearStr) > 2 {
		return y
	}
	century := today.Year() - today.Year()%100
	if y <= centuryPivot {
		return century + y
	}
	return century - 100 + y
}

// resolveDayMonth builds a calendar date from the numeric triple, trying
// (year, month, day) first and falling back to the swapped ordering when the
// first is not a real date (e.g. month 13). Returns false when neither
// ordering is valid.
func resolveDayMonth(year, month, day int) (time.Time, bool) {
	if d, ok := makeDate(year, month, day); ok {
		return d, true
	}
	return makeDate(year, day, month)
}

// makeDate constructs a date and verifies it round-trips, rejecting values
// that time.Date would silently normalize (Feb 30, month 0, day 40).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// dedupeAndSort collapses candidates that resolve to the same calendar date
// (keeping the first representative seen) and orders the survivors ascending.
// Content of the result does not depend on input order, only the surviving
// RawMatch/Kind tags do, and duplicates are calendar-equal by definition.
func dedupeAndSort(candidates []domain.DateCandidate) []domain.DateCandidate {
	seen := make(map[int]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := c.Date.Year()*10000 + int(c.Date.Month())*100 + c.Date.Day()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
