package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateScanLines = 30

var (
	isoDateRe       = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDateRe     = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	dashDateRe      = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)
	dotDateRe       = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	monthNameDateRe = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
)

var monthNumberByAbbrev = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// extractDate searches the first dateScanLines lines for a date-shaped
// token in any of the formats spec.md §4.3 names, canonicalizing to
// YYYY-MM-DD. When nothing is found, today is returned as-is (a fallback,
// not a correction, per spec.md §4.3).
func extractDate(transcript string, today time.Time, localeHint LocaleHint) string {
	header := firstLines(transcript, dateScanLines)

	if m := isoDateRe.FindStringSubmatch(header); m != nil {
		if d, ok := buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d
		}
	}

	if m := monthNameDateRe.FindStringSubmatch(header); m != nil {
		month := monthNumberByAbbrev[strings.ToLower(m[1][:3])]
		day := atoi(m[2])
		year := atoi(m[3])
		if d, ok := buildDate(year, month, day); ok {
			return d
		}
	}

	if m := dotDateRe.FindStringSubmatch(header); m != nil {
		// DD.MM.YYYY is the only dotted form spec.md names.
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if d, ok := buildDate(year, month, day); ok {
			return d
		}
	}

	if m := dashDateRe.FindStringSubmatch(header); m != nil {
		// MM-DD-YYYY per spec.md's named form.
		month, day, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if d, ok := buildDate(year, month, day); ok {
			return d
		}
	}

	if m := slashDateRe.FindStringSubmatch(header); m != nil {
		if d, ok := resolveSlashDate(m, localeHint); ok {
			return d
		}
	}

	return today.Format("2006-01-02")
}

// resolveSlashDate disambiguates MM/DD/YYYY vs DD/MM/YYYY per spec.md §4.3:
// prefer the locale hint; absent a hint, prefer MM/DD and fall back to
// DD/MM only if MM/DD would be impossible.
func resolveSlashDate(m []string, localeHint LocaleHint) (string, bool) {
	a, b, year := atoi(m[1]), atoi(m[2]), normalizeYear(atoi(m[3]))

	tryMDY := func() (string, bool) { return buildDate(year, a, b) }
	tryDMY := func() (string, bool) { return buildDate(year, b, a) }

	switch localeHint {
	case LocaleIntl:
		if d, ok := tryDMY(); ok {
			return d, true
		}
		return tryMDY()
	case LocaleUS:
		if d, ok := tryMDY(); ok {
			return d, true
		}
		return tryDMY()
	default:
		if d, ok := tryMDY(); ok {
			return d, true
		}
		return tryDMY()
	}
}

func normalizeYear(y int) int {
	if y < 100 {
		if y < 70 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}

// buildDate validates the components form a real calendar date (rejecting
// e.g. month=13 or day=32) and returns the canonical YYYY-MM-DD string.
func buildDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 || year > 9999 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
