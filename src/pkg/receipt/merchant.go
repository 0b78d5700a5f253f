package receipt

import "strings"

// merchantScanLines is how many leading transcript lines the merchant
// resolver is allowed to look at, per spec.md §4.2 ("restricted to the
// first ~20 lines ... to avoid matching body text").
const merchantScanLines = 20

// resolveMerchant scans the first merchantScanLines lines of the transcript
// against table and returns the highest-weight match, or ("Unknown Store",
// 0.0) if nothing matches. Ties are broken by first occurrence in the
// transcript.
func resolveMerchant(transcript string, table []MerchantRule) (name string, confidence float64) {
	header := firstLines(transcript, merchantScanLines)
	lowerHeader := strings.ToLower(header)

	bestWeight := -1.0
	bestOffset := -1
	bestName := ""

	for _, rule := range table {
		pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))
		if pattern == "" {
			continue
		}
		offset := strings.Index(lowerHeader, pattern)
		if offset == -1 {
			continue
		}
		if rule.Weight > bestWeight || (rule.Weight == bestWeight && offset < bestOffset) {
			bestWeight = rule.Weight
			bestOffset = offset
			bestName = rule.Canonical
		}
	}

	if bestName == "" {
		return "Unknown Store", 0.0
	}
	return bestName, bestWeight
}

// firstLines returns the first n lines of s, joined by newlines.
func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
