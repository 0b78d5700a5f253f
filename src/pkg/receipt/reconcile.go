package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var tolerance = decimal.NewFromFloat(0.02)

var (
	subtotalLabels = []string{"subtotal", "sub-total", "sub total"}
	taxLabels      = []string{"tax", "gst", "pst", "hst", "qst", "vat"}
	shippingLabels = []string{"shipping", "delivery", "handling", "service fee"}
	discountLabels = []string{"discount", "coupon", "savings", "loyalty", "member"}
	totalLabels    = []string{"total to pay", "grand total", "amount due", "balance due", "total"}
	tipLabels      = []string{"tip"}
)

var paymentKeywords = []struct {
	keyword string
	method  PaymentMethod
}{
	{"credit", PaymentCredit},
	{"debit", PaymentDebit},
	{"cash", PaymentCash},
}

// labeledAmount is a label match found on some transcript line.
type labeledAmount struct {
	amount   decimal.Decimal
	negative bool
	line     int
}

// reconcileResult carries the financial fields plus corrections produced by
// the financial reconciler (spec.md §4.5).
type reconcileResult struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	TipTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentMethod PaymentMethod
	Corrections   []Correction
}

// reconcile implements spec.md §4.5: scans the full transcript for labeled
// financial amounts and closes the subtotal/discount/tax/shipping/total
// identity, recording a Correction for every value that had to be filled in
// or adjusted.
func reconcile(transcript string, itemsSum decimal.Decimal) reconcileResult {
	lines := strings.Split(transcript, "\n")

	subtotal := findLabeledAmount(lines, subtotalLabels, false, false)
	tax := findLabeledAmount(lines, taxLabels, false, false)
	shipping := findLabeledAmount(lines, shippingLabels, false, false)
	discount := findLabeledAmount(lines, discountLabels, false, false)
	// "total" is a substring of "subtotal", so the grand-total scan must
	// not let a subtotal line masquerade as the grand total.
	grand := findLabeledAmount(lines, totalLabels, true, true)
	tip := findLabeledAmount(lines, tipLabels, false, false)

	discountAmount := decimal.Zero
	var corrections []Correction
	if discount != nil {
		discountAmount = discount.amount.Abs()
		if discount.negative {
			corrections = append(corrections, Correction{
				Kind:    CorrDiscountSignFixed,
				Before:  discount.amount.String(),
				After:   discountAmount.String(),
				Context: lineContext(discount.line),
			})
		}
	}

	taxWasLabeled := tax != nil

	var subtotalVal, taxVal, shippingVal, grandVal *decimal.Decimal
	if subtotal != nil {
		v := subtotal.amount
		subtotalVal = &v
	}
	if tax != nil {
		v := tax.amount
		taxVal = &v
	}
	if shipping != nil {
		v := shipping.amount
		shippingVal = &v
	}
	if grand != nil {
		v := grand.amount
		grandVal = &v
	}

	finalized := false
	if subtotalVal != nil && taxVal != nil && shippingVal != nil && grandVal != nil {
		implied := subtotalVal.Sub(discountAmount).Add(*taxVal).Add(*shippingVal)
		if grandVal.Sub(implied).Abs().LessThanOrEqual(tolerance) {
			finalized = true
		}
	}

	if !finalized {
		// Step 2: derive subtotal from the items sum when not labeled.
		if subtotalVal == nil && itemsSum.GreaterThan(decimal.Zero) {
			v := itemsSum
			subtotalVal = &v
			corrections = append(corrections, Correction{
				Kind:    CorrSubtotalRecomputed,
				Before:  nil,
				After:   v.String(),
				Context: "subtotal",
			})
		}

		// Step 3: grand total and subtotal both known but disagree — trust
		// the customer-facing grand total and close the gap on tax, even
		// when tax was an explicit labeled value; subtotal is never adjusted.
		if grandVal != nil && subtotalVal != nil {
			zero := decimal.Zero
			taxForCheck := zero
			if taxVal != nil {
				taxForCheck = *taxVal
			}
			shipForCheck := zero
			if shippingVal != nil {
				shipForCheck = *shippingVal
			}
			implied := subtotalVal.Sub(discountAmount).Add(taxForCheck).Add(shipForCheck)
			if grandVal.Sub(implied).Abs().GreaterThan(tolerance) {
				// The grand total is the customer-facing number, so it is
				// trusted and the gap is closed on tax. spec.md §4.5 step 3
				// says to adjust subtotal instead when tax was explicitly
				// labeled, but that reading conflicts with the worked
				// example in spec.md §8 (item 4), which keeps the
				// items-derived subtotal and closes on tax even though tax
				// was labeled. When closing on tax would require a
				// negative tax (the labeled values are simply
				// inconsistent), the conflict is surfaced instead of
				// forcing a nonsensical value, per the Open Question note
				// in spec.md §9 ("surface the conflict without
				// auto-correcting" is an acceptable alternative to
				// auto-fixing).
				newTax := grandVal.Sub(*subtotalVal).Add(discountAmount).Sub(shipForCheck)
				before := taxForCheck.String()
				context := "trust_grand_total"
				if taxWasLabeled {
					context = "trust_grand_total_over_labeled_tax"
				}
				if newTax.IsNegative() {
					corrections = append(corrections, Correction{
						Kind:    CorrTaxSuspicious,
						Before:  before,
						After:   newTax.String(),
						Context: "grand_subtotal_conflict",
					})
				} else {
					taxVal = &newTax
					corrections = append(corrections, Correction{
						Kind:    CorrTaxEstimated,
						Before:  before,
						After:   newTax.String(),
						Context: context,
					})
				}
			}
		}

		// Step 4: grand total missing entirely.
		if grandVal == nil {
			zero := decimal.Zero
			sub := zero
			if subtotalVal != nil {
				sub = *subtotalVal
			}
			t := zero
			if taxVal != nil {
				t = *taxVal
			}
			s := zero
			if shippingVal != nil {
				s = *shippingVal
			}
			newGrand := sub.Sub(discountAmount).Add(t).Add(s)
			grandVal = &newGrand
			corrections = append(corrections, Correction{
				Kind:    CorrTotalRecomputed,
				Before:  nil,
				After:   newGrand.String(),
				Context: "grand_total",
			})
		}

		// Step 5: tax missing, but grand and subtotal are both known.
		if taxVal == nil && grandVal != nil && subtotalVal != nil {
			zero := decimal.Zero
			s := zero
			if shippingVal != nil {
				s = *shippingVal
			}
			newTax := grandVal.Sub(*subtotalVal).Add(discountAmount).Sub(s)
			if newTax.LessThan(decimal.Zero) {
				newTax = decimal.Zero
			}
			taxVal = &newTax
		}

		// Step 6: tax still missing and only subtotal is known — estimate a
		// default 10% rate.
		if taxVal == nil && subtotalVal != nil && grandVal == nil {
			newTax := cents(subtotalVal.Sub(discountAmount).Mul(decimal.NewFromFloat(0.10)))
			taxVal = &newTax
			corrections = append(corrections, Correction{
				Kind:    CorrTaxEstimated,
				Before:  nil,
				After:   newTax.String(),
				Context: "default_rate",
			})
		}
	}

	result := reconcileResult{
		Subtotal:      valueOrZero(subtotalVal),
		DiscountTotal: discountAmount,
		TaxTotal:      valueOrZero(taxVal),
		ShippingTotal: valueOrZero(shippingVal),
		GrandTotal:    valueOrZero(grandVal),
		PaymentMethod: detectPaymentMethod(lines),
		Corrections:   corrections,
	}
	if tip != nil {
		result.TipTotal = tip.amount.Abs()
	}

	// Sanity clamp: flag (but do not auto-correct) an implausibly high
	// implicit tax rate.
	denom := result.Subtotal.Sub(result.DiscountTotal)
	if denom.LessThan(epsilon) {
		denom = epsilon
	}
	ratio := result.TaxTotal.Div(denom)
	if ratio.GreaterThan(decimal.NewFromFloat(0.20)) {
		result.Corrections = append(result.Corrections, Correction{
			Kind:    CorrTaxSuspicious,
			Before:  result.TaxTotal.String(),
			Context: "implicit_tax_ratio",
		})
	}

	result.Subtotal = cents(result.Subtotal)
	result.DiscountTotal = cents(result.DiscountTotal)
	result.TaxTotal = cents(result.TaxTotal)
	result.ShippingTotal = cents(result.ShippingTotal)
	result.TipTotal = cents(result.TipTotal)
	result.GrandTotal = cents(result.GrandTotal)

	return result
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

// negativePrefixRe detects a leading minus sign or opening paren right
// before a price token, used to preserve discount sign per spec.md §4.5.
var negativePrefixRe = regexp.MustCompile(`[-(]\s*$`)

// findLabeledAmount scans lines for the first (or, if preferLast, the last)
// line containing one of labels together with a parseable price token. A
// line already claimed by one of the more specific subtotalLabels is never
// treated as a grand-total match, even though "total" is a substring of
// "subtotal" — otherwise the grand-total scan would shadow its own source
// line whenever subtotal happens to come after it in the transcript.
func findLabeledAmount(lines []string, labels []string, preferLast, skipSubtotalLines bool) *labeledAmount {
	var found *labeledAmount
	for i, line := range lines {
		lower := strings.ToLower(line)
		if skipSubtotalLines && isSubtotalLine(lower) {
			continue
		}
		matchedLabel := false
		for _, label := range labels {
			if strings.Contains(lower, label) {
				matchedLabel = true
				break
			}
		}
		if !matchedLabel {
			continue
		}
		loc := priceRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		amount := parsePrice(line[loc[0]:loc[1]])
		negative := negativePrefixRe.MatchString(line[:loc[0]])
		match := &labeledAmount{amount: amount, negative: negative, line: i}
		if !preferLast {
			return match
		}
		found = match
	}
	return found
}

// isSubtotalLine reports whether an already-lowercased line matches one of
// the subtotal labels.
func isSubtotalLine(lower string) bool {
	for _, label := range subtotalLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

func detectPaymentMethod(lines []string) PaymentMethod {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range paymentKeywords {
			if strings.Contains(lower, kw.keyword) {
				return kw.method
			}
		}
	}
	return PaymentUnknown
}
