package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// merchantLowConfidenceThreshold is the cutoff below which the merchant
// match itself is flagged for review (spec.md §4.2).
const merchantLowConfidenceThreshold = 0.5

// Parse runs the full five-stage pipeline plus the validator/corrector pass
// over transcript and returns a fully reconciled Receipt. Parse never
// returns an error: every deviation from a clean parse is instead recorded
// as a Correction on the returned Receipt (spec.md §7).
//
// merchantTable may be nil, in which case DefaultMerchantTable is used.
// categorize may be nil, in which case DefaultCategorizer is used.
func Parse(transcript string, today time.Time, localeHint LocaleHint, merchantTable []MerchantRule, categorize Categorizer) Receipt {
	if merchantTable == nil {
		merchantTable = DefaultMerchantTable()
	}
	if categorize == nil {
		categorize = DefaultCategorizer
	}

	var corrections []Correction

	clean := denoise(transcript)

	merchantName, merchantConfidence := resolveMerchant(clean, merchantTable)
	if merchantConfidence < merchantLowConfidenceThreshold {
		corrections = append(corrections, Correction{
			Kind:    CorrMerchantLowConfidence,
			Before:  merchantConfidence,
			Context: merchantName,
		})
	}

	date := extractDate(clean, today, localeHint)

	items, itemCorrections := extractItems(clean)
	corrections = append(corrections, itemCorrections...)

	// Reconcile against the post-validation items: the Receipt ships
	// validated.LineTotal values (clamped/zeroed), so subtotal must be
	// derived from the same numbers or invariant 1 (sum(line_total) ≈
	// subtotal) can be violated whenever validation clamps an item.
	validated, validationCorrections := validateAndCorrect(items)
	corrections = append(corrections, validationCorrections...)

	itemsSum := sumLineTotals(validated)
	recon := reconcile(clean, itemsSum)
	corrections = append(corrections, recon.Corrections...)

	for i := range validated {
		validated[i].Category = categorize(validated[i].Name)
	}

	return Receipt{
		Merchant:           merchantName,
		MerchantConfidence: merchantConfidence,
		Date:               date,
		Items:              validated,
		Subtotal:           recon.Subtotal,
		DiscountTotal:      recon.DiscountTotal,
		TaxTotal:           recon.TaxTotal,
		ShippingTotal:      recon.ShippingTotal,
		TipTotal:           recon.TipTotal,
		GrandTotal:         recon.GrandTotal,
		PaymentMethod:      recon.PaymentMethod,
		Corrections:        corrections,
		OCRParsed:          true,
	}
}

func sumLineTotals(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}
