package receipt

import "github.com/shopspring/decimal"

var (
	maxQuantity         = 100
	quantityHardCeiling = 1000
	maxUnitPrice        = decimal.NewFromInt(500)
	priceSuspiciousAt   = decimal.NewFromInt(5000)
	minUnitPrice        = decimal.NewFromFloat(0.01)
)

// validateAndCorrect implements spec.md §4.6: clamps each item's quantity and
// unit_price into range, recomputes line_total from the clamped values, and
// rechecks every §3 invariant, recording a Correction wherever one had to be
// enforced.
func validateAndCorrect(items []LineItem) ([]LineItem, []Correction) {
	var corrections []Correction
	out := make([]LineItem, len(items))

	for i, item := range items {
		ctx := lineContext(i)

		if item.Quantity <= 0 {
			corrections = append(corrections, Correction{
				Kind:    CorrQuantityNonNumeric,
				Before:  item.Quantity,
				After:   1,
				Context: ctx,
			})
			item.Quantity = 1
		} else if item.Quantity > quantityHardCeiling {
			corrections = append(corrections, Correction{
				Kind:    CorrQuantityCapped,
				Before:  item.Quantity,
				After:   maxQuantity,
				Context: ctx,
			})
			item.Quantity = maxQuantity
		}

		if item.UnitPrice.IsNegative() {
			corrections = append(corrections, Correction{
				Kind:    CorrNegativePriceZeroed,
				Before:  item.UnitPrice.String(),
				After:   "0.00",
				Context: ctx,
			})
			item.UnitPrice = decimal.Zero
		} else if item.UnitPrice.LessThan(minUnitPrice) {
			item.UnitPrice = decimal.Zero
		} else if item.UnitPrice.GreaterThan(priceSuspiciousAt) {
			corrections = append(corrections, Correction{
				Kind:    CorrPriceSuspicious,
				Before:  item.UnitPrice.String(),
				Context: ctx,
			})
		}

		// §4.6: recompute line_total from quantity × unit_price after
		// clamping, except where the explicit line_total was already
		// preferred in 4.4 pattern A — that total is read directly off
		// the transcript (trusted over a mismatched implied total) and
		// must survive validation untouched.
		if !item.explicitTotal {
			item.LineTotal = cents(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// Invariant recheck (spec.md §3.3): quantity ≤ 100, unit_price ≤
		// 500 must hold on output regardless of which threshold above
		// fired. A quantity between 100 and the hard ceiling, or a price
		// above 500 that wasn't already flagged suspicious, is enforced
		// here.
		if item.Quantity > maxQuantity {
			corrections = append(corrections, Correction{
				Kind:    CorrQuantityCapped,
				Before:  item.Quantity,
				After:   maxQuantity,
				Context: ctx,
			})
			item.Quantity = maxQuantity
			if !item.explicitTotal {
				item.LineTotal = cents(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}
		if item.UnitPrice.GreaterThan(maxUnitPrice) {
			if !item.UnitPrice.GreaterThan(priceSuspiciousAt) {
				corrections = append(corrections, Correction{
					Kind:    CorrPriceSuspicious,
					Before:  item.UnitPrice.String(),
					Context: ctx,
				})
			}
			item.UnitPrice = maxUnitPrice
			if !item.explicitTotal {
				item.LineTotal = cents(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}

		out[i] = item
	}

	return out, corrections
}
