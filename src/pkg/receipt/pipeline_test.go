package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixedToday() time.Time {
	return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
}

func hasCorrection(r Receipt, kind CorrectionKind) bool {
	for _, c := range r.Corrections {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestParse_WeightPricedGroceryWithLoyaltyDiscount(t *testing.T) {
	transcript := `WALMART SUPERCENTER
123 Main St
0.778kg NET @ $5.99/kg
BANANA CAVENDISH $1.32
Milk 2% 1 Gallon 3.49
Bread Whole Wheat 2.99
Eggs Large Dozen 3.79
Cheddar Cheese Block 4.29
Greek Yogurt 4pk 3.99
Chicken Breast 7.99
Ground Beef 8.49
Frozen Pizza 5.49
Orange Juice 3.99
Paper Towels 4.87
Apple Juice 2pk 4.49
Subtotal $39.20
Loyalty -$15.00`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if len(r.Items) != 12 {
		t.Fatalf("expected 12 items, got %d: %+v", len(r.Items), r.Items)
	}

	var banana *LineItem
	for i := range r.Items {
		if strings.Contains(r.Items[i].Name, "BANANA") {
			banana = &r.Items[i]
		}
	}
	if banana == nil {
		t.Fatal("expected a BANANA line item")
	}
	if !banana.LineTotal.Equal(mustDecimal(t, "1.32")) {
		t.Errorf("banana line_total: got %s, want 1.32", banana.LineTotal)
	}

	if !r.Subtotal.Equal(mustDecimal(t, "39.20")) {
		t.Errorf("subtotal: got %s, want 39.20", r.Subtotal)
	}
	if !r.DiscountTotal.Equal(mustDecimal(t, "15.00")) {
		t.Errorf("discount_total: got %s, want 15.00", r.DiscountTotal)
	}
	if !r.TaxTotal.Equal(decimal.Zero) {
		t.Errorf("tax_total: got %s, want 0.00", r.TaxTotal)
	}
	if !r.GrandTotal.Equal(mustDecimal(t, "24.20")) {
		t.Errorf("grand_total: got %s, want 24.20", r.GrandTotal)
	}
	if !hasCorrection(r, CorrTotalRecomputed) {
		t.Error("expected total_recomputed correction")
	}
}

func TestParse_FastFoodReceipt(t *testing.T) {
	transcript := `BURGER KING
4 Cheese Burger 5.99 23.96
2 Soda 2.49 4.98
1 Fries 3.49 3.49
Subtotal 31.43
Tax 2.59
Total 34.02`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if len(r.Items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(r.Items), r.Items)
	}
	if !r.Subtotal.Equal(mustDecimal(t, "31.43")) {
		t.Errorf("subtotal: got %s, want 31.43", r.Subtotal)
	}
	if !r.TaxTotal.Equal(mustDecimal(t, "2.59")) {
		t.Errorf("tax_total: got %s, want 2.59", r.TaxTotal)
	}
	if !r.GrandTotal.Equal(mustDecimal(t, "34.02")) {
		t.Errorf("grand_total: got %s, want 34.02", r.GrandTotal)
	}
	for _, c := range r.Corrections {
		if c.Kind != CorrMerchantLowConfidence {
			t.Errorf("unexpected correction for a clean receipt: %+v", c)
		}
	}
}

func TestParse_MismatchedLineMath(t *testing.T) {
	transcript := `CORNER STORE
4 Burger 5.99 23.99
Subtotal 23.99
Total 23.99`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if len(r.Items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(r.Items), r.Items)
	}
	item := r.Items[0]
	if item.Quantity != 4 {
		t.Errorf("quantity: got %d, want 4", item.Quantity)
	}
	if !item.UnitPrice.Equal(mustDecimal(t, "6.00")) {
		t.Errorf("unit_price: got %s, want 6.00", item.UnitPrice)
	}
	if !item.LineTotal.Equal(mustDecimal(t, "23.99")) {
		t.Errorf("line_total: got %s, want 23.99 (explicit pattern A total preserved)", item.LineTotal)
	}
	if !hasCorrection(r, CorrItemMathMismatch) {
		t.Error("expected item_math_mismatch correction")
	}
}

func TestParse_MissingSubtotalPresentTaxAndTotal(t *testing.T) {
	transcript := `CAFE NOIR
Milk 3.99
Bread 2.49
Tax 0.52
Total 6.00`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if !r.Subtotal.Equal(mustDecimal(t, "6.48")) {
		t.Errorf("subtotal: got %s, want 6.48", r.Subtotal)
	}
	if !r.GrandTotal.Equal(mustDecimal(t, "6.00")) {
		t.Errorf("grand_total: got %s, want 6.00 (grand total trusted)", r.GrandTotal)
	}
	if !hasCorrection(r, CorrTaxEstimated) && !hasCorrection(r, CorrTaxSuspicious) {
		t.Error("expected tax_estimated or tax_suspicious correction")
	}
}

// TestValidateAndCorrect_SuspiciousQuantityAndNegativePrice exercises the
// validator directly against spec.md §8 scenario 5 ("Line parsed as
// qty=9999 Item -2.50"): extraction having already produced an
// out-of-range quantity and a negative price, the validator must clamp
// and zero them and recompute line_total.
func TestValidateAndCorrect_SuspiciousQuantityAndNegativePrice(t *testing.T) {
	items := []LineItem{
		{Name: "Item", Quantity: 9999, UnitPrice: mustDecimal(t, "-2.50"), LineTotal: mustDecimal(t, "-24997.50")},
	}

	out, corrections := validateAndCorrect(items)

	if len(out) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(out), out)
	}
	item := out[0]
	if item.Quantity != 100 {
		t.Errorf("quantity: got %d, want 100 (capped)", item.Quantity)
	}
	if !item.UnitPrice.Equal(decimal.Zero) {
		t.Errorf("unit_price: got %s, want 0.00 (negative zeroed)", item.UnitPrice)
	}
	if !item.LineTotal.Equal(decimal.Zero) {
		t.Errorf("line_total: got %s, want 0.00", item.LineTotal)
	}

	foundCapped, foundZeroed := false, false
	for _, c := range corrections {
		if c.Kind == CorrQuantityCapped {
			foundCapped = true
		}
		if c.Kind == CorrNegativePriceZeroed {
			foundZeroed = true
		}
	}
	if !foundCapped {
		t.Error("expected quantity_capped correction")
	}
	if !foundZeroed {
		t.Error("expected negative_price_zeroed correction")
	}
}

func TestParse_UnknownMerchantValidItems(t *testing.T) {
	transcript := `ZYX CORNER SHOP
Milk 3.49
Bread 2.99
Eggs 4.29
Subtotal 10.77
Total 10.77`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if r.Merchant != "Unknown Store" {
		t.Errorf("merchant: got %q, want %q", r.Merchant, "Unknown Store")
	}
	if r.MerchantConfidence != 0.0 {
		t.Errorf("merchant_confidence: got %v, want 0.0", r.MerchantConfidence)
	}
	if !hasCorrection(r, CorrMerchantLowConfidence) {
		t.Error("expected merchant_low_confidence correction")
	}
	if len(r.Items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(r.Items), r.Items)
	}
}

func TestParse_EmptyTranscript(t *testing.T) {
	r := Parse("", fixedToday(), LocaleNone, nil, nil)

	if len(r.Items) != 0 {
		t.Errorf("expected no items, got %d", len(r.Items))
	}
	if !r.Subtotal.Equal(decimal.Zero) || !r.GrandTotal.Equal(decimal.Zero) {
		t.Errorf("expected zero totals, got subtotal=%s grand_total=%s", r.Subtotal, r.GrandTotal)
	}
	if r.Merchant != "Unknown Store" {
		t.Errorf("merchant: got %q, want Unknown Store", r.Merchant)
	}
}

func TestParse_PromotionalTextOnly(t *testing.T) {
	transcript := `THANK YOU FOR SHOPPING WITH US
VISIT US ONLINE AT WWW.EXAMPLE.COM
FOLLOW US ON SOCIAL MEDIA FOR DEALS`

	r := Parse(transcript, fixedToday(), LocaleNone, nil, nil)

	if len(r.Items) != 0 {
		t.Errorf("expected no items from promotional-only text, got %d: %+v", len(r.Items), r.Items)
	}
}

func TestParse_ThousandsGroupedPrice(t *testing.T) {
	transcript := `BEST BUY
1 Television 1,234.56
Subtotal 1,234.56
Total 1,234.56`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if len(r.Items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(r.Items), r.Items)
	}
	if !r.Items[0].LineTotal.Equal(mustDecimal(t, "500.00")) {
		// unit price itself exceeds the 500 ceiling and is clamped, so the
		// recomputed line total is clamped_price * quantity.
		t.Errorf("line_total: got %s, want 500.00 (clamped unit price)", r.Items[0].LineTotal)
	}
	if !hasCorrection(r, CorrPriceSuspicious) {
		t.Error("expected price_suspicious correction for a >500 unit price")
	}
}

func TestParse_PriceWrappedAcrossLines(t *testing.T) {
	transcript := `CORNER DELI
Sandwich Combo 12
.99
Subtotal 12.99
Total 12.99`

	r := Parse(transcript, fixedToday(), LocaleUS, nil, nil)

	if len(r.Items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(r.Items), r.Items)
	}
	if !r.Items[0].LineTotal.Equal(mustDecimal(t, "12.99")) {
		t.Errorf("line_total: got %s, want 12.99 (fused across lines)", r.Items[0].LineTotal)
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"???###@@@",
		"1 2 3 4 5 6 7 8 9 .. .. ..",
		strings.Repeat("a", 5000),
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Errorf("Parse panicked on input %q: %v", in, rec)
				}
			}()
			Parse(in, fixedToday(), LocaleNone, nil, nil)
		}()
	}
}

func TestParse_InvariantsHoldAcrossScenarios(t *testing.T) {
	transcripts := []string{
		`WALMART
0.778kg NET @ $5.99/kg
BANANA CAVENDISH $1.32
Subtotal $1.32
Total $1.32`,
		`BURGER KING
4 Cheese Burger 5.99 23.96
Subtotal 23.96
Tax 2.00
Total 25.96`,
		`UNKNOWN MERCHANT
Item 2.50
Subtotal 2.50
Total 2.50`,
		``,
	}

	for _, tr := range transcripts {
		r := Parse(tr, fixedToday(), LocaleUS, nil, nil)

		if r.Merchant == "" {
			t.Errorf("merchant must be non-empty for input %q", tr)
		}

		itemsSum := decimal.Zero
		for _, item := range r.Items {
			if item.Quantity < 1 || item.Quantity > 100 {
				t.Errorf("quantity out of range for input %q: %d", tr, item.Quantity)
			}
			if item.UnitPrice.IsNegative() || item.UnitPrice.GreaterThan(mustDecimal(t, "500.00")) {
				t.Errorf("unit_price out of range for input %q: %s", tr, item.UnitPrice)
			}
			if item.LineTotal.IsNegative() {
				t.Errorf("line_total negative for input %q: %s", tr, item.LineTotal)
			}
			itemsSum = itemsSum.Add(item.LineTotal)
		}

		itemTolerance := decimal.NewFromFloat(0.02).Mul(decimal.NewFromInt(int64(maxInt(1, len(r.Items)))))
		if itemsSum.Sub(r.Subtotal).Abs().GreaterThan(itemTolerance) {
			t.Errorf("sum(line_total) vs subtotal out of tolerance for input %q: sum=%s subtotal=%s", tr, itemsSum, r.Subtotal)
		}

		implied := r.Subtotal.Sub(r.DiscountTotal).Add(r.TaxTotal).Add(r.ShippingTotal)
		if r.GrandTotal.Sub(implied).Abs().GreaterThan(mustDecimal(t, "0.02")) {
			t.Errorf("grand_total identity out of tolerance for input %q: grand=%s implied=%s", tr, r.GrandTotal, implied)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
