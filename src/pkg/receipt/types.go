/*
Package receipt implements the receipt text interpreter: a single-threaded,
deterministic pipeline that turns a noisy OCR transcript of a retail or
restaurant receipt into a fully reconciled structured Receipt.

The pipeline never returns an error. Every deviation from a clean parse is
captured as a Correction on the returned Receipt instead.
*/
package receipt

import "github.com/shopspring/decimal"

// PaymentMethod is the tender type detected on the receipt.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCredit  PaymentMethod = "credit"
	PaymentDebit   PaymentMethod = "debit"
	PaymentUnknown PaymentMethod = "unknown"
)

// Category is the external categorizer's output tag for a LineItem.
type Category string

const (
	CategoryGroceries  Category = "groceries"
	CategoryRestaurant Category = "restaurant"
	CategoryPharmacy   Category = "pharmacy"
	CategoryRetail     Category = "retail"
	CategoryOther      Category = "other"
)

// LocaleHint biases date-format disambiguation (spec.md §4.3).
type LocaleHint string

const (
	LocaleUS   LocaleHint = "us"
	LocaleIntl LocaleHint = "intl"
	LocaleNone LocaleHint = "none"
)

// CorrectionKind enumerates the complete correction taxonomy (spec.md §7).
type CorrectionKind string

const (
	CorrMerchantLowConfidence CorrectionKind = "merchant_low_confidence"
	CorrDateFallback          CorrectionKind = "date_fallback"
	CorrItemMathMismatch      CorrectionKind = "item_math_mismatch"
	CorrWeightPrefixStripped  CorrectionKind = "weight_prefix_stripped"
	CorrNegativePriceZeroed   CorrectionKind = "negative_price_zeroed"
	CorrPriceSuspicious       CorrectionKind = "price_suspicious"
	CorrQuantityNonNumeric    CorrectionKind = "quantity_non_numeric"
	CorrQuantityCapped        CorrectionKind = "quantity_capped"
	CorrSubtotalRecomputed    CorrectionKind = "subtotal_recomputed"
	CorrTotalRecomputed       CorrectionKind = "total_recomputed"
	CorrTaxEstimated          CorrectionKind = "tax_estimated"
	CorrTaxSuspicious         CorrectionKind = "tax_suspicious"
	CorrDiscountSignFixed     CorrectionKind = "discount_sign_fixed"
	CorrLineDiscardedNonItem  CorrectionKind = "line_discarded_non_item"
)

// Correction records one automated fix applied while building a Receipt.
type Correction struct {
	Kind    CorrectionKind `json:"kind"`
	Before  any            `json:"before,omitempty"`
	After   any            `json:"after,omitempty"`
	Context string         `json:"context,omitempty"`
}

// LineItem is a single reconciled product row.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Category  Category        `json:"category"`

	// explicitTotal marks a LineTotal read directly off the transcript by
	// pattern A (spec.md §4.4): validateAndCorrect must never recompute it
	// from quantity × unit_price (spec.md §4.6). Not part of the wire
	// schema — unexported, so it never reaches JSON.
	explicitTotal bool
}

// Receipt is the pipeline's single output value. It is immutable once
// returned and carries no identity of its own (spec.md §3 lifecycle).
type Receipt struct {
	Merchant           string          `json:"merchant"`
	MerchantConfidence float64         `json:"merchant_confidence"`
	Date               string          `json:"date"`
	Items              []LineItem      `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountTotal      decimal.Decimal `json:"discount_total"`
	TaxTotal           decimal.Decimal `json:"tax_total"`
	ShippingTotal      decimal.Decimal `json:"shipping_total"`
	TipTotal           decimal.Decimal `json:"tip_total"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	Corrections        []Correction    `json:"corrections"`
	OCRParsed          bool            `json:"ocr_parsed"`
}

// MerchantRule is one entry of the merchant lookup table: a case-insensitive,
// whitespace-tolerant pattern mapped to a canonical name and a match weight.
// Ties between rules of equal weight are broken by first occurrence in the
// transcript, not by table order.
type MerchantRule struct {
	Pattern   string  `json:"pattern"`
	Canonical string  `json:"canonical_name"`
	Weight    float64 `json:"weight"`
}

// Categorizer classifies a cleaned line-item name into one of the five
// category tags. It is supplied by the caller (spec.md §6); when nil, Parse
// falls back to DefaultCategorizer.
type Categorizer func(name string) Category

// epsilon is the ε used for the implicit-tax-rate invariant (spec.md §3.4)
// to avoid dividing by zero when subtotal-discount is zero.
var epsilon = decimal.NewFromFloat(0.01)

// cents rounds a decimal amount to 2 fractional digits, the wire precision
// for every amount in Receipt and LineItem.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
