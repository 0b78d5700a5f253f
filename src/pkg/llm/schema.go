package llm

import (
	"fmt"
	"sort"
	"strings"

	"expense-tracker/src/pkg/receipt"
)

// buildDefaultReceiptCategories maps the rule-based core's category tags
// (receipt.Category) to a one-line description the model can use to pick
// between them, so the vision fast path classifies items into exactly the
// same category space as DefaultCategorizer.
func buildDefaultReceiptCategories() map[string]string {
	return map[string]string{
		string(receipt.CategoryGroceries):  "Supermarket and grocery store purchases: food, beverages, household staples.",
		string(receipt.CategoryRestaurant): "Meals and drinks bought at a restaurant, cafe, bar, or fast food counter.",
		string(receipt.CategoryPharmacy):   "Medicine, health, and personal care items bought at a pharmacy or drugstore.",
		string(receipt.CategoryRetail):     "General merchandise: clothing, electronics, home goods, and other retail purchases.",
		string(receipt.CategoryOther):      "Anything that doesn't clearly fit one of the categories above.",
	}
}

// buildCategoryBlock renders a category map as a sorted "- key: description"
// list for embedding into model instructions.
func buildCategoryBlock(categories map[string]string) string {
	lines := make([]string, 0, len(categories))
	for key, description := range categories {
		lines = append(lines, fmt.Sprintf("- %s: %s", key, description))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// receiptAnalysisSchemaProperties is the JSON Schema "properties" fragment
// shared by the text-only and vision analysis calls: a list of line items
// plus a totals summary. Keeping this in one place means both fast paths
// produce the exact same ReceiptAnalysis shape.
func receiptAnalysisSchemaProperties() map[string]any {
	return map[string]any{
		"items": map[string]any{
			"type":        "array",
			"description": "List of line items parsed from the receipt.",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"line_index": map[string]any{
						"type":        "integer",
						"description": "Zero-based index of the main OCR line for this item, or -1 if unknown.",
					},
					"raw_line": map[string]any{
						"type":        "string",
						"description": "Raw OCR text line(s) used to derive this item.",
					},
					"original_product_name": map[string]any{
						"type":        "string",
						"description": "Cleaned product name as it is in the OCR text/image, without the price.",
					},
					"product_name_english": map[string]any{
						"type":        "string",
						"description": "Short English translation of the product name.",
					},
					"quantity": map[string]any{
						"type":        "number",
						"description": "Quantity of the item (1.0 if not explicitly given).",
					},
					"unit_price": map[string]any{
						"type":        "number",
						"description": "Unit price in COP, or 0 if unknown.",
					},
					"line_total": map[string]any{
						"type":        "number",
						"description": "Total amount for this item in COP.",
					},
					"category_key": map[string]any{
						"type":        "string",
						"description": "One of the allowed category keys or 'other'.",
					},
				},
				"required": []string{
					"line_index",
					"raw_line",
					"original_product_name",
					"product_name_english",
					"quantity",
					"unit_price",
					"line_total",
					"category_key",
				},
				"additionalProperties": false,
			},
		},
		"totals": map[string]any{
			"type":        "object",
			"description": "Summary totals for the receipt.",
			"properties": map[string]any{
				"receipt_total": map[string]any{
					"type":        "number",
					"description": "Total amount as written on the receipt (in COP).",
				},
				"computed_items_total": map[string]any{
					"type":        "number",
					"description": "Sum of all item line_total values (in COP).",
				},
				"total_check_message": map[string]any{
					"type":        "string",
					"description": "Empty string if sums match within 1 COP; otherwise a short English explanation.",
				},
			},
			"required":             []string{"receipt_total", "computed_items_total", "total_check_message"},
			"additionalProperties": false,
		},
	}
}

// ReceiptAnalysisItem is one line item as produced by either LLM fast path.
// CategoryKey reuses receipt.Category so both the vision/text fast paths
// and the rule-based core classify items into the same category space.
type ReceiptAnalysisItem struct {
	LineIndex           int              `json:"line_index"`
	RawLine             string           `json:"raw_line"`
	OriginalProductName string           `json:"original_product_name"`
	ProductNameEnglish  string           `json:"product_name_english"`
	Quantity            float64          `json:"quantity"`
	UnitPrice           float64          `json:"unit_price"`
	LineTotal           float64          `json:"line_total"`
	CategoryKey         receipt.Category `json:"category_key"`
}

// ReceiptAnalysisTotals summarizes the receipt total against the sum of
// item line totals, as computed by the model.
type ReceiptAnalysisTotals struct {
	ReceiptTotal       float64 `json:"receipt_total"`
	ComputedItemsTotal float64 `json:"computed_items_total"`
	TotalCheckMessage  string  `json:"total_check_message"`
}
