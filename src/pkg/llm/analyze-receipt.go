/*
Take noisy OCR text of a purchase receipt and produce a structured
ReceiptAnalysis: a list of line items plus a totals comparison, using the
OpenAI Responses API as a fast alternative to the rule-based core.
*/
package llm

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"expense-tracker/src/pkg/openai"
)

// ReceiptAnalysis is the result of an LLM-driven receipt parse, text-only or
// image-backed. It is a looser, best-effort counterpart to receipt.Receipt:
// the rule-based core never errors and always reconciles; this fast path
// instead flags disagreement via TotalCheckMessage and lets the caller
// decide whether to fall back to the deterministic pipeline.
type ReceiptAnalysis struct {
	Items          []ReceiptAnalysisItem  `json:"items"`
	Totals         ReceiptAnalysisTotals  `json:"totals"`
	LLMRunMetadata *openai.LLMRunMetadata `json:"llm_run_metadata,omitempty"`
}

/*
GenerateReceiptAnalysis takes noisy OCR text (userMessage) of a receipt and
produces a structured ReceiptAnalysis using the OpenAI Responses API,
without an accompanying image. categories maps category keys to
descriptions; when nil/empty, the default set of categories is used.
*/
func GenerateReceiptAnalysis(userMessage string, categories map[string]string) (receiptAnalysis ReceiptAnalysis, e *xerr.Error) {
	model := "gpt-5-mini"
	reasoningEffort := openai.EffortLow
	tools := []any{} // disable the tools for now
	toolChoice := "auto"

	tl.Log(
		tl.Notice, palette.BlueBold, "%s with %s model %s, reasoning effort is %s",
		"Generating receipt analysis", "OpenAI", model, reasoningEffort,
	)

	effectiveCategories := categories
	if len(effectiveCategories) == 0 {
		effectiveCategories = buildDefaultReceiptCategories()
	}
	categoryBlock := buildCategoryBlock(effectiveCategories)

	instructions := fmt.Sprintf(`
You are an assistant that parses noisy purchase receipts (often in Spanish)
from OCR text alone.

Your task:
- Read the OCR text provided in the user message.
- Identify each purchased product line in the receipt.
- For each item, extract:
  - original_product_name: cleaned product name as it appears on the receipt (Spanish), without the price.
  - product_name_english: short English translation of the product name.
  - quantity: numeric quantity (use 1.0 if not explicitly given but implied).
  - unit_price: unit price in COP if you can infer it, otherwise 0.
  - line_total: total amount for that item in COP.
  - category_key: one of the allowed category keys listed below (or "other" if nothing fits).

- Compute and compare totals:
  - Determine receipt_total: the total amount charged according to the receipt (in COP).
  - Determine computed_items_total: sum of all item line_total values.
  - Compare them:
      * If they are equal within 1 COP, set total_check_message to "" (empty string).
      * Otherwise, set total_check_message to a short English explanation such as:
        "Sum of items is 10,470 COP but receipt total is 10,480 COP (difference: 10 COP)."

Allowed category keys and descriptions:
%s

Additional hints:
- Receipts are in Colombian pesos (COP) and often use "." or "," as thousand separators but no cents.
- A trailing "A" after a price in the OCR often indicates a tax/IVA code and is not part of the numeric price.
- Do NOT invent products that are not textually implied by the receipt.
`, categoryBlock)

	developerMessage := `
Return only a single JSON object matching the provided schema.
Do not include any additional commentary or explanation outside the JSON.
Perform a best-effort reconstruction of items and totals from the noisy text alone.
`

	schemaProperties := receiptAnalysisSchemaProperties()

	var llmRunMetadata *openai.LLMRunMetadata
	receiptAnalysis, llmRunMetadata, e = openai.UseChatGPTResponsesAPI[ReceiptAnalysis](
		model, reasoningEffort, instructions, developerMessage, userMessage, schemaProperties,
		4096, tools, toolChoice,
	)
	if e != nil {
		return receiptAnalysis, e
	}
	receiptAnalysis.LLMRunMetadata = llmRunMetadata

	tl.Log(
		tl.Notice1, palette.GreenBold, "%s with %s model %s, reasoning effort is %s",
		"Generated receipt analysis", "OpenAI", model, reasoningEffort,
	)
	tl.LogJSON(tl.Info, palette.Cyan, "OpenAI ReceiptAnalysis", receiptAnalysis)

	return receiptAnalysis, nil
}
