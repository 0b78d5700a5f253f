package receipt

// DefaultMerchantTable ships with a default of well-known retailers and
// restaurant chains, pattern-matched case-insensitively against the first
// lines of a transcript. Patterns are plain substrings (not regexps) — OCR
// text is noisy enough that anchoring or character classes buy little, and
// plain substring matching keeps the table trivially data-editable, per
// spec.md §9 ("extending the merchant set is a data change, not a code
// change").
func DefaultMerchantTable() []MerchantRule {
	return []MerchantRule{
		{Pattern: "walmart", Canonical: "Walmart", Weight: 0.95},
		{Pattern: "wal-mart", Canonical: "Walmart", Weight: 0.95},
		{Pattern: "target", Canonical: "Target", Weight: 0.9},
		{Pattern: "costco", Canonical: "Costco", Weight: 0.95},
		{Pattern: "kroger", Canonical: "Kroger", Weight: 0.9},
		{Pattern: "safeway", Canonical: "Safeway", Weight: 0.9},
		{Pattern: "albertsons", Canonical: "Albertsons", Weight: 0.9},
		{Pattern: "publix", Canonical: "Publix", Weight: 0.9},
		{Pattern: "whole foods", Canonical: "Whole Foods Market", Weight: 0.9},
		{Pattern: "trader joe", Canonical: "Trader Joe's", Weight: 0.9},
		{Pattern: "aldi", Canonical: "Aldi", Weight: 0.85},
		{Pattern: "lidl", Canonical: "Lidl", Weight: 0.85},
		{Pattern: "sam's club", Canonical: "Sam's Club", Weight: 0.9},
		{Pattern: "sams club", Canonical: "Sam's Club", Weight: 0.9},
		{Pattern: "cvs", Canonical: "CVS Pharmacy", Weight: 0.9},
		{Pattern: "walgreens", Canonical: "Walgreens", Weight: 0.9},
		{Pattern: "rite aid", Canonical: "Rite Aid", Weight: 0.85},
		{Pattern: "home depot", Canonical: "The Home Depot", Weight: 0.9},
		{Pattern: "lowe's", Canonical: "Lowe's", Weight: 0.9},
		{Pattern: "lowes", Canonical: "Lowe's", Weight: 0.85},
		{Pattern: "best buy", Canonical: "Best Buy", Weight: 0.9},
		{Pattern: "ikea", Canonical: "IKEA", Weight: 0.9},
		{Pattern: "macy's", Canonical: "Macy's", Weight: 0.85},
		{Pattern: "macys", Canonical: "Macy's", Weight: 0.85},
		{Pattern: "nordstrom", Canonical: "Nordstrom", Weight: 0.85},
		{Pattern: "tj maxx", Canonical: "T.J. Maxx", Weight: 0.85},
		{Pattern: "marshalls", Canonical: "Marshalls", Weight: 0.85},
		{Pattern: "mcdonald's", Canonical: "McDonald's", Weight: 0.9},
		{Pattern: "mcdonalds", Canonical: "McDonald's", Weight: 0.9},
		{Pattern: "burger king", Canonical: "Burger King", Weight: 0.9},
		{Pattern: "wendy's", Canonical: "Wendy's", Weight: 0.9},
		{Pattern: "wendys", Canonical: "Wendy's", Weight: 0.85},
		{Pattern: "taco bell", Canonical: "Taco Bell", Weight: 0.9},
		{Pattern: "chipotle", Canonical: "Chipotle Mexican Grill", Weight: 0.9},
		{Pattern: "subway", Canonical: "Subway", Weight: 0.85},
		{Pattern: "starbucks", Canonical: "Starbucks", Weight: 0.9},
		{Pattern: "dunkin", Canonical: "Dunkin'", Weight: 0.85},
		{Pattern: "kfc", Canonical: "KFC", Weight: 0.85},
		{Pattern: "pizza hut", Canonical: "Pizza Hut", Weight: 0.85},
		{Pattern: "domino's", Canonical: "Domino's Pizza", Weight: 0.85},
		{Pattern: "dominos", Canonical: "Domino's Pizza", Weight: 0.8},
		{Pattern: "panera", Canonical: "Panera Bread", Weight: 0.85},
		{Pattern: "chick-fil-a", Canonical: "Chick-fil-A", Weight: 0.85},
		{Pattern: "chick fil a", Canonical: "Chick-fil-A", Weight: 0.85},
		{Pattern: "olive garden", Canonical: "Olive Garden", Weight: 0.85},
		{Pattern: "applebee's", Canonical: "Applebee's", Weight: 0.85},
		{Pattern: "shell", Canonical: "Shell", Weight: 0.7},
		{Pattern: "chevron", Canonical: "Chevron", Weight: 0.75},
		{Pattern: "exxon", Canonical: "ExxonMobil", Weight: 0.75},
		{Pattern: "7-eleven", Canonical: "7-Eleven", Weight: 0.8},
		{Pattern: "7 eleven", Canonical: "7-Eleven", Weight: 0.75},
	}
}
