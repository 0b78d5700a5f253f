package receipt

import "strings"

// categoryKeyword maps a substring found in a cleaned item name to a
// Category tag, checked in table order (first match wins).
type categoryKeyword struct {
	keyword  string
	category Category
}

// defaultCategoryKeywords is a small, data-editable keyword table covering
// the common grocery/pharmacy/restaurant vocabulary, in the same spirit as
// DefaultMerchantTable: extending it is a data change, not a code change.
var defaultCategoryKeywords = []categoryKeyword{
	{"milk", CategoryGroceries},
	{"bread", CategoryGroceries},
	{"egg", CategoryGroceries},
	{"cheese", CategoryGroceries},
	{"butter", CategoryGroceries},
	{"yogurt", CategoryGroceries},
	{"produce", CategoryGroceries},
	{"banana", CategoryGroceries},
	{"apple", CategoryGroceries},
	{"chicken", CategoryGroceries},
	{"beef", CategoryGroceries},
	{"pork", CategoryGroceries},
	{"cereal", CategoryGroceries},
	{"pasta", CategoryGroceries},
	{"rice", CategoryGroceries},
	{"frozen", CategoryGroceries},
	{"snack", CategoryGroceries},
	{"soda", CategoryGroceries},
	{"juice", CategoryGroceries},
	{"organic", CategoryGroceries},
	{"burger", CategoryRestaurant},
	{"fries", CategoryRestaurant},
	{"combo", CategoryRestaurant},
	{"meal", CategoryRestaurant},
	{"entree", CategoryRestaurant},
	{"appetizer", CategoryRestaurant},
	{"beverage", CategoryRestaurant},
	{"coffee", CategoryRestaurant},
	{"latte", CategoryRestaurant},
	{"taco", CategoryRestaurant},
	{"pizza", CategoryRestaurant},
	{"sandwich", CategoryRestaurant},
	{"tablet", CategoryPharmacy},
	{"capsule", CategoryPharmacy},
	{"prescription", CategoryPharmacy},
	{"rx", CategoryPharmacy},
	{"vitamin", CategoryPharmacy},
	{"ibuprofen", CategoryPharmacy},
	{"acetaminophen", CategoryPharmacy},
	{"bandage", CategoryPharmacy},
	{"cough", CategoryPharmacy},
	{"allergy", CategoryPharmacy},
	{"shampoo", CategoryRetail},
	{"detergent", CategoryRetail},
	{"batteries", CategoryRetail},
	{"cable", CategoryRetail},
	{"charger", CategoryRetail},
	{"shirt", CategoryRetail},
	{"towel", CategoryRetail},
	{"furniture", CategoryRetail},
	{"electronics", CategoryRetail},
	{"tool", CategoryRetail},
}

// DefaultCategorizer is the fallback Categorizer (spec.md §6) used when the
// caller does not supply one: a keyword scan over defaultCategoryKeywords,
// falling back to CategoryOther.
func DefaultCategorizer(name string) Category {
	lower := strings.ToLower(name)
	for _, kw := range defaultCategoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	return CategoryOther
}
