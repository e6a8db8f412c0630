package parser

import (
	"strings"
	"unicode"

	"spesen/internal/domain"
)

// categoryRule binds one category to the keyword tokens that select it.
type categoryRule struct {
	category domain.Category
	keywords []string
}

// categoryRules is evaluated top to bottom; the first rule with a keyword
// present in the input wins. The order is a deliberate tie-break, not an
// accident: a hotel invoice listing a taxi transfer or a hotel bar stays
// lodging. Do not reorder.
var categoryRules = []categoryRule{
	{domain.CategoryLodging, []string{"hotel", "hostel", "pension", "übernachtung", "zimmer", "accommodation"}},
	{domain.CategoryTransport, []string{"bahn", "flug", "airline", "taxi", "uber", "bus", "ticket", "fahrkarte"}},
	{domain.CategoryMeals, []string{"restaurant", "café", "cafe", "bar", "pizza", "burger", "bistro", "mcdonalds", "essen"}},
	{domain.CategoryEntertainment, []string{"kino", "theater", "museum", "event", "konzert"}},
}

// KnownMerchants maps well-known merchant name substrings to the category
// they imply. Consulted by the categorizer in rule order alongside the
// keyword sets; published here so callers can extend the merchant heuristic.
var KnownMerchants = map[string]domain.Category{
	"marriott":      domain.CategoryLodging,
	"hilton":        domain.CategoryLodging,
	"motel one":     domain.CategoryLodging,
	"ibis":          domain.CategoryLodging,
	"steigenberger": domain.CategoryLodging,
	"deutsche bahn": domain.CategoryTransport,
	"lufthansa":     domain.CategoryTransport,
	"eurowings":     domain.CategoryTransport,
	"free now":      domain.CategoryTransport,
	"sixt":          domain.CategoryTransport,
	"aral":          domain.CategoryTransport,
	"mcdonald":      domain.CategoryMeals,
	"burger king":   domain.CategoryMeals,
	"vapiano":       domain.CategoryMeals,
	"nordsee":       domain.CategoryMeals,
	"starbucks":     domain.CategoryMeals,
	"cinemaxx":      domain.CategoryEntertainment,
	"eventim":       domain.CategoryEntertainment,
}

// Categorize maps the merchant (possibly absent) and the raw text to exactly
// one expense category. CategoryOther is the fallback when nothing matches.
func Categorize(merchant *string, text string) domain.Category {
	input := strings.ToLower(text)
	merchantLower := ""
	if merchant != nil {
		merchantLower = strings.ToLower(*merchant)
		input = merchantLower + "\n" + input
	}
	tokens := tokenize(input)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if _, ok := tokens[kw]; ok {
				return rule.category
			}
		}
		for sub, cat := range KnownMerchants {
			if cat == rule.category && merchantLower != "" && strings.Contains(merchantLower, sub) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}

// tokenize splits lower-cased text into its letter/digit runs.
func tokenize(lower string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = struct{}{}
	}
	return tokens
}
