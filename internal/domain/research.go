package domain

// Price and calorie sources. A site-name source means the value came from a
// live page match; everything else is a fallback tier.
const (
	SourceUSDA        = "USDA"
	SourceAIEstimated = "AI Estimated"
	SourceDefault     = "Default"
)

// CurrencyUSD is the only currency the resolver produces.
const CurrencyUSD = "USD"

// PriceQuote is the single retained price for an ingredient within one run.
// Source is the matching site's name, "AI Estimated", or "Default".
type PriceQuote struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
}

// FromSite reports whether the quote came from an actual site match rather
// than a fallback tier.
func (q PriceQuote) FromSite() bool {
	return q.Source != SourceAIEstimated && q.Source != SourceDefault
}

// CalorieEstimate is the single retained calorie value for an ingredient.
type CalorieEstimate struct {
	Calories    int    `json:"calories"`
	ServingSize string `json:"servingSize"`
	Source      string `json:"source"`
}

// NutritionFacts is the raw result of a nutrition lookup. Found=false means
// the database had no usable entry; that is not an error.
type NutritionFacts struct {
	Calories    int    `json:"calories"`
	ServingSize string `json:"servingSize"`
	Found       bool   `json:"found"`
}

// IngredientResult pairs an ingredient with its resolved price and calories.
// Both values are always present; the fallback chain guarantees it.
type IngredientResult struct {
	Name     string          `json:"name"`
	Price    PriceQuote      `json:"price"`
	Calories CalorieEstimate `json:"calories"`
}

// ResearchReport is the aggregated output of one pipeline run.
//
// ItemsFound counts only ingredients whose price came from a real site match.
// TotalPrice sums every quote, estimates and defaults included. The asymmetry
// is intentional and matches the product's reporting rules.
type ResearchReport struct {
	RunID         string             `json:"runId"`
	Ingredients   []IngredientResult `json:"ingredients"`
	TotalPrice    float64            `json:"totalPrice"`
	TotalCalories int                `json:"totalCalories"`
	ItemsFound    int                `json:"itemsFound"`
	ItemsTotal    int                `json:"itemsTotal"`
}

// Recipe is a named list of ingredients supplied directly by the caller,
// bypassing extraction.
type Recipe struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// Recipe research statuses.
const (
	RecipeStatusSuccess = "success" // every ingredient got a real site price
	RecipeStatusPartial = "partial" // some did
	RecipeStatusFailed  = "failed"  // none did
)

// RecipeIngredient is one priced ingredient within a recipe report.
type RecipeIngredient struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Site  string  `json:"site"`
}

// RecipeReport is the price-only research result for one recipe.
type RecipeReport struct {
	Name        string             `json:"name"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	TotalPrice  float64            `json:"totalPrice"`
	Status      string             `json:"status"`
}
