package usecase

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

// ResearchPipeline orchestrates extraction, per-ingredient price and calorie
// resolution, and aggregation into a report. Resolution is strictly
// sequential: each ingredient is fully resolved, including all site attempts,
// before the next begins.
type ResearchPipeline struct {
	extractor *IngredientExtractor
	prices    *PriceResolver
	calories  *CalorieResolver
	sites     []domain.Site
	logger    *zap.Logger
}

// NewResearchPipeline creates a pipeline over a fixed site catalog
func NewResearchPipeline(
	extractor *IngredientExtractor,
	prices *PriceResolver,
	calories *CalorieResolver,
	sites []domain.Site,
	logger *zap.Logger,
) *ResearchPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResearchPipeline{
		extractor: extractor,
		prices:    prices,
		calories:  calories,
		sites:     sites,
		logger:    logger,
	}
}

// Run extracts ingredients from free text and resolves each one. Only
// extraction failure aborts the run; every per-ingredient failure is absorbed
// by the fallback chain.
func (p *ResearchPipeline) Run(ctx context.Context, rawText string) (*domain.ResearchReport, error) {
	ingredients, err := p.extractor.Extract(ctx, rawText)
	if err != nil {
		return nil, err
	}
	return p.resolveAll(ctx, ingredients)
}

// ResearchList resolves a caller-supplied ingredient list directly, skipping
// extraction. Names are normalized and deduplicated the same way extraction
// output is. An empty usable list is an extraction error.
func (p *ResearchPipeline) ResearchList(ctx context.Context, names []string) (*domain.ResearchReport, error) {
	seen := make(map[string]bool)
	var ingredients []string
	for _, raw := range names {
		name := NormalizeIngredient(raw)
		if len(name) < minIngredientLength || seen[name] {
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, name)
	}
	if len(ingredients) == 0 {
		return nil, &domain.ExtractionError{}
	}
	return p.resolveAll(ctx, ingredients)
}

// resolveAll runs both resolvers for every ingredient in order and
// aggregates totals. The context is checked between ingredients so a long
// multi-ingredient run can be cancelled without losing resolved results.
func (p *ResearchPipeline) resolveAll(ctx context.Context, ingredients []string) (*domain.ResearchReport, error) {
	report := &domain.ResearchReport{
		RunID:      uuid.NewString(),
		ItemsTotal: len(ingredients),
	}

	for _, ingredient := range ingredients {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("research run cancelled",
				zap.String("runId", report.RunID),
				zap.Int("resolved", len(report.Ingredients)))
			return report, err
		}

		price := p.prices.ResolvePrice(ctx, ingredient, p.sites)
		calories := p.calories.ResolveCalories(ctx, ingredient)

		report.Ingredients = append(report.Ingredients, domain.IngredientResult{
			Name:     ingredient,
			Price:    price,
			Calories: calories,
		})

		report.TotalPrice += price.Amount
		report.TotalCalories += calories.Calories
		if price.FromSite() {
			report.ItemsFound++
		}
	}

	report.TotalPrice = roundCents(report.TotalPrice)

	p.logger.Info("research run complete",
		zap.String("runId", report.RunID),
		zap.Int("itemsTotal", report.ItemsTotal),
		zap.Int("itemsFound", report.ItemsFound),
		zap.Float64("totalPrice", report.TotalPrice),
		zap.Int("totalCalories", report.TotalCalories))
	return report, nil
}

// ResearchRecipes prices every ingredient of every recipe. Recipe research is
// price-only; calories are not consulted here. A recipe's status reflects how
// many of its ingredients resolved to a real site price.
func (p *ResearchPipeline) ResearchRecipes(ctx context.Context, recipes []domain.Recipe) []domain.RecipeReport {
	reports := make([]domain.RecipeReport, 0, len(recipes))

	for _, recipe := range recipes {
		report := domain.RecipeReport{Name: recipe.Name}
		found := 0

		for _, raw := range recipe.Ingredients {
			if ctx.Err() != nil {
				break
			}
			name := NormalizeIngredient(raw)
			if name == "" {
				continue
			}

			quote := p.prices.ResolvePrice(ctx, name, p.sites)
			report.Ingredients = append(report.Ingredients, domain.RecipeIngredient{
				Name:  name,
				Price: quote.Amount,
				Site:  quote.Source,
			})
			report.TotalPrice += quote.Amount
			if quote.FromSite() {
				found++
			}
		}

		report.TotalPrice = roundCents(report.TotalPrice)
		report.Status = recipeStatus(found, len(report.Ingredients))
		reports = append(reports, report)
	}

	return reports
}

// recipeStatus maps the real-price count to success/partial/failed
func recipeStatus(found, total int) string {
	switch {
	case total > 0 && found == total:
		return domain.RecipeStatusSuccess
	case found > 0:
		return domain.RecipeStatusPartial
	default:
		return domain.RecipeStatusFailed
	}
}

// roundCents keeps aggregated dollar amounts at two decimal places
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
