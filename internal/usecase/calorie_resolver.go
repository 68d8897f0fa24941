package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const (
	defaultCalories    = 100
	defaultServingSize = "100g"
)

// CalorieResolverConfig holds fallback tuning for calorie resolution
type CalorieResolverConfig struct {
	DefaultCalories    int
	DefaultServingSize string
}

// CalorieResolver resolves one ingredient to a calorie estimate via the same
// three-tier structure as price resolution: nutrition database, model
// estimate, hard default.
type CalorieResolver struct {
	nutrition          domain.NutritionLookup
	model              domain.ModelClient
	defaultCalories    int
	defaultServingSize string
	logger             *zap.Logger
}

// NewCalorieResolver creates a calorie resolver with dependencies
func NewCalorieResolver(nutrition domain.NutritionLookup, model domain.ModelClient, cfg CalorieResolverConfig, logger *zap.Logger) *CalorieResolver {
	calories := cfg.DefaultCalories
	if calories <= 0 {
		calories = defaultCalories
	}
	serving := cfg.DefaultServingSize
	if serving == "" {
		serving = defaultServingSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalorieResolver{
		nutrition:          nutrition,
		model:              model,
		defaultCalories:    calories,
		defaultServingSize: serving,
		logger:             logger,
	}
}

// ResolveCalories consults the nutrition database first; a found entry is
// authoritative. Otherwise the model estimates kcal per 100g, and if that
// fails too the default applies. A value always comes back.
func (r *CalorieResolver) ResolveCalories(ctx context.Context, ingredient string) domain.CalorieEstimate {
	facts, err := r.nutrition.Lookup(ctx, ingredient)
	if err != nil {
		r.logger.Debug("nutrition lookup failed",
			zap.String("ingredient", ingredient),
			zap.Error(err))
	} else if facts.Found {
		serving := facts.ServingSize
		if serving == "" {
			serving = r.defaultServingSize
		}
		return domain.CalorieEstimate{
			Calories:    facts.Calories,
			ServingSize: serving,
			Source:      domain.SourceUSDA,
		}
	}

	if calories, err := r.estimateCalories(ctx, ingredient); err == nil {
		return domain.CalorieEstimate{
			Calories:    calories,
			ServingSize: r.defaultServingSize,
			Source:      domain.SourceAIEstimated,
		}
	} else {
		r.logger.Warn("calorie estimation failed, using default",
			zap.String("ingredient", ingredient),
			zap.Error(err))
	}

	return domain.CalorieEstimate{
		Calories:    r.defaultCalories,
		ServingSize: r.defaultServingSize,
		Source:      domain.SourceDefault,
	}
}

// estimateCalories asks the model for kcal per 100g as a bare integer and
// parses the first digit run of the reply.
func (r *CalorieResolver) estimateCalories(ctx context.Context, ingredient string) (int, error) {
	prompt := fmt.Sprintf(
		"How many calories are in 100 grams of %s? "+
			"Reply with a single whole number only, no units, no explanation.", ingredient)

	reply, err := r.model.Complete(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrModelAPIFailure, err)
	}

	calories, ok := ParseCalories(reply)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrNoNumberInText, reply)
	}
	return calories, nil
}
