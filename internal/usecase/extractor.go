package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const (
	defaultExtractMaxChars = 5000
	minIngredientLength    = 3
)

// Package-level compiled regex patterns for performance
var (
	digitRunRegex       = regexp.MustCompile(`\d+`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// IngredientExtractor turns free-form meal or shopping-list text into a
// deduplicated list of normalized ingredient names using the model.
type IngredientExtractor struct {
	model    domain.ModelClient
	maxChars int
	logger   *zap.Logger
}

// NewIngredientExtractor creates an extractor. maxChars bounds the input
// prefix sent to the model; zero means the default of 5000.
func NewIngredientExtractor(model domain.ModelClient, maxChars int, logger *zap.Logger) *IngredientExtractor {
	if maxChars <= 0 {
		maxChars = defaultExtractMaxChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngredientExtractor{
		model:    model,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Extract asks the model for a comma-separated ingredient list and parses it.
// A model failure or an empty parse is fatal and reported as an
// *domain.ExtractionError carrying the raw model output. No retry here; the
// caller decides whether to rerun the whole request.
func (e *IngredientExtractor) Extract(ctx context.Context, rawText string) ([]string, error) {
	text := rawText
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}

	prompt := fmt.Sprintf(
		"Extract the ingredient names from the following text. "+
			"Reply with a single comma-separated list of plain ingredient names only, "+
			"no quantities, no numbering, no extra formatting.\n\n%s", text)

	reply, err := e.model.Complete(ctx, prompt)
	if err != nil {
		e.logger.Error("ingredient extraction model call failed", zap.Error(err))
		return nil, &domain.ExtractionError{Err: err}
	}

	ingredients := ParseIngredientList(reply)
	if len(ingredients) == 0 {
		e.logger.Warn("ingredient extraction produced no items", zap.String("raw", reply))
		return nil, &domain.ExtractionError{Raw: reply}
	}

	e.logger.Info("extracted ingredients",
		zap.Int("count", len(ingredients)),
		zap.Strings("ingredients", ingredients))
	return ingredients, nil
}

// ParseIngredientList splits a comma-separated model reply into normalized
// ingredient names: lowercased, digit runs and "(", ")", ":" removed, tokens
// shorter than three characters dropped, duplicates removed preserving
// first-seen order.
func ParseIngredientList(reply string) []string {
	seen := make(map[string]bool)
	var ingredients []string

	for _, token := range strings.Split(reply, ",") {
		name := NormalizeIngredient(token)
		if len(name) < minIngredientLength {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, name)
	}
	return ingredients
}

// NormalizeIngredient lowercases a name and strips digits and the
// punctuation that quantity annotations leave behind.
func NormalizeIngredient(token string) string {
	name := strings.ToLower(strings.TrimSpace(token))
	name = digitRunRegex.ReplaceAllString(name, "")
	name = strings.NewReplacer("(", "", ")", "", ":", "").Replace(name)
	name = multipleSpacesRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
