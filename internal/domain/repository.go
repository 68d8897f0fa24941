package domain

import (
	"context"
	"time"
)

// ModelClient defines the text-completion capability used for ingredient
// extraction and price/calorie estimation.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NutritionLookup defines calorie lookup by ingredient name. A missing entry
// is reported via Found=false, not an error.
type NutritionLookup interface {
	Lookup(ctx context.Context, name string) (NutritionFacts, error)
}

// PageAgent hands out isolated page sessions. Each resolution attempt
// acquires its own session so concurrent resolutions never share page state.
type PageAgent interface {
	AcquireSession(ctx context.Context) (PageSession, error)
}

// PageSession is a single browser-like session holding one current page.
// Close must be called on every exit path.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	Text() (string, error)
	Close() error
}

// CacheRepository defines a byte-oriented TTL store. Values are serialized by
// the caller so memory and Redis implementations behave identically.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RecipeSource defines recipe suggestion lookup by free-text query.
type RecipeSource interface {
	SearchRecipes(ctx context.Context, query string, number int) ([]Recipe, error)
}
