package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFoodNotFound is returned when the nutrition database has no entry
	// for an ingredient.
	ErrFoodNotFound = errors.New("food not found in nutrition database")

	// ErrNutritionAPIFailure is returned when the nutrition API request fails.
	ErrNutritionAPIFailure = errors.New("nutrition API request failed")

	// ErrRecipeAPIFailure is returned when the recipe search API request fails.
	ErrRecipeAPIFailure = errors.New("recipe API request failed")

	// ErrModelAPIFailure is returned when a chat completion request fails.
	ErrModelAPIFailure = errors.New("model API request failed")

	// ErrNoPriceInText is returned when page text contains no price pattern.
	ErrNoPriceInText = errors.New("no price pattern found in text")

	// ErrNoNumberInText is returned when a model reply contains no numeric value.
	ErrNoNumberInText = errors.New("no numeric value found in text")

	// ErrEmptyPage is returned when a navigation produced no usable page text.
	ErrEmptyPage = errors.New("page returned no text content")

	// ErrCacheMiss is returned when a key is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// ExtractionError means ingredient extraction produced no usable items. It is
// fatal to a pipeline run and carries the raw model output for diagnosis.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingredient extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("ingredient extraction produced no usable items (raw output: %q)", e.Raw)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
