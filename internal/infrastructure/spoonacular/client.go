// Package spoonacular implements recipe suggestion lookup against the
// Spoonacular REST API.
package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const (
	maxAttempts    = 3
	initialBackoff = time.Second
	defaultNumber  = 5
)

type searchResponse struct {
	Results []recipeResult `json:"results"`
}

type recipeResult struct {
	Title               string `json:"title"`
	ExtendedIngredients []struct {
		Name string `json:"name"`
	} `json:"extendedIngredients"`
}

// Client is a typed wrapper for the Spoonacular REST API. The apiKey query
// parameter is injected on every request.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Spoonacular client
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Configured reports whether an API key is present. Recipe suggestions are
// disabled without one.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchRecipes finds recipes matching a free-text query and returns them
// with their ingredient name lists, ready for price research.
func (c *Client) SearchRecipes(ctx context.Context, query string, number int) ([]domain.Recipe, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: API key not configured", domain.ErrRecipeAPIFailure)
	}
	if number <= 0 {
		number = defaultNumber
	}

	params := url.Values{}
	params.Add("apiKey", c.apiKey)
	params.Add("query", query)
	params.Add("number", fmt.Sprintf("%d", number))
	params.Add("addRecipeInformation", "true")
	params.Add("fillIngredients", "true")

	reqURL := fmt.Sprintf("%s/recipes/complexSearch?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(resp.Results))
	for _, result := range resp.Results {
		recipe := domain.Recipe{Name: result.Title}
		for _, ing := range result.ExtendedIngredients {
			recipe.Ingredients = append(recipe.Ingredients, ing.Name)
		}
		recipes = append(recipes, recipe)
	}

	c.logger.Info("recipe search complete",
		zap.String("query", query),
		zap.Int("recipes", len(recipes)))
	return recipes, nil
}

// getWithRetry executes a GET, retrying 429 and 5xx responses with
// exponential backoff.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRecipeAPIFailure, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response: %w", readErr)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		lastErr = fmt.Errorf("%w: status %d", domain.ErrRecipeAPIFailure, resp.StatusCode)
		if !retryable(resp.StatusCode) || attempt == maxAttempts {
			return nil, lastErr
		}

		c.logger.Warn("Spoonacular request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode))
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
