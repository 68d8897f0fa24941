// Package usda implements calorie lookup against the USDA FoodData Central API.
package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/budgeat/backend/internal/domain"
)

const (
	maxAttempts = 3
	servingSize = "100g" // FDC search nutrients are normalized per 100g
)

// searchResponse is the subset of the FDC search payload we read
type searchResponse struct {
	Foods []food `json:"foods"`
}

type food struct {
	FdcID       int        `json:"fdcId"`
	Description string     `json:"description"`
	Nutrients   []nutrient `json:"foodNutrients"`
}

type nutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new USDA API client. The free tier allows 1000
// requests per hour, roughly 0.278 requests per second.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(0.278), 10),
		logger:      logger,
	}
}

// Lookup searches FoodData Central for an ingredient and returns the energy
// value of the top hit. A missing entry or a hit without an Energy/KCAL
// nutrient is reported as Found=false, not an error.
func (c *Client) Lookup(ctx context.Context, name string) (domain.NutritionFacts, error) {
	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", name)
	params.Add("pageSize", "1")
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return domain.NutritionFacts{}, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.NutritionFacts{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(resp.Foods) == 0 {
		c.logger.Debug("no foods found", zap.String("query", name))
		return domain.NutritionFacts{}, nil
	}

	for _, n := range resp.Foods[0].Nutrients {
		if n.NutrientName == "Energy" && n.UnitName == "KCAL" {
			return domain.NutritionFacts{
				Calories:    int(n.Value),
				ServingSize: servingSize,
				Found:       true,
			}, nil
		}
	}

	c.logger.Debug("top hit has no energy nutrient",
		zap.String("query", name),
		zap.String("description", resp.Foods[0].Description))
	return domain.NutritionFacts{}, nil
}

// getWithRetry executes a GET with rate limiting and up to three attempts,
// backing off between transient failures.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		lastErr = err
		c.logger.Warn("USDA request failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < maxAttempts {
			select {
			case <-time.After(exponentialBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// doRequest executes a single HTTP GET and returns the response body
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "BudgEat/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNutritionAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrNutritionAPIFailure, resp.StatusCode)
	}
	return body, nil
}

// exponentialBackoff returns the delay before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
