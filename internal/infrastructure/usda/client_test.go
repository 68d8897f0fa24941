package usda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgeat/backend/internal/domain"
)

func TestLookup(t *testing.T) {
	t.Run("returns energy value from top hit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/foods/search", r.URL.Path)
			assert.Equal(t, "cheddar cheese", r.URL.Query().Get("query"))
			assert.Equal(t, "1", r.URL.Query().Get("pageSize"))
			assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"foods": [{
					"fdcId": 173414,
					"description": "Cheese, cheddar",
					"foodNutrients": [
						{"nutrientName": "Protein", "unitName": "G", "value": 22.9},
						{"nutrientName": "Energy", "unitName": "KCAL", "value": 403.0}
					]
				}]
			}`))
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		facts, err := client.Lookup(context.Background(), "cheddar cheese")

		require.NoError(t, err)
		assert.True(t, facts.Found)
		assert.Equal(t, 403, facts.Calories)
		assert.Equal(t, "100g", facts.ServingSize)
	})

	t.Run("no foods is not found, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"foods": []}`))
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		facts, err := client.Lookup(context.Background(), "unobtainium")

		require.NoError(t, err)
		assert.False(t, facts.Found)
	})

	t.Run("hit without energy nutrient is not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"foods": [{
					"fdcId": 1,
					"description": "Water",
					"foodNutrients": [
						{"nutrientName": "Energy", "unitName": "kJ", "value": 0}
					]
				}]
			}`))
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		facts, err := client.Lookup(context.Background(), "water")

		require.NoError(t, err)
		assert.False(t, facts.Found)
	})

	t.Run("retries on server error and recovers", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{
				"foods": [{
					"fdcId": 2,
					"description": "Milk",
					"foodNutrients": [
						{"nutrientName": "Energy", "unitName": "KCAL", "value": 61}
					]
				}]
			}`))
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		facts, err := client.Lookup(context.Background(), "milk")

		require.NoError(t, err)
		assert.True(t, facts.Found)
		assert.Equal(t, 61, facts.Calories)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("exhausted retries surface the API failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		_, err := client.Lookup(context.Background(), "milk")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNutritionAPIFailure)
	})

	t.Run("cancelled context stops the retry loop", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		client := NewClient("test-api-key", server.URL, nil)
		_, err := client.Lookup(ctx, "milk")

		require.Error(t, err)
	})

	t.Run("malformed body is a decode error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := NewClient("test-api-key", server.URL, nil)
		_, err := client.Lookup(context.Background(), "milk")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, exponentialBackoff(1))
	assert.Equal(t, 1*time.Second, exponentialBackoff(2))
	assert.Equal(t, 2*time.Second, exponentialBackoff(3))
}
