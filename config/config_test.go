package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with API key from environment", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "nvapi-test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

		assert.Equal(t, "nvapi-test", cfg.LLM.APIKey)
		assert.Equal(t, "https://integrate.api.nvidia.com/v1", cfg.LLM.BaseURL)
		assert.Equal(t, "nvidia/nemotron-nano-12b-v2-vl", cfg.LLM.Model)

		assert.Equal(t, "DEMO_KEY", cfg.USDA.APIKey)
		assert.Equal(t, "https://api.nal.usda.gov/fdc", cfg.USDA.BaseURL)

		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 720*time.Hour, cfg.Cache.TTL)

		assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
		assert.Equal(t, 15000, cfg.Browser.MaxPageChars)

		assert.Equal(t, 5.00, cfg.Research.DefaultPriceUSD)
		assert.Equal(t, 100, cfg.Research.DefaultCalories)
		assert.Equal(t, "100g", cfg.Research.DefaultServingSize)
	})

	t.Run("built-in site catalog in priority order", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "nvapi-test")

		cfg, err := Load()
		require.NoError(t, err)

		require.Len(t, cfg.Sites, 4)
		assert.Equal(t, "Walmart", cfg.Sites[0].Name)
		assert.Equal(t, "Target", cfg.Sites[1].Name)
		assert.Equal(t, "Amazon", cfg.Sites[2].Name)
		assert.Equal(t, "Kroger", cfg.Sites[3].Name)
	})

	t.Run("missing LLM API key fails validation", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LLM API key")
	})

	t.Run("unknown cache type fails validation", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "nvapi-test")
		t.Setenv("BUDGEAT_CACHE_TYPE", "disk")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache type")
	})

	t.Run("redis cache requires an address", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "nvapi-test")
		t.Setenv("BUDGEAT_CACHE_TYPE", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis address")
	})

	t.Run("redis cache with address is valid", func(t *testing.T) {
		t.Setenv("BUDGEAT_LLM_API_KEY", "nvapi-test")
		t.Setenv("BUDGEAT_CACHE_TYPE", "redis")
		t.Setenv("BUDGEAT_CACHE_REDIS_ADDR", "localhost:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Cache.Type)
		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	})
}

func TestSiteCatalog(t *testing.T) {
	cfg := &Config{Sites: []SiteConfig{
		{Name: "FreshMart", URL: "https://www.freshmart.example", SearchPath: "/find?item={query}"},
		{Name: "Walmart", URL: "https://www.walmart.com"},
	}}

	sites := cfg.SiteCatalog()
	require.Len(t, sites, 2)
	assert.Equal(t, "FreshMart", sites[0].Name)
	assert.Equal(t, "/find?item={query}", sites[0].SearchPathTemplate)
	assert.Equal(t, "Walmart", sites[1].Name)
	assert.Empty(t, sites[1].SearchPathTemplate)
}

func TestValidateSites(t *testing.T) {
	cfg := &Config{
		LLM:   LLMConfig{APIKey: "key"},
		Cache: CacheConfig{Type: "memory"},
		Sites: []SiteConfig{{Name: "", URL: "https://x.example"}},
	}

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site catalog entry 0")
}
