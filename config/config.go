package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/budgeat/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	LLM         LLMConfig         `mapstructure:"llm"`
	USDA        USDAConfig        `mapstructure:"usda"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	Research    ResearchConfig    `mapstructure:"research"`
	Sites       []SiteConfig      `mapstructure:"sites"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds chat-completion API configuration. The endpoint is
// OpenAI-compatible; NVIDIA's integrate API is the default.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// USDAConfig holds FoodData Central API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SpoonacularConfig holds the recipe search API configuration. The key is
// optional; recipe suggestions are disabled without it.
type SpoonacularConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // "memory" or "redis"
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// BrowserConfig holds page-agent configuration
type BrowserConfig struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxPageChars int           `mapstructure:"max_page_chars"`
}

// ResearchConfig holds resolution fallback tuning
type ResearchConfig struct {
	DefaultPriceUSD    float64 `mapstructure:"default_price_usd"`
	DefaultCalories    int     `mapstructure:"default_calories"`
	DefaultServingSize string  `mapstructure:"default_serving_size"`
	ExtractMaxChars    int     `mapstructure:"extract_max_chars"`
}

// SiteConfig is one retail site in the catalog, tried in listed order
type SiteConfig struct {
	Name       string `mapstructure:"name"`
	URL        string `mapstructure:"url"`
	SearchPath string `mapstructure:"search_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/budgeat/")

	v.SetEnvPrefix("BUDGEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(config.Sites) == 0 {
		config.Sites = defaultSites()
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SiteCatalog converts the configured sites to domain entities, preserving
// catalog order.
func (c *Config) SiteCatalog() []domain.Site {
	sites := make([]domain.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		sites = append(sites, domain.Site{
			Name:               s.Name,
			URL:                s.URL,
			SearchPathTemplate: s.SearchPath,
		})
	}
	return sites
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// LLM defaults (NVIDIA's OpenAI-compatible endpoint). The empty api_key
	// default registers the key so env-only values survive Unmarshal.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://integrate.api.nvidia.com/v1")
	v.SetDefault("llm.model", "nvidia/nemotron-nano-12b-v2-vl")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.7)

	// USDA defaults; DEMO_KEY works for low-volume search
	v.SetDefault("usda.api_key", "DEMO_KEY")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	// Spoonacular defaults
	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Browser defaults
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("browser.timeout", "30s")
	v.SetDefault("browser.max_page_chars", 15000)

	// Research fallback defaults
	v.SetDefault("research.default_price_usd", 5.00)
	v.SetDefault("research.default_calories", 100)
	v.SetDefault("research.default_serving_size", "100g")
	v.SetDefault("research.extract_max_chars", 5000)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// defaultSites is the built-in retail catalog, in priority order
func defaultSites() []SiteConfig {
	return []SiteConfig{
		{Name: "Walmart", URL: "https://www.walmart.com", SearchPath: "/search?q={query}"},
		{Name: "Target", URL: "https://www.target.com", SearchPath: "/s?searchTerm={query}"},
		{Name: "Amazon", URL: "https://www.amazon.com", SearchPath: "/s?k={query}"},
		{Name: "Kroger", URL: "https://www.kroger.com", SearchPath: "/search?query={query}"},
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set BUDGEAT_LLM_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisAddr == "" {
		return fmt.Errorf("redis address is required when cache type is 'redis'")
	}

	for i, site := range config.Sites {
		if site.Name == "" || site.URL == "" {
			return fmt.Errorf("site catalog entry %d is missing name or url", i)
		}
	}

	return nil
}
