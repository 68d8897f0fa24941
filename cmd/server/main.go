package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/budgeat/backend/config"
	httpDelivery "github.com/budgeat/backend/internal/delivery/http"
	"github.com/budgeat/backend/internal/domain"
	"github.com/budgeat/backend/internal/infrastructure/browser"
	"github.com/budgeat/backend/internal/infrastructure/cache"
	"github.com/budgeat/backend/internal/infrastructure/llm"
	"github.com/budgeat/backend/internal/infrastructure/nutrition"
	"github.com/budgeat/backend/internal/infrastructure/spoonacular"
	"github.com/budgeat/backend/internal/infrastructure/usda"
	"github.com/budgeat/backend/internal/logger"
	"github.com/budgeat/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting budgeat backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cacheType", cfg.Cache.Type),
		zap.Int("sites", len(cfg.Sites)))

	// Infrastructure
	var store domain.CacheRepository
	if cfg.Cache.Type == "redis" {
		redisStore, err := cache.NewRedis(cfg.Cache.RedisAddr)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = cache.NewMemory()
	}

	modelClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, zapLogger)
	nutritionLookup := nutrition.NewCachedLookup(usdaClient, store, cfg.Cache.TTL, zapLogger)

	pageAgent := browser.NewAgent(browser.Config{
		UserAgent:    cfg.Browser.UserAgent,
		Timeout:      cfg.Browser.Timeout,
		MaxPageChars: cfg.Browser.MaxPageChars,
	}, zapLogger)

	// Usecase layer
	extractor := usecase.NewIngredientExtractor(modelClient, cfg.Research.ExtractMaxChars, zapLogger)
	priceResolver := usecase.NewPriceResolver(pageAgent, modelClient, usecase.PriceResolverConfig{
		DefaultPriceUSD: cfg.Research.DefaultPriceUSD,
	}, zapLogger)
	calorieResolver := usecase.NewCalorieResolver(nutritionLookup, modelClient, usecase.CalorieResolverConfig{
		DefaultCalories:    cfg.Research.DefaultCalories,
		DefaultServingSize: cfg.Research.DefaultServingSize,
	}, zapLogger)
	pipeline := usecase.NewResearchPipeline(extractor, priceResolver, calorieResolver, cfg.SiteCatalog(), zapLogger)

	var recipeSource domain.RecipeSource
	if cfg.Spoonacular.APIKey != "" {
		recipeSource = spoonacular.NewClient(cfg.Spoonacular.APIKey, cfg.Spoonacular.BaseURL, zapLogger)
	} else {
		zapLogger.Warn("spoonacular API key not set, recipe search disabled")
	}

	handler := httpDelivery.NewHandler(pipeline, modelClient, recipeSource, zapLogger)
	router := httpDelivery.SetupRouter(cfg, handler, zapLogger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}
