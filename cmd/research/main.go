// Command research runs grocery-price research from the terminal: free-text
// research on the arguments, or batch recipe research from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/budgeat/backend/config"
	"github.com/budgeat/backend/internal/domain"
	"github.com/budgeat/backend/internal/infrastructure/browser"
	"github.com/budgeat/backend/internal/infrastructure/cache"
	"github.com/budgeat/backend/internal/infrastructure/llm"
	"github.com/budgeat/backend/internal/infrastructure/nutrition"
	"github.com/budgeat/backend/internal/infrastructure/usda"
	"github.com/budgeat/backend/internal/logger"
	"github.com/budgeat/backend/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "research [text...]",
		Short: "Research grocery prices and calories for meals or shopping lists",
		Long: `Research extracts ingredients from free text, looks up a price and a
calorie estimate for each across the configured retail sites, and prints a
priced shopping list with weekly totals.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := buildPipeline()
			if err != nil {
				return err
			}

			report, err := pipeline.Run(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			renderReport(report)
			return nil
		},
	}

	var recipesFile, outputFile string
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Price every ingredient of the recipes in a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(recipesFile)
			if err != nil {
				return fmt.Errorf("read recipes file: %w", err)
			}
			var recipes []domain.Recipe
			if err := json.Unmarshal(data, &recipes); err != nil {
				return fmt.Errorf("parse recipes file: %w", err)
			}

			pipeline, err := buildPipeline()
			if err != nil {
				return err
			}

			reports := pipeline.ResearchRecipes(cmd.Context(), recipes)
			for _, report := range reports {
				renderRecipeReport(report)
			}

			if outputFile != "" {
				out, err := json.MarshalIndent(reports, "", "  ")
				if err != nil {
					return fmt.Errorf("encode results: %w", err)
				}
				if err := os.WriteFile(outputFile, out, 0o644); err != nil {
					return fmt.Errorf("write results: %w", err)
				}
				fmt.Printf("Results saved to %s\n", outputFile)
			}
			return nil
		},
	}
	recipesCmd.Flags().StringVarP(&recipesFile, "file", "f", "recipes.json", "JSON file with recipes to research")
	recipesCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write results to this JSON file")
	rootCmd.AddCommand(recipesCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildPipeline wires the research pipeline from configuration
func buildPipeline() (*usecase.ResearchPipeline, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	modelClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, zapLogger)
	nutritionLookup := nutrition.NewCachedLookup(usdaClient, cache.NewMemory(), cfg.Cache.TTL, zapLogger)
	pageAgent := browser.NewAgent(browser.Config{
		UserAgent:    cfg.Browser.UserAgent,
		Timeout:      cfg.Browser.Timeout,
		MaxPageChars: cfg.Browser.MaxPageChars,
	}, zapLogger)

	extractor := usecase.NewIngredientExtractor(modelClient, cfg.Research.ExtractMaxChars, zapLogger)
	priceResolver := usecase.NewPriceResolver(pageAgent, modelClient, usecase.PriceResolverConfig{
		DefaultPriceUSD: cfg.Research.DefaultPriceUSD,
	}, zapLogger)
	calorieResolver := usecase.NewCalorieResolver(nutritionLookup, modelClient, usecase.CalorieResolverConfig{
		DefaultCalories:    cfg.Research.DefaultCalories,
		DefaultServingSize: cfg.Research.DefaultServingSize,
	}, zapLogger)

	return usecase.NewResearchPipeline(extractor, priceResolver, calorieResolver, cfg.SiteCatalog(), zapLogger), nil
}

// renderReport prints a research report as a table with totals
func renderReport(report *domain.ResearchReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Ingredient", "Price", "Source", "Calories", "Serving"})
	for _, result := range report.Ingredients {
		t.AppendRow(table.Row{
			result.Name,
			fmt.Sprintf("$%.2f", result.Price.Amount),
			result.Price.Source,
			result.Calories.Calories,
			result.Calories.ServingSize,
		})
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("$%.2f", report.TotalPrice), "", report.TotalCalories, ""})
	t.Render()

	fmt.Printf("Found on sites: %d of %d items\n", report.ItemsFound, report.ItemsTotal)
}

// renderRecipeReport prints one recipe's priced ingredients
func renderRecipeReport(report domain.RecipeReport) {
	fmt.Printf("\n%s [%s]\n", report.Name, report.Status)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Ingredient", "Price", "Site"})
	for _, ing := range report.Ingredients {
		t.AppendRow(table.Row{ing.Name, fmt.Sprintf("$%.2f", ing.Price), ing.Site})
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("$%.2f", report.TotalPrice), ""})
	t.Render()
}
