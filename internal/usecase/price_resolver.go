package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const defaultPriceUSD = 5.00

// PriceResolverConfig holds fallback tuning for price resolution
type PriceResolverConfig struct {
	DefaultPriceUSD float64
}

// PriceResolver resolves one ingredient to a single price quote via three
// tiers: live site scrape, model estimate, hard default. It never fails; the
// last tier is a constant.
type PriceResolver struct {
	agent        domain.PageAgent
	model        domain.ModelClient
	defaultPrice float64
	logger       *zap.Logger
}

// NewPriceResolver creates a price resolver with dependencies
func NewPriceResolver(agent domain.PageAgent, model domain.ModelClient, cfg PriceResolverConfig, logger *zap.Logger) *PriceResolver {
	defaultPrice := cfg.DefaultPriceUSD
	if defaultPrice <= 0 {
		defaultPrice = defaultPriceUSD
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceResolver{
		agent:        agent,
		model:        model,
		defaultPrice: defaultPrice,
		logger:       logger,
	}
}

// ResolvePrice tries each site in catalog order and returns the first price
// found on a search results page. Site-level failures are logged and skipped.
// When every site misses, the model estimates a price; when that fails too,
// the default applies. Exactly one quote always comes back.
func (r *PriceResolver) ResolvePrice(ctx context.Context, ingredient string, sites []domain.Site) domain.PriceQuote {
	for _, site := range sites {
		if ctx.Err() != nil {
			break
		}

		amount, err := r.scrapeSite(ctx, site, ingredient)
		if err != nil {
			r.logger.Debug("site lookup failed",
				zap.String("ingredient", ingredient),
				zap.String("site", site.Name),
				zap.Error(err))
			continue
		}

		// First match wins; remaining sites are not tried
		r.logger.Info("price found",
			zap.String("ingredient", ingredient),
			zap.String("site", site.Name),
			zap.Float64("amount", amount))
		return domain.PriceQuote{Amount: amount, Currency: domain.CurrencyUSD, Source: site.Name}
	}

	if amount, err := r.estimatePrice(ctx, ingredient); err == nil {
		r.logger.Info("price estimated by model",
			zap.String("ingredient", ingredient),
			zap.Float64("amount", amount))
		return domain.PriceQuote{Amount: amount, Currency: domain.CurrencyUSD, Source: domain.SourceAIEstimated}
	} else {
		r.logger.Warn("price estimation failed, using default",
			zap.String("ingredient", ingredient),
			zap.Error(err))
	}

	return domain.PriceQuote{Amount: r.defaultPrice, Currency: domain.CurrencyUSD, Source: domain.SourceDefault}
}

// scrapeSite acquires a fresh page session, navigates to the site's search
// results for the ingredient, and scans the page text for the first dollar
// price. The session is released on every exit path.
func (r *PriceResolver) scrapeSite(ctx context.Context, site domain.Site, ingredient string) (float64, error) {
	session, err := r.agent.AcquireSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire session: %w", err)
	}
	defer session.Close()

	searchURL := site.SearchURL(ingredient)
	if err := session.Navigate(ctx, searchURL); err != nil {
		return 0, fmt.Errorf("navigate %s: %w", searchURL, err)
	}

	text, err := session.Text()
	if err != nil {
		return 0, fmt.Errorf("read page text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, domain.ErrEmptyPage
	}

	amount, ok := ParsePrice(text)
	if !ok {
		return 0, domain.ErrNoPriceInText
	}
	return amount, nil
}

// estimatePrice asks the model for a single numeric USD figure and parses the
// first numeric substring of the reply.
func (r *PriceResolver) estimatePrice(ctx context.Context, ingredient string) (float64, error) {
	prompt := fmt.Sprintf(
		"Estimate the typical US grocery store price in USD for one standard "+
			"unit of %s. Reply with a single number only, no currency symbol, "+
			"no explanation.", ingredient)

	reply, err := r.model.Complete(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrModelAPIFailure, err)
	}

	amount, ok := ParseAmount(reply)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrNoNumberInText, reply)
	}
	return amount, nil
}
