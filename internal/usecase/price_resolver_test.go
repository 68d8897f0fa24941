package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/budgeat/backend/internal/domain"
)

// FakePageAgent serves canned page text per URL substring and records every
// navigation so tests can assert which sites were attempted.
type FakePageAgent struct {
	pages      map[string]string // url substring -> page text
	acquireErr error
	visited    []string
	sessions   []*fakeSession
}

func (a *FakePageAgent) AcquireSession(ctx context.Context) (domain.PageSession, error) {
	if a.acquireErr != nil {
		return nil, a.acquireErr
	}
	s := &fakeSession{agent: a}
	a.sessions = append(a.sessions, s)
	return s, nil
}

type fakeSession struct {
	agent  *FakePageAgent
	text   string
	closed bool
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.agent.visited = append(s.agent.visited, url)
	for substr, text := range s.agent.pages {
		if strings.Contains(url, substr) {
			s.text = text
			return nil
		}
	}
	return domain.ErrEmptyPage
}

func (s *fakeSession) Text() (string, error) {
	if s.text == "" {
		return "", domain.ErrEmptyPage
	}
	return s.text, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func testSites(names ...string) []domain.Site {
	sites := make([]domain.Site, 0, len(names))
	for _, name := range names {
		sites = append(sites, domain.Site{
			Name: name,
			URL:  "https://www." + strings.ToLower(name) + ".example",
		})
	}
	return sites
}

func TestResolvePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("returns price from matching site", func(t *testing.T) {
		agent := &FakePageAgent{pages: map[string]string{
			"freshmart": "Search results\nMilk — $3.99\nAdd to cart",
		}}
		resolver := NewPriceResolver(agent, &MockModelClient{}, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "milk", testSites("FreshMart"))
		if quote.Amount != 3.99 {
			t.Errorf("Amount = %v, want 3.99", quote.Amount)
		}
		if quote.Source != "FreshMart" {
			t.Errorf("Source = %q, want FreshMart", quote.Source)
		}
		if quote.Currency != domain.CurrencyUSD {
			t.Errorf("Currency = %q, want USD", quote.Currency)
		}
	})

	t.Run("first match wins and later sites are not tried", func(t *testing.T) {
		agent := &FakePageAgent{pages: map[string]string{
			"alpha": "Milk $2.49",
			"gamma": "Milk $1.99",
		}}
		resolver := NewPriceResolver(agent, &MockModelClient{}, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "milk", testSites("Alpha", "Beta", "Gamma"))
		if quote.Source != "Alpha" || quote.Amount != 2.49 {
			t.Errorf("quote = %+v, want Alpha/2.49", quote)
		}
		if len(agent.visited) != 1 {
			t.Errorf("visited %d sites (%v), want only the first", len(agent.visited), agent.visited)
		}
	})

	t.Run("skips failing site and continues in order", func(t *testing.T) {
		agent := &FakePageAgent{pages: map[string]string{
			"beta": "Eggs $4.29 per dozen",
		}}
		resolver := NewPriceResolver(agent, &MockModelClient{}, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "eggs", testSites("Alpha", "Beta"))
		if quote.Source != "Beta" {
			t.Errorf("Source = %q, want Beta", quote.Source)
		}
		if len(agent.visited) != 2 {
			t.Errorf("visited = %v, want both sites attempted", agent.visited)
		}
	})

	t.Run("falls back to model estimate when all sites miss", func(t *testing.T) {
		agent := &FakePageAgent{}
		model := &MockModelClient{reply: "4.50"}
		resolver := NewPriceResolver(agent, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "saffron", testSites("Alpha", "Beta"))
		if quote.Source != domain.SourceAIEstimated {
			t.Errorf("Source = %q, want AI Estimated", quote.Source)
		}
		if quote.Amount != 4.50 {
			t.Errorf("Amount = %v, want 4.50", quote.Amount)
		}
	})

	t.Run("parses number out of a wordy model reply", func(t *testing.T) {
		model := &MockModelClient{reply: "That usually costs about 12.99 dollars."}
		resolver := NewPriceResolver(&FakePageAgent{}, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "vanilla extract", nil)
		if quote.Amount != 12.99 || quote.Source != domain.SourceAIEstimated {
			t.Errorf("quote = %+v, want AI Estimated/12.99", quote)
		}
	})

	t.Run("falls back to default when estimate call errors", func(t *testing.T) {
		agent := &FakePageAgent{}
		model := &MockModelClient{err: errors.New("model down")}
		resolver := NewPriceResolver(agent, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "saffron", testSites("Alpha"))
		if quote.Source != domain.SourceDefault {
			t.Errorf("Source = %q, want Default", quote.Source)
		}
		if quote.Amount != 5.00 {
			t.Errorf("Amount = %v, want default 5.00", quote.Amount)
		}
	})

	t.Run("falls back to default when estimate is unparsable", func(t *testing.T) {
		model := &MockModelClient{reply: "it depends"}
		resolver := NewPriceResolver(&FakePageAgent{}, model, PriceResolverConfig{DefaultPriceUSD: 2.50}, nil)

		quote := resolver.ResolvePrice(ctx, "saffron", nil)
		if quote.Source != domain.SourceDefault || quote.Amount != 2.50 {
			t.Errorf("quote = %+v, want Default/2.50", quote)
		}
	})

	t.Run("empty catalog still resolves", func(t *testing.T) {
		model := &MockModelClient{reply: "3"}
		resolver := NewPriceResolver(&FakePageAgent{}, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "milk", nil)
		if quote.Amount != 3 || quote.Source != domain.SourceAIEstimated {
			t.Errorf("quote = %+v, want AI Estimated/3", quote)
		}
	})

	t.Run("session acquisition failure is non-fatal", func(t *testing.T) {
		agent := &FakePageAgent{acquireErr: errors.New("browser unavailable")}
		model := &MockModelClient{reply: "1.25"}
		resolver := NewPriceResolver(agent, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(ctx, "milk", testSites("Alpha"))
		if quote.Source != domain.SourceAIEstimated {
			t.Errorf("Source = %q, want AI Estimated", quote.Source)
		}
	})

	t.Run("closes every session it acquires", func(t *testing.T) {
		agent := &FakePageAgent{pages: map[string]string{
			"gamma": "Cheese $6.99",
		}}
		resolver := NewPriceResolver(agent, &MockModelClient{reply: "1"}, PriceResolverConfig{}, nil)

		resolver.ResolvePrice(ctx, "cheese", testSites("Alpha", "Beta", "Gamma"))
		for i, s := range agent.sessions {
			if !s.closed {
				t.Errorf("session %d was not closed", i)
			}
		}
	})

	t.Run("cancelled context skips remaining sites", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		agent := &FakePageAgent{pages: map[string]string{"alpha": "$9.99"}}
		model := &MockModelClient{reply: "2"}
		resolver := NewPriceResolver(agent, model, PriceResolverConfig{}, nil)

		quote := resolver.ResolvePrice(cancelled, "milk", testSites("Alpha", "Beta"))
		if len(agent.visited) != 0 {
			t.Errorf("visited = %v, want no navigation after cancellation", agent.visited)
		}
		// resolution still terminates with a usable quote
		if quote.Source == "" {
			t.Error("expected a quote even under cancellation")
		}
	})
}
