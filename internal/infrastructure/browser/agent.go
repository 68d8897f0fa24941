// Package browser implements the page agent on top of colly. Each session
// owns its own collector, so concurrent resolutions never share page state.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const defaultMaxPageChars = 15000

// Config holds page-agent settings
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxPageChars int
}

// Agent hands out isolated page sessions
type Agent struct {
	cfg    Config
	logger *zap.Logger
}

// NewAgent creates a page agent
func NewAgent(cfg Config, logger *zap.Logger) *Agent {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPageChars <= 0 {
		cfg.MaxPageChars = defaultMaxPageChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{cfg: cfg, logger: logger}
}

// AcquireSession creates a session with a fresh collector. The caller must
// Close it on every exit path.
func (a *Agent) AcquireSession(ctx context.Context) (domain.PageSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.UserAgent(a.cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(a.cfg.Timeout)

	s := &session{
		collector:    collector,
		maxPageChars: a.cfg.MaxPageChars,
		logger:       a.logger,
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Referer", "https://www.google.com/")
	})
	collector.OnResponse(func(r *colly.Response) {
		s.html = r.Body
		s.url = r.Request.URL.String()
	})

	return s, nil
}

// session holds one current page fetched by its own collector
type session struct {
	collector    *colly.Collector
	maxPageChars int
	logger       *zap.Logger
	html         []byte
	url          string
	closed       bool
}

// Navigate fetches the URL and stores the response as the current page
func (s *session) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return fmt.Errorf("session is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.html = nil
	if err := s.collector.Visit(url); err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	s.collector.Wait()

	if len(s.html) == 0 {
		return domain.ErrEmptyPage
	}
	s.logger.Debug("page fetched",
		zap.String("url", url),
		zap.Int("bytes", len(s.html)))
	return nil
}

// Text returns the current page's cleaned text: scripts, styles and chrome
// elements removed, non-empty lines joined, bounded to maxPageChars.
func (s *session) Text() (string, error) {
	if len(s.html) == 0 {
		return "", domain.ErrEmptyPage
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.html))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}

	doc.Find("script, style, noscript, header, footer, nav").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	text := strings.Join(lines, "\n")
	if len(text) > s.maxPageChars {
		text = text[:s.maxPageChars]
	}
	return text, nil
}

// Close releases the session. The collector holds no OS resources beyond its
// HTTP client, so this just marks the session unusable.
func (s *session) Close() error {
	s.closed = true
	s.html = nil
	return nil
}
