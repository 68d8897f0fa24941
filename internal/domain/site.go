package domain

import "strings"

// Site represents one retail site in the catalog. Sites are immutable once
// loaded from configuration and are tried in catalog order. Identity is Name.
type Site struct {
	Name               string `json:"name"`
	URL                string `json:"url"`
	SearchPathTemplate string `json:"searchPathTemplate,omitempty"`
}

// SearchURL builds the site-specific search URL for a query. Known retailers
// differ only by query-parameter name; anything unrecognized uses the generic
// /search?q= form. Spaces are encoded as '+' to match what the search pages
// themselves produce.
func (s Site) SearchURL(query string) string {
	encoded := strings.ReplaceAll(strings.TrimSpace(query), " ", "+")
	base := strings.TrimRight(s.URL, "/")

	if s.SearchPathTemplate != "" {
		return base + strings.Replace(s.SearchPathTemplate, "{query}", encoded, 1)
	}

	host := strings.ToLower(s.URL)
	switch {
	case strings.Contains(host, "target"):
		return base + "/s?searchTerm=" + encoded
	case strings.Contains(host, "amazon"):
		return base + "/s?k=" + encoded
	case strings.Contains(host, "walmart"):
		return base + "/search?q=" + encoded
	case strings.Contains(host, "kroger"):
		return base + "/search?query=" + encoded
	default:
		return base + "/search?q=" + encoded
	}
}
