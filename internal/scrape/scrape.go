// Package scrape extracts result links from a search engine's HTML
// results page. DuckDuckGo's HTML endpoint is used because it tolerates
// programmatic scraping better than the large engines.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jobtools/job-finder-mcp-server/internal/fetcher"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the search endpoint queried by the scraper.
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

// resultLinkSelector matches result anchors on the results page.
const resultLinkSelector = "a.result__a"

// ErrNoResults indicates the results page contained no usable links.
var ErrNoResults = errors.New("no search results found")

// Scraper issues search queries and collects result links.
type Scraper struct {
	client     *fetcher.Client
	baseURL    string
	maxResults int
	logger     zerolog.Logger
}

// NewScraper creates a scraper using the shared HTTP client. maxResults
// caps the number of links collected per query.
func NewScraper(client *fetcher.Client, baseURL string, maxResults int, logger zerolog.Logger) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		client:     client,
		baseURL:    baseURL,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Search queries the engine and returns up to maxResults result links.
// Spaces in the query become '+'; no other sanitization is applied. Links
// are kept when their href contains "http". No pagination, no dedup.
func (s *Scraper) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s?q=%s", s.baseURL, strings.ReplaceAll(query, " ", "+"))

	body, _, err := s.client.Get(ctx, searchURL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("query", query).
			Msg("Search request failed")
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var links []string
	doc.Find(resultLinkSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if ok && strings.Contains(href, "http") {
			links = append(links, href)
		}
		return len(links) < s.maxResults
	})

	s.logger.Info().
		Str("query", query).
		Int("links", len(links)).
		Msg("Search completed")

	if len(links) == 0 {
		return nil, ErrNoResults
	}

	return links, nil
}
