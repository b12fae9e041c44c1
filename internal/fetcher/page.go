package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobtools/job-finder-mcp-server/internal/simplify"
	"github.com/rs/zerolog"
)

// FetchResult is the outcome of one page fetch. Note is empty unless the
// content could not be simplified to markdown.
type FetchResult struct {
	Body string
	Note string
}

// Simplifier converts an HTML document to markdown.
type Simplifier interface {
	Simplify(html string) (string, error)
}

// Fetcher fetches pages and simplifies HTML responses to markdown.
type Fetcher struct {
	client     *Client
	simplifier Simplifier
	logger     zerolog.Logger
}

// NewFetcher creates a Fetcher using the given client and simplifier.
func NewFetcher(client *Client, simplifier Simplifier, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:     client,
		simplifier: simplifier,
		logger:     logger,
	}
}

// FetchPage fetches the URL and classifies the response by content type.
// HTML responses are simplified to markdown unless forceRaw is set; other
// content types are returned raw with an explanatory note. Simplification
// failure is not an error: the body carries the error placeholder instead.
func (f *Fetcher) FetchPage(ctx context.Context, url string, forceRaw bool) (*FetchResult, error) {
	body, contentType, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	isHTML := strings.Contains(contentType, "text/html")

	if isHTML && !forceRaw {
		markdown, err := f.simplifier.Simplify(body)
		if err != nil {
			f.logger.Warn().
				Err(err).
				Str("url", url).
				Msg("Page could not be simplified")
			return &FetchResult{Body: simplify.ErrorPlaceholder}, nil
		}
		return &FetchResult{Body: markdown}, nil
	}

	return &FetchResult{
		Body: body,
		Note: fmt.Sprintf("Content type %s cannot be simplified to markdown, but here is the raw content:\n", contentType),
	}, nil
}
