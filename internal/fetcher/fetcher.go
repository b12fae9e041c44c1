// Package fetcher provides HTTP client functionality for fetching arbitrary
// pages on behalf of tools, with rate limiting and content-type handling.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// FetchError describes a failed fetch: either a transport error or an
// HTTP error status (>= 400).
type FetchError struct {
	URL        string
	StatusCode int // 0 when the failure happened before a response arrived
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s - status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client wraps an http.Client with a shared outbound rate limiter and a
// fixed user agent. Redirects are followed; requests are never retried.
type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    zerolog.Logger
}

// NewClient creates a client with the given per-request timeout, outbound
// requests-per-second cap, and user agent.
func NewClient(timeout time.Duration, maxRPS int, userAgent string, logger zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(maxRPS), maxRPS),
		userAgent: userAgent,
		logger:    logger,
	}
}

// UserAgent returns the user agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get performs a GET against the URL and returns the body and the
// content-type response header. Any transport error or a response status
// >= 400 is returned as a *FetchError.
func (c *Client) Get(ctx context.Context, url string) (string, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("url", url).
		Msg("Fetching page")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("url", url).
			Msg("Fetch request failed")
		return "", "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", url).
			Msg("Fetch returned error status")
		return "", "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	c.logger.Info().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("content_size", len(body)).
		Msg("Successfully fetched page")

	return string(body), resp.Header.Get("Content-Type"), nil
}
