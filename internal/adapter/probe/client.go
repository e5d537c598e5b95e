package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/station-catalog-etl/internal/config"
)

// StatusError is returned when a feed answers with an HTTP error status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("probe %s: status %d", e.URL, e.StatusCode)
}

// Client checks that observation feeds exist with a HEAD request.
// It implements pipeline.Prober.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed prober with the given per-request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Probe returns nil when feedURL answers HEAD with a status below 400.
// Redirects are followed.
func (c *Client) Probe(ctx context.Context, feedURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, feedURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{URL: feedURL, StatusCode: resp.StatusCode}
	}
	c.logger.Debug("feed reachable", "url", feedURL, "status", resp.StatusCode)
	return nil
}
