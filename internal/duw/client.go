package duw

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
)

// Maximum response size accepted from the status endpoint. The real
// payload is a few kilobytes.
const maxResponseBytes = 1 << 20

// Client fetches queue status from the reservation system.
type Client interface {
	// FetchStatus retrieves and decodes the current queue status.
	FetchStatus(ctx context.Context) (*Status, error)
}

type httpClient struct {
	url       string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient creates a status client from the monitor configuration.
func NewClient(cfg *config.MonitorConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// The endpoint's certificate chain does not verify with Go's
		// default roots.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &httpClient{
		url:       cfg.StatusURL,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		logger: logger.With("component", "duw_client"),
	}
}

// FetchStatus retrieves and decodes the current queue status.
func (c *httpClient) FetchStatus(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	// The endpoint refuses requests that look like scripts, so pretend
	// to be a browser.
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "max-age=0")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "Error closing status response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("status endpoint returned an empty body")
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	c.logger.DebugContext(ctx, "Fetched queue status",
		"bytes", len(body),
		"cities", len(status.Result),
		"duration", time.Since(start))

	return &status, nil
}
