package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client proxies reads and writes against a remote JSON key/value store.
// The upstream speaks plain HTTP with JSON bodies; the client passes
// payloads through untouched.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new mirror client. path is the document path under
// the store root, e.g. "/userdata.json".
func NewClient(baseURL, path string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		path:    path,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch reads the mirrored document and returns the raw JSON payload
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Mirror fetch failed", zap.Error(err))
		return nil, fmt.Errorf("mirror fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Mirror returned non-success status",
			zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}

	return body, nil
}

// Store writes the raw JSON payload to the mirrored document and returns
// the upstream response body
func (c *Client) Store(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Mirror store failed", zap.Error(err))
		return nil, fmt.Errorf("mirror store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Mirror returned non-success status",
			zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}

	c.logger.Info("Mirror document updated", zap.Int("bytes", len(payload)))
	return body, nil
}
