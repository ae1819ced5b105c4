// Package ragapi adapts a managed RAG corpus HTTP API to domain.Provider.
// The service indexes imported documents itself; retrieval queries are
// plain text and metadata filtering happens client-side in the usecases.
package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const providerName = "ragapi"

// Compile-time check: Client implements domain.Provider.
var _ domain.Provider = (*Client)(nil)

// Config holds connection parameters for the RAG API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is an HTTP client for the RAG corpus API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a RAG API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// SupportsMetadataFilter reports that the API cannot filter by metadata
// server-side, so callers must filter returned candidates themselves.
func (c *Client) SupportsMetadataFilter() bool { return false }

// doJSON performs one API call: marshals reqBody (when non-nil), maps
// non-2xx statuses to domain errors, and decodes into respBody (when
// non-nil). notFound is the sentinel returned for 404 on this path.
func (c *Client) doJSON(ctx context.Context, op, method, path string, reqBody, respBody any, notFound error) error {
	var payload io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerName, op, "error").Inc()
		return fmt.Errorf("%s %s: %v: %w", method, path, err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ProviderRequestsTotal.WithLabelValues(providerName, op, "error").Inc()
		return c.mapStatusError(resp, method, path, notFound)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerName, op, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(providerName, op).Observe(duration.Seconds())

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

// mapStatusError translates HTTP statuses into domain sentinels.
func (c *Client) mapStatusError(resp *http.Response, method, path string, notFound error) error {
	detail := readErrorDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, notFound)
	case http.StatusConflict:
		return fmt.Errorf("%s %s: %s: %w", method, path, detail, domain.ErrCorpusNotEmpty)
	default:
		return fmt.Errorf("%s %s returned %d: %s: %w",
			method, path, resp.StatusCode, detail, domain.ErrProviderUnavailable)
	}
}

// readErrorDetail extracts a message from an error body. The API wraps
// errors as {"error": {"message": ...}}; plain bodies pass through.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no detail"
	}

	var wire struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &wire) == nil && wire.Error.Message != "" {
		return wire.Error.Message
	}
	return strings.TrimSpace(string(data))
}
