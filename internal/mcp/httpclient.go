package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
)

// HTTPClient fetches briefs from the NetGains REST API. Used for remote
// MCP mode and by the debug CLI, where the binary runs locally but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Brief calls GET /api/v1/brief on behalf of req.UserID.
func (c *HTTPClient) Brief(ctx context.Context, req brief.Request) (*brief.Response, error) {
	params := url.Values{}
	if req.EffectiveDate != "" {
		params.Set("date", req.EffectiveDate)
	}
	if req.Location != nil {
		params.Set("tz", req.Location.String())
	}

	headers := http.Header{}
	if req.UserID != uuid.Nil {
		headers.Set("X-User-ID", req.UserID.String())
	}

	body, err := c.get(ctx, "/api/v1/brief", params, headers)
	if err != nil {
		return nil, err
	}

	var resp brief.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode brief: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, headers http.Header) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
