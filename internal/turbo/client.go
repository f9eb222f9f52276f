// Package turbo provides the payment service HTTP client.
//
// The payment service prices storage in winc, sells Turbo Credits via
// checkout sessions, credits submitted crypto transactions, and redeems
// gift codes. This client covers the endpoints the CLI consumes; the
// upload surface is out of scope.
package turbo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/metrics"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

const (
	// httpTimeout is the default HTTP request timeout.
	httpTimeout = 30 * time.Second

	// maxResponseBody is the maximum response body size to read (1 MB).
	maxResponseBody = 1 << 20
)

// Client talks to a Turbo payment service instance.
type Client struct {
	baseURL     string
	gatewayURL  string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	metrics     *metrics.Metrics
}

// ClientOptions configures the payment service client.
type ClientOptions struct {
	// GatewayURL is the Arweave gateway queried for network info.
	GatewayURL string
	// HTTPClient overrides the default HTTP client (useful for testing).
	HTTPClient *http.Client
	// RateLimiter overrides the default per-endpoint limiter.
	RateLimiter *RateLimiter
}

// NewClient creates a payment service client for the given base URL.
func NewClient(baseURL string, opts *ClientOptions) (*Client, error) {
	if baseURL == "" {
		return nil, turboerr.WithSuggestion(turboerr.ErrConfigInvalid, "set network.payment_url or run 'turbo config set network.profile production'")
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		rateLimiter: DefaultRateLimiter(),
		metrics:     metrics.Global,
	}

	if opts != nil {
		if opts.GatewayURL != "" {
			c.gatewayURL = opts.GatewayURL
		}
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		if opts.RateLimiter != nil {
			c.rateLimiter = opts.RateLimiter
		}
	}

	return c, nil
}

// BaseURL returns the payment service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON performs a request against the payment service, decoding a JSON
// response body into out. A nil body means GET; otherwise the body is sent
// as JSON with the given method.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any) error {
	if err := c.rateLimiter.Wait(ctx, path); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.RecordServiceCall(time.Since(start), err)
	if err != nil {
		return turboerr.Wrap(turboerr.ErrNetworkError, "calling payment service")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if err := c.checkStatus(resp, body); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// checkStatus maps non-2xx service responses onto sentinel errors so
// callers can branch on the class of failure rather than the status code.
func (c *Client) checkStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := ParseRetryAfter(resp.Header.Get("Retry-After"))
		return turboerr.WithDetails(ErrRateLimited, map[string]string{
			"retry_after": retryAfter.String(),
		})
	case resp.StatusCode == http.StatusNotFound:
		return turboerr.WithDetails(turboerr.ErrNotFound, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		})
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return turboerr.WithDetails(turboerr.ErrServiceUnavailable, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		})
	default:
		return turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
			"body":   truncateBody(string(body), 512),
		})
	}
}

// truncateBody truncates a string to maxLen characters.
func truncateBody(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
