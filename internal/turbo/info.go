package turbo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// ServiceInfo is the payment service's public info payload. Addresses maps
// a wallet kind to the service's receiving wallet for manual transfers.
type ServiceInfo struct {
	Version              string            `json:"version"`
	Gateway              string            `json:"gateway"`
	Addresses            map[string]string `json:"addresses"`
	FreeUploadLimitBytes int64             `json:"freeUploadLimitBytes"`
}

// GetInfo returns the payment service's public info.
func (c *Client) GetInfo(ctx context.Context) (*ServiceInfo, error) {
	var info ServiceInfo
	if err := c.doJSON(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ReceivingAddress resolves the service's receiving wallet for a wallet
// kind. A manual transfer must never be sent to an address that the
// service did not publish.
func (c *Client) ReceivingAddress(ctx context.Context, kind token.WalletKind) (string, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return "", err
	}

	addr, ok := info.Addresses[string(kind)]
	if !ok || addr == "" {
		return "", turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"wallet": string(kind),
			"reason": "service did not publish a receiving address",
		})
	}
	return addr, nil
}

// GatewayInfo is the Arweave gateway's network info payload.
type GatewayInfo struct {
	Network string `json:"network"`
	Version int    `json:"version"`
	Release int    `json:"release"`
	Height  int64  `json:"height"`
	Peers   int    `json:"peers"`
}

// GetGatewayInfo queries {gateway}/info for network metadata. It uses the
// gateway URL the client was configured with.
func (c *Client) GetGatewayInfo(ctx context.Context) (*GatewayInfo, error) {
	if c.gatewayURL == "" {
		return nil, turboerr.WithSuggestion(turboerr.ErrConfigInvalid, "set network.gateway_url")
	}

	if err := c.rateLimiter.Wait(ctx, "/info"); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/info", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "calling gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		})
	}

	var info GatewayInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing gateway info: %w", err)
	}
	return &info, nil
}
