package turbo

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// Adjustment is a fee or promotion applied by the service to a price.
type Adjustment struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Operator     string `json:"operator"`
	Value        any    `json:"operatorMagnitude,omitempty"`
	AdjustedWinc string `json:"adjustmentAmount,omitempty"`
}

// priceResponse is the service's price payload. Winc arrives as a decimal
// string; it can exceed int64 for large token amounts.
type priceResponse struct {
	Winc        string       `json:"winc"`
	Fees        []Adjustment `json:"fees"`
	Adjustments []Adjustment `json:"adjustments"`
}

// Price is a service quotation in winc.
type Price struct {
	Winc        *big.Int
	Fees        []Adjustment
	Adjustments []Adjustment
}

// GetWincForFiat returns the winc purchasable for a USD amount given in
// cents.
func (c *Client) GetWincForFiat(ctx context.Context, usdCents int64) (*Price, error) {
	if usdCents <= 0 {
		return nil, turboerr.ErrInvalidAmount
	}
	return c.getPrice(ctx, fmt.Sprintf("/v1/price/usd/%d", usdCents))
}

// GetWincForToken returns the winc credited for a token amount given in the
// token's smallest unit.
func (c *Client) GetWincForToken(ctx context.Context, id token.ID, amount *big.Int) (*Price, error) {
	if !id.IsValid() {
		return nil, turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"token": string(id)})
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, turboerr.ErrInvalidAmount
	}
	return c.getPrice(ctx, fmt.Sprintf("/v1/price/%s/%s", url.PathEscape(string(id)), amount.String()))
}

func (c *Client) getPrice(ctx context.Context, path string) (*Price, error) {
	var resp priceResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", turboerr.ErrPricingUnavailable, err)
	}

	winc, ok := new(big.Int).SetString(resp.Winc, 10)
	if !ok {
		return nil, turboerr.WithDetails(turboerr.ErrPricingUnavailable, map[string]string{
			"winc": truncateBody(resp.Winc, 64),
		})
	}

	return &Price{Winc: winc, Fees: resp.Fees, Adjustments: resp.Adjustments}, nil
}
