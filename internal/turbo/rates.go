package turbo

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// ratesResponse is the service's conversion rates payload. The winc figure
// is the price of one GiB of storage.
type ratesResponse struct {
	Winc string             `json:"winc"`
	Fiat map[string]float64 `json:"fiat"`
}

// Rates holds the service's current conversion rates for one GiB.
type Rates struct {
	WincPerGiB *big.Int
	Fiat       map[string]float64
}

// GetRates returns the current storage conversion rates.
func (c *Client) GetRates(ctx context.Context) (*Rates, error) {
	var resp ratesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/rates", nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", turboerr.ErrPricingUnavailable, err)
	}

	winc, ok := new(big.Int).SetString(resp.Winc, 10)
	if !ok {
		return nil, turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"field": "winc",
			"value": resp.Winc,
		})
	}

	return &Rates{WincPerGiB: winc, Fiat: resp.Fiat}, nil
}
