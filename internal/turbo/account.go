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

// balanceResponse is the service's account balance payload.
type balanceResponse struct {
	Winc           string `json:"winc"`
	ControlledWinc string `json:"controlledWinc"`
	EffectiveWinc  string `json:"effectiveBalance"`
}

// Balance is an account's credit balance in winc.
type Balance struct {
	// Winc is the spendable balance.
	Winc *big.Int
	// EffectiveWinc includes shared-credit approvals received from others.
	EffectiveWinc *big.Int
}

// GetBalance returns the credit balance for an address. The token selects
// the address format the service resolves the account by.
func (c *Client) GetBalance(ctx context.Context, id token.ID, address string) (*Balance, error) {
	if !id.IsValid() {
		return nil, turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"token": string(id)})
	}
	if address == "" {
		return nil, turboerr.ErrInvalidAddress
	}

	path := fmt.Sprintf("/v1/account/balance/%s?address=%s", url.PathEscape(string(id)), url.QueryEscape(address))

	var resp balanceResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		// A fresh address has no account record yet; that is a zero
		// balance, not an error.
		if turboerr.Is(err, turboerr.ErrNotFound) {
			return &Balance{Winc: big.NewInt(0), EffectiveWinc: big.NewInt(0)}, nil
		}
		return nil, err
	}

	winc, ok := new(big.Int).SetString(resp.Winc, 10)
	if !ok {
		return nil, turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"winc": truncateBody(resp.Winc, 64),
		})
	}

	effective := winc
	if resp.EffectiveWinc != "" {
		if e, ok := new(big.Int).SetString(resp.EffectiveWinc, 10); ok {
			effective = e
		}
	}

	return &Balance{Winc: winc, EffectiveWinc: effective}, nil
}
