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

// Fund transaction statuses reported by the service.
const (
	FundStatusPending   = "pending"
	FundStatusConfirmed = "confirmed"
	FundStatusFailed    = "failed"
)

// fundRequest is the body for a fund-transaction submission.
type fundRequest struct {
	TxID string `json:"tx_id"`
}

// fundResponse is the service's credited-transaction payload.
type fundResponse struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Token    string `json:"token"`
	Winc     string `json:"creditedTransactionWinc"`
	Quantity string `json:"quantity"`
	Status   string `json:"status"`
}

// FundResult is the service's record of a credited transaction. Winc is nil
// when the service did not report a credited amount.
type FundResult struct {
	ID       string
	Owner    string
	Token    string
	Winc     *big.Int
	Quantity string
	Status   string
}

// SubmitFundTransaction asks the service to credit a previously submitted
// native transaction. A "failed" status from the service is terminal for
// this attempt; callers must not retry it automatically.
func (c *Client) SubmitFundTransaction(ctx context.Context, id token.ID, txID string) (*FundResult, error) {
	if !id.IsValid() {
		return nil, turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"token": string(id)})
	}
	if txID == "" {
		return nil, turboerr.ErrInvalidTransactionID
	}

	path := fmt.Sprintf("/v1/account/balance/%s", url.PathEscape(string(id)))

	var resp fundResponse
	if err := c.doJSON(ctx, http.MethodPost, path, fundRequest{TxID: txID}, &resp); err != nil {
		return nil, err
	}

	result := &FundResult{
		ID:       resp.ID,
		Owner:    resp.Owner,
		Token:    resp.Token,
		Quantity: resp.Quantity,
		Status:   resp.Status,
	}
	if resp.Winc != "" {
		if w, ok := new(big.Int).SetString(resp.Winc, 10); ok {
			result.Winc = w
		}
	}

	if result.Status == FundStatusFailed {
		return result, turboerr.WithDetails(turboerr.ErrTopUpFailed, map[string]string{
			"tx_id": txID,
		})
	}

	return result, nil
}

// CheckoutSession is a hosted fiat checkout created by the service.
type CheckoutSession struct {
	ID   string
	URL  string
	Winc *big.Int
}

// checkoutResponse is the service's checkout-session payload.
type checkoutResponse struct {
	PaymentSession struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"paymentSession"`
	TopUpQuote struct {
		WincAmount string `json:"winstonCreditAmount"`
	} `json:"topUpQuote"`
}

// CreateCheckoutSession creates a hosted checkout session crediting the
// given address with the winc purchasable for usdCents.
func (c *Client) CreateCheckoutSession(ctx context.Context, address string, usdCents int64) (*CheckoutSession, error) {
	if address == "" {
		return nil, turboerr.ErrInvalidAddress
	}
	if usdCents <= 0 {
		return nil, turboerr.ErrInvalidAmount
	}

	path := fmt.Sprintf("/v1/top-up/checkout-session/%s/usd/%d", url.PathEscape(address), usdCents)

	var resp checkoutResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	session := &CheckoutSession{
		ID:  resp.PaymentSession.ID,
		URL: resp.PaymentSession.URL,
	}
	if resp.TopUpQuote.WincAmount != "" {
		if w, ok := new(big.Int).SetString(resp.TopUpQuote.WincAmount, 10); ok {
			session.Winc = w
		}
	}
	return session, nil
}

// redeemResponse is the service's gift-redemption payload.
type redeemResponse struct {
	Message     string `json:"message"`
	UserBalance string `json:"userBalance"`
}

// RedeemResult reports a successful gift redemption.
type RedeemResult struct {
	Message string
	Balance *big.Int
}

// RedeemGift redeems a gift code for the given destination address. The
// email must match the one the gift was sent to.
func (c *Client) RedeemGift(ctx context.Context, giftCode, email, destination string) (*RedeemResult, error) {
	if giftCode == "" || destination == "" {
		return nil, turboerr.ErrInvalidInput
	}

	q := url.Values{}
	q.Set("id", giftCode)
	q.Set("email", email)
	q.Set("destinationAddress", destination)

	var resp redeemResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/redeem?"+q.Encode(), nil, &resp); err != nil {
		if turboerr.Is(err, turboerr.ErrNotFound) {
			return nil, turboerr.WithDetails(turboerr.ErrGiftNotFound, map[string]string{"id": giftCode})
		}
		return nil, err
	}

	result := &RedeemResult{Message: resp.Message}
	if resp.UserBalance != "" {
		if b, ok := new(big.Int).SetString(resp.UserBalance, 10); ok {
			result.Balance = b
		}
	}
	return result, nil
}
