package x402

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"math/big"
	"net/http"

	"github.com/ardriveapp/turbo-cli/internal/config"
	ethsigner "github.com/ardriveapp/turbo-cli/internal/signer"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// maxBody limits how much of a 402 body is read.
const maxBody = 64 << 10

// paymentHeader carries the signed payload on the retried request.
const paymentHeader = "X-PAYMENT"

// Client wraps an http.Client and answers 402 challenges with signed
// USDC authorizations. At most one payment is made per request.
type Client struct {
	httpClient *http.Client
	signer     *ethsigner.EthereumSigner
	maxAmount  *big.Int
	log        *config.Logger
}

// Options configures an x402 client.
type Options struct {
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
	// MaxAmount caps what a single request may cost, in the asset's
	// smallest unit (mUSDC). Nil means refuse all payments.
	MaxAmount *big.Int
	// Logger receives debug lines; nil means no logging.
	Logger *config.Logger
}

// NewClient creates an x402-aware HTTP client signing with the given key.
func NewClient(s *ethsigner.EthereumSigner, opts *Options) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		signer:     s,
		log:        config.NullLogger(),
	}
	if opts != nil {
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		c.maxAmount = opts.MaxAmount
		if opts.Logger != nil {
			c.log = opts.Logger
		}
	}
	return c
}

// Do issues the request, paying one 402 challenge if the server presents
// one. Requests with a body must set GetBody so the retry can replay it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusPaymentRequired {
		return resp, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	var challenge PaymentRequiredResponse
	if err := json.Unmarshal(body, &challenge); err != nil {
		return nil, turboerr.Wrap(turboerr.ErrPaymentRequired, "parsing payment requirements")
	}

	payload, err := c.answer(&challenge)
	if err != nil {
		return nil, err
	}

	retry, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set(paymentHeader, payload)

	return c.httpClient.Do(retry)
}

// answer selects a supportable requirement and signs it.
func (c *Client) answer(challenge *PaymentRequiredResponse) (string, error) {
	for i := range challenge.Accepts {
		req := &challenge.Accepts[i]
		if req.Scheme != SchemeExact {
			continue
		}
		if _, ok := chainIDs[req.Network]; !ok {
			continue
		}

		amount, ok := new(big.Int).SetString(req.MaxAmountRequired, 10)
		if !ok || amount.Sign() < 0 {
			continue
		}
		if c.maxAmount == nil || amount.Cmp(c.maxAmount) > 0 {
			return "", turboerr.WithDetails(turboerr.ErrPaymentLimitExceeded, map[string]string{
				"required": req.MaxAmountRequired,
				"resource": req.Resource,
			})
		}

		payload, err := signAuthorization(c.signer, req, amount)
		if err != nil {
			return "", err
		}

		c.log.Debug("answering 402 (network=%s, amount=%s, resource=%s)", req.Network, amount, req.Resource)

		data, err := json.Marshal(PaymentPayload{
			X402Version: Version,
			Scheme:      req.Scheme,
			Network:     req.Network,
			Payload:     payload,
		})
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(data), nil
	}

	return "", turboerr.WithDetails(turboerr.ErrPaymentRequired, map[string]string{
		"reason": "no supportable payment requirement offered",
	})
}

// cloneRequest produces a replayable copy of the request.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}
