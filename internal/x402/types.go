// Package x402 implements the client half of the x402 payment-required
// protocol: a 402 response advertises payment requirements, the client
// answers with a signed EIP-3009 USDC authorization in the X-PAYMENT
// header, and the request is retried.
package x402

// Version is the x402 protocol version this client speaks.
const Version = 1

// SchemeExact is the only payment scheme supported: a fixed amount
// transferred with a single authorization.
const SchemeExact = "exact"

// PaymentRequirements describes one way the server accepts payment.
type PaymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	Resource          string `json:"resource"`
	Description       string `json:"description"`
	PayTo             string `json:"payTo"`
	Asset             string `json:"asset"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
	Extra             *Extra `json:"extra,omitempty"`
}

// Extra carries the EIP-712 domain parameters of the asset contract.
type Extra struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PaymentRequiredResponse is the body of a 402 response.
type PaymentRequiredResponse struct {
	X402Version int                   `json:"x402Version"`
	Accepts     []PaymentRequirements `json:"accepts"`
	Error       string                `json:"error,omitempty"`
}

// Authorization contains the EIP-3009 transferWithAuthorization
// parameters.
type Authorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// EVMPayload is the signed payload for EVM networks.
type EVMPayload struct {
	Signature     string         `json:"signature"`
	Authorization *Authorization `json:"authorization"`
}

// PaymentPayload is the X-PAYMENT header content, base64-encoded JSON.
type PaymentPayload struct {
	X402Version int         `json:"x402Version"`
	Scheme      string      `json:"scheme"`
	Network     string      `json:"network"`
	Payload     *EVMPayload `json:"payload"`
}
