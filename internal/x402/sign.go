package x402

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	ethsigner "github.com/ardriveapp/turbo-cli/internal/signer"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// chainIDs maps x402 network names to EVM chain IDs.
var chainIDs = map[string]int64{
	"ethereum":     1,
	"base":         8453,
	"base-sepolia": 84532,
	"polygon":      137,
}

// validitySkew backdates validAfter so minor clock drift between client
// and settlement does not invalidate the authorization.
const validitySkew = 60 * time.Second

// signAuthorization builds and signs an EIP-3009 TransferWithAuthorization
// typed-data message for the given requirements.
func signAuthorization(s *ethsigner.EthereumSigner, req *PaymentRequirements, value *big.Int) (*EVMPayload, error) {
	chainID, ok := chainIDs[req.Network]
	if !ok {
		return nil, turboerr.WithDetails(turboerr.ErrPaymentRequired, map[string]string{
			"network": req.Network,
			"reason":  "unsupported network",
		})
	}

	domainName := "USD Coin"
	domainVersion := "2"
	if req.Extra != nil {
		if req.Extra.Name != "" {
			domainName = req.Extra.Name
		}
		if req.Extra.Version != "" {
			domainVersion = req.Extra.Version
		}
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	now := time.Now()
	validAfter := now.Add(-validitySkew).Unix()
	timeout := req.MaxTimeoutSeconds
	if timeout <= 0 {
		timeout = 300
	}
	validBefore := now.Add(time.Duration(timeout) * time.Second).Unix()

	auth := &Authorization{
		From:        s.Address(),
		To:          req.PayTo,
		Value:       value.String(),
		ValidAfter:  fmt.Sprintf("%d", validAfter),
		ValidBefore: fmt.Sprintf("%d", validBefore),
		Nonce:       hexutil.Encode(nonce[:]),
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": {
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: req.Asset,
		},
		Message: apitypes.TypedDataMessage{
			"from":        auth.From,
			"to":          auth.To,
			"value":       auth.Value,
			"validAfter":  auth.ValidAfter,
			"validBefore": auth.ValidBefore,
			"nonce":       auth.Nonce,
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("hashing typed data: %w", err)
	}

	sig, err := crypto.Sign(hash, s.PrivateKey())
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing authorization")
	}
	// ecrecover-style v
	sig[64] += 27

	return &EVMPayload{
		Signature:     hexutil.Encode(sig),
		Authorization: auth,
	}, nil
}
