// Package chainpay submits native token transfers to the supported
// chains. It is the first half of a manual crypto top-up: move tokens on
// chain to the payment service's receiving wallet, then hand the
// transaction ID to the service for crediting.
package chainpay

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// Request describes a transfer to the payment service's wallet.
type Request struct {
	// Token selects the chain and unit semantics.
	Token token.ID
	// To is the service's receiving address for the token's wallet kind.
	To string
	// Amount is in the token's smallest unit.
	Amount *big.Int
}

// Receipt records a submitted transfer.
type Receipt struct {
	TxID        string
	ExplorerURL string
}

// Sender submits transfers for one wallet kind.
type Sender interface {
	// Kind returns the wallet kind this sender covers.
	Kind() token.WalletKind
	// Send submits the transfer and returns once the transaction has been
	// accepted by the network. It does not wait for confirmation.
	Send(ctx context.Context, req Request) (*Receipt, error)
}

// Creator builds a sender for a wallet kind.
type Creator func(ctx context.Context) (Sender, error)

// ErrUnsupportedChain indicates no sender is registered for a wallet kind.
var ErrUnsupportedChain = &turboerr.TurboError{
	Code:     "UNSUPPORTED_CHAIN",
	Message:  "no transfer support for this wallet kind",
	ExitCode: turboerr.ExitInput,
}

// Registry maps wallet kinds to sender creators. Senders are created
// lazily because EVM and Solana clients dial their RPC endpoint.
type Registry struct {
	creators map[token.WalletKind]Creator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{creators: make(map[token.WalletKind]Creator)}
}

// Register adds a sender creator for the given wallet kind.
func (r *Registry) Register(kind token.WalletKind, creator Creator) {
	r.creators[kind] = creator
}

// SenderFor creates a sender for the wallet kind of the given token.
func (r *Registry) SenderFor(ctx context.Context, id token.ID) (Sender, error) {
	kind := id.WalletKind()
	creator, ok := r.creators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, kind)
	}
	return creator(ctx)
}

// IsSupported returns true if the wallet kind has a registered creator.
func (r *Registry) IsSupported(kind token.WalletKind) bool {
	_, ok := r.creators[kind]
	return ok
}

// SupportedKinds returns all registered wallet kinds.
func (r *Registry) SupportedKinds() []token.WalletKind {
	kinds := make([]token.WalletKind, 0, len(r.creators))
	for kind := range r.creators {
		kinds = append(kinds, kind)
	}
	return kinds
}
