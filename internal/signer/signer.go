// Package signer obtains and caches wallet signers so key material is loaded
// (and the user prompted for a passphrase) at most once per wallet and
// network configuration per process.
package signer

import (
	"context"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/token"
)

// Signer signs messages for one wallet.
type Signer interface {
	// Kind returns the wallet family of this signer.
	Kind() token.WalletKind

	// Address returns the wallet's native address string.
	Address() string

	// PublicKey returns the raw public key bytes.
	PublicKey() []byte

	// SignMessage signs an arbitrary message with the wallet key.
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// CachedSigner is a signer bound to the configuration it was created under.
type CachedSigner struct {
	Signer    Signer
	Address   string
	ConfigKey string
	CreatedAt time.Time
}

// Key identifies a cache slot: one signer per wallet kind and network
// configuration.
type Key struct {
	Kind      token.WalletKind
	ConfigKey string
}

func (k Key) String() string {
	return string(k.Kind) + "|" + k.ConfigKey
}

// OpenFunc performs the one-time signer creation: load the key file, prompt
// for a passphrase if needed, derive the address and public key.
type OpenFunc func(ctx context.Context) (Signer, error)

// PassphraseFunc supplies a passphrase for an encrypted key file.
type PassphraseFunc func(prompt string) (string, error)
