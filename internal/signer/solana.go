package signer

import (
	"context"
	"strings"

	solana "github.com/gagliardetto/solana-go"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// SolanaSigner signs with an ed25519 Solana key.
type SolanaSigner struct {
	key solana.PrivateKey
}

// NewSolanaSigner parses a base58-encoded private key file.
func NewSolanaSigner(keyFile []byte) (*SolanaSigner, error) {
	key, err := solana.PrivateKeyFromBase58(strings.TrimSpace(string(keyFile)))
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrInvalidInput, "parsing Solana private key")
	}
	return &SolanaSigner{key: key}, nil
}

// Kind returns the solana wallet kind.
func (s *SolanaSigner) Kind() token.WalletKind {
	return token.KindSolana
}

// Address returns the base58 public key.
func (s *SolanaSigner) Address() string {
	return s.key.PublicKey().String()
}

// PublicKey returns the raw ed25519 public key bytes.
func (s *SolanaSigner) PublicKey() []byte {
	pk := s.key.PublicKey()
	return pk.Bytes()
}

// Key exposes the underlying private key for transaction signing.
func (s *SolanaSigner) Key() solana.PrivateKey {
	return s.key
}

// SignMessage signs msg with the ed25519 key.
func (s *SolanaSigner) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	sig, err := s.key.Sign(msg)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing with Solana key")
	}
	return sig[:], nil
}
