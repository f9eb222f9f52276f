package signer

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// arweaveSaltLength is the PSS salt length used by Arweave signatures.
const arweaveSaltLength = 32

// jwk is the subset of an RSA JSON Web Key that an Arweave wallet file holds.
type jwk struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	D   string `json:"d"`
	P   string `json:"p"`
	Q   string `json:"q"`
	Dp  string `json:"dp"`
	Dq  string `json:"dq"`
	Qi  string `json:"qi"`
}

// ArweaveSigner signs with an Arweave RSA wallet key.
type ArweaveSigner struct {
	key     *rsa.PrivateKey
	owner   []byte // modulus bytes, the wallet "owner" field
	address string
}

// NewArweaveSigner parses an Arweave JWK wallet file.
func NewArweaveSigner(keyFile []byte) (*ArweaveSigner, error) {
	var k jwk
	if err := json.Unmarshal(keyFile, &k); err != nil {
		return nil, turboerr.Wrap(turboerr.ErrInvalidInput, "parsing wallet JWK")
	}
	if k.Kty != "RSA" || k.N == "" || k.D == "" {
		return nil, turboerr.WithSuggestion(turboerr.ErrInvalidInput, "wallet file is not an Arweave RSA key")
	}

	n, err := b64Int(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	e, err := b64Int(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}
	d, err := b64Int(k.D)
	if err != nil {
		return nil, fmt.Errorf("decoding private exponent: %w", err)
	}
	p, err := b64Int(k.P)
	if err != nil {
		return nil, fmt.Errorf("decoding prime p: %w", err)
	}
	q, err := b64Int(k.Q)
	if err != nil {
		return nil, fmt.Errorf("decoding prime q: %w", err)
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, turboerr.Wrap(turboerr.ErrInvalidInput, "invalid Arweave key")
	}

	owner := n.Bytes()

	// Arweave addresses are the base64url SHA-256 of the owner modulus.
	sum := sha256.Sum256(owner)
	address := base64.RawURLEncoding.EncodeToString(sum[:])

	return &ArweaveSigner{key: key, owner: owner, address: address}, nil
}

// Kind returns the arweave wallet kind.
func (s *ArweaveSigner) Kind() token.WalletKind {
	return token.KindArweave
}

// Address returns the base64url wallet address.
func (s *ArweaveSigner) Address() string {
	return s.address
}

// PublicKey returns the owner modulus bytes.
func (s *ArweaveSigner) PublicKey() []byte {
	return s.owner
}

// Owner returns the base64url-encoded owner field used in transactions.
func (s *ArweaveSigner) Owner() string {
	return base64.RawURLEncoding.EncodeToString(s.owner)
}

// SignMessage signs msg with RSA-PSS over SHA-256.
func (s *ArweaveSigner) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: arweaveSaltLength,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing with Arweave key")
	}
	return sig, nil
}

func b64Int(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
