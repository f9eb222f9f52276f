package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// EthereumSigner signs with a secp256k1 key. It covers every EVM-settled
// token (ethereum, base-eth, matic, base-usdc, kyve).
type EthereumSigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewEthereumSigner parses a hex-encoded private key file.
func NewEthereumSigner(keyFile []byte) (*EthereumSigner, error) {
	hexKey := strings.TrimSpace(string(keyFile))
	hexKey = strings.TrimPrefix(hexKey, "0x")

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrInvalidInput, "parsing Ethereum private key")
	}

	return newEthereumSignerFromKey(key), nil
}

// NewEthereumSignerFromMnemonic derives the standard m/44'/60'/0'/0/0 key
// from a BIP39 mnemonic.
func NewEthereumSignerFromMnemonic(mnemonic string) (*EthereumSigner, error) {
	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), "")
	if err != nil {
		return nil, turboerr.ErrInvalidMnemonic
	}

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}

	// m/44'/60'/0'/0/0
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild + 0,
		0,
		0,
	}

	child := master
	for _, idx := range path {
		child, err = child.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("deriving child key: %w", err)
		}
	}

	key, err := crypto.ToECDSA(child.Key)
	if err != nil {
		return nil, fmt.Errorf("converting derived key: %w", err)
	}

	return newEthereumSignerFromKey(key), nil
}

func newEthereumSignerFromKey(key *ecdsa.PrivateKey) *EthereumSigner {
	return &EthereumSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

// Kind returns the ethereum wallet kind.
func (s *EthereumSigner) Kind() token.WalletKind {
	return token.KindEthereum
}

// Address returns the checksummed 0x address.
func (s *EthereumSigner) Address() string {
	return s.address
}

// PublicKey returns the uncompressed secp256k1 public key bytes.
func (s *EthereumSigner) PublicKey() []byte {
	return crypto.FromECDSAPub(&s.key.PublicKey)
}

// PrivateKey exposes the underlying key for transaction signing.
func (s *EthereumSigner) PrivateKey() *ecdsa.PrivateKey {
	return s.key
}

// SignMessage signs msg as an EIP-191 personal message.
func (s *EthereumSigner) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	hash := crypto.Keccak256([]byte(prefixed))

	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing with Ethereum key")
	}

	// Shift the recovery id to the legacy 27/28 convention
	sig[64] += 27
	return sig, nil
}
