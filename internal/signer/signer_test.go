package signer

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/token"
)

// hardhat's well-known first dev account
const (
	testEthKey  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testEthAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestEthereumSigner_FromHex(t *testing.T) {
	t.Parallel()

	s, err := NewEthereumSigner([]byte(testEthKey))
	require.NoError(t, err)
	assert.Equal(t, testEthAddr, s.Address())
	assert.Equal(t, token.KindEthereum, s.Kind())

	// 0x prefix and surrounding whitespace are tolerated
	s2, err := NewEthereumSigner([]byte(" 0x" + testEthKey + "\n"))
	require.NoError(t, err)
	assert.Equal(t, testEthAddr, s2.Address())
}

func TestEthereumSigner_SignMessage(t *testing.T) {
	t.Parallel()

	s, err := NewEthereumSigner([]byte(testEthKey))
	require.NoError(t, err)

	sig, err := s.SignMessage(context.Background(), []byte("connect"))
	require.NoError(t, err)
	require.Len(t, sig, 65)
	// Legacy recovery id convention
	assert.Contains(t, []byte{27, 28}, sig[64])
}

func TestEthereumSigner_FromMnemonic(t *testing.T) {
	t.Parallel()

	// BIP39 reference mnemonic; m/44'/60'/0'/0/0 address is well known
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	s, err := NewEthereumSignerFromMnemonic(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", s.Address())
}

func TestEthereumSigner_InvalidMnemonic(t *testing.T) {
	t.Parallel()

	_, err := NewEthereumSignerFromMnemonic("not a valid mnemonic phrase at all")
	assert.Error(t, err)
}

func TestSolanaSigner_SignAndAddress(t *testing.T) {
	t.Parallel()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	s, err := NewSolanaSigner([]byte(key.String()))
	require.NoError(t, err)
	assert.Equal(t, token.KindSolana, s.Kind())
	assert.NotEmpty(t, s.Address())
	assert.Len(t, s.PublicKey(), 32)

	sig, err := s.SignMessage(context.Background(), []byte("connect"))
	require.NoError(t, err)
	assert.Len(t, sig, 64)
}

func TestSolanaSigner_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewSolanaSigner([]byte("not-base58-???"))
	assert.Error(t, err)
}

func TestArweaveSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwkJSON := jwkFromKey(t, key)

	s, err := NewArweaveSigner(jwkJSON)
	require.NoError(t, err)
	assert.Equal(t, token.KindArweave, s.Kind())

	// Address is the base64url SHA-256 of the owner modulus
	sum := sha256.Sum256(key.N.Bytes())
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), s.Address())

	msg := []byte("deep-hash-payload")
	sig, err := s.SignMessage(context.Background(), msg)
	require.NoError(t, err)

	digest := sha256.Sum256(msg)
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: arweaveSaltLength,
		Hash:       crypto.SHA256,
	})
	assert.NoError(t, err)
}

func TestArweaveSigner_RejectsNonRSA(t *testing.T) {
	t.Parallel()

	_, err := NewArweaveSigner([]byte(`{"kty":"EC","n":"","d":""}`))
	assert.Error(t, err)

	_, err = NewArweaveSigner([]byte(`not json`))
	assert.Error(t, err)
}

func TestFromKeyData_Dispatch(t *testing.T) {
	t.Parallel()

	s, err := FromKeyData(token.KindEthereum, []byte(testEthKey))
	require.NoError(t, err)
	assert.Equal(t, token.KindEthereum, s.Kind())

	_, err = FromKeyData("unknown", []byte("x"))
	assert.Error(t, err)
}

func jwkFromKey(t *testing.T, key *rsa.PrivateKey) []byte {
	t.Helper()

	enc := func(i *big.Int) string { return base64.RawURLEncoding.EncodeToString(i.Bytes()) }
	k := jwk{
		Kty: "RSA",
		N:   enc(key.N),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		D:   enc(key.D),
		P:   enc(key.Primes[0]),
		Q:   enc(key.Primes[1]),
	}
	data, err := json.Marshal(k)
	require.NoError(t, err)
	return data
}
