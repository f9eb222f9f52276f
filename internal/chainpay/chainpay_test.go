package chainpay

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestDeepHash_Deterministic(t *testing.T) {
	t.Parallel()

	a := deepHash(blobChunk([]byte("hello")))
	b := deepHash(blobChunk([]byte("hello")))
	assert.Equal(t, a, b)

	c := deepHash(blobChunk([]byte("hellp")))
	assert.NotEqual(t, a, c)
}

func TestDeepHash_BlobAndListDiffer(t *testing.T) {
	t.Parallel()

	blob := deepHash(blobChunk([]byte("x")))
	list := deepHash(listChunk(blobChunk([]byte("x"))))
	assert.NotEqual(t, blob, list)

	// An empty list is not the same as an empty blob
	assert.NotEqual(t, deepHash(blobChunk(nil)), deepHash(listChunk()))
}

func TestDeepHash_OrderMatters(t *testing.T) {
	t.Parallel()

	ab := deepHash(listChunk(blobChunk([]byte("a")), blobChunk([]byte("b"))))
	ba := deepHash(listChunk(blobChunk([]byte("b")), blobChunk([]byte("a"))))
	assert.NotEqual(t, ab, ba)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.False(t, reg.IsSupported(token.KindSolana))

	reg.Register(token.KindSolana, func(_ context.Context) (Sender, error) {
		return NewSolanaSender("http://localhost:1", nil, nil), nil
	})

	assert.True(t, reg.IsSupported(token.KindSolana))
	assert.Len(t, reg.SupportedKinds(), 1)

	s, err := reg.SenderFor(context.Background(), token.Solana)
	require.NoError(t, err)
	assert.Equal(t, token.KindSolana, s.Kind())

	// An EVM token has no registered sender
	_, err = reg.SenderFor(context.Background(), token.Ethereum)
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestSolanaSender_RejectsBadInput(t *testing.T) {
	t.Parallel()

	key, err := solanaTestSigner()
	require.NoError(t, err)
	s := NewSolanaSender("http://localhost:1", key, nil)

	_, err = s.Send(context.Background(), Request{Token: token.Solana, To: "???", Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, turboerr.ErrInvalidAddress)

	_, err = s.Send(context.Background(), Request{Token: token.Solana, To: key.Address(), Amount: big.NewInt(0)})
	assert.ErrorIs(t, err, turboerr.ErrInvalidAmount)
}

func TestArweaveSender_SignsAndPostsVerifiableTx(t *testing.T) {
	t.Parallel()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	arSigner := arweaveTestSigner(t, rsaKey)

	serviceAddr := base64.RawURLEncoding.EncodeToString(make([]byte, 32))
	anchor := base64.RawURLEncoding.EncodeToString(make([]byte, 48))

	var posted arweaveTx
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/tx_anchor":
			_, _ = w.Write([]byte(anchor))
		case r.URL.Path == "/price/0/"+serviceAddr:
			_, _ = w.Write([]byte("65596"))
		case r.URL.Path == "/tx" && r.Method == http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			_, _ = w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	sender := NewArweaveSender(srv.URL, arSigner, nil)
	receipt, err := sender.Send(context.Background(), Request{
		Token:  token.Arweave,
		To:     serviceAddr,
		Amount: big.NewInt(1_500_000_000_000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.TxID)
	assert.Contains(t, receipt.ExplorerURL, receipt.TxID)

	// The posted transaction must be internally consistent
	assert.Equal(t, 2, posted.Format)
	assert.Equal(t, anchor, posted.LastTx)
	assert.Equal(t, serviceAddr, posted.Target)
	assert.Equal(t, "1500000000000", posted.Quantity)
	assert.Equal(t, "65596", posted.Reward)
	assert.Equal(t, "0", posted.DataSize)

	// ID is the SHA-256 of the signature
	sig, err := base64.RawURLEncoding.DecodeString(posted.Signature)
	require.NoError(t, err)
	idSum := sha256.Sum256(sig)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(idSum[:]), posted.ID)
	assert.Equal(t, posted.ID, receipt.TxID)

	// The signature verifies against the recomputed v2 payload
	target, err := base64.RawURLEncoding.DecodeString(posted.Target)
	require.NoError(t, err)
	lastTx, err := base64.RawURLEncoding.DecodeString(posted.LastTx)
	require.NoError(t, err)
	payload := listChunk(
		blobChunk([]byte("2")),
		blobChunk(arSigner.PublicKey()),
		blobChunk(target),
		blobChunk([]byte(posted.Quantity)),
		blobChunk([]byte(posted.Reward)),
		blobChunk(lastTx),
		listChunk(),
		blobChunk([]byte("0")),
		blobChunk([]byte{}),
	)
	payloadHash := deepHash(payload)
	digest := sha256.Sum256(payloadHash[:])
	err = rsa.VerifyPSS(&rsaKey.PublicKey, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: 32,
		Hash:       crypto.SHA256,
	})
	assert.NoError(t, err)
}

func TestArweaveSender_RejectsBadTarget(t *testing.T) {
	t.Parallel()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	sender := NewArweaveSender("http://localhost:1", arweaveTestSigner(t, rsaKey), nil)

	_, err = sender.Send(context.Background(), Request{Token: token.Arweave, To: "not-an-address!", Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, turboerr.ErrInvalidAddress)
}

func solanaTestSigner() (*signer.SolanaSigner, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return signer.NewSolanaSigner([]byte(key.String()))
}

func arweaveTestSigner(t *testing.T, key *rsa.PrivateKey) *signer.ArweaveSigner {
	t.Helper()

	enc := func(i *big.Int) string { return base64.RawURLEncoding.EncodeToString(i.Bytes()) }
	jwk := map[string]string{
		"kty": "RSA",
		"n":   enc(key.N),
		"e":   enc(big.NewInt(int64(key.E))),
		"d":   enc(key.D),
		"p":   enc(key.Primes[0]),
		"q":   enc(key.Primes[1]),
	}
	data, err := json.Marshal(jwk)
	require.NoError(t, err)

	s, err := signer.NewArweaveSigner(data)
	require.NoError(t, err)
	return s
}
