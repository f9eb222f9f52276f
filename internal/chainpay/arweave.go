package chainpay

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// arweaveTx is the gateway's v2 transaction wire format. Binary fields
// are base64url without padding.
type arweaveTx struct {
	Format    int          `json:"format"`
	ID        string       `json:"id"`
	LastTx    string       `json:"last_tx"`
	Owner     string       `json:"owner"`
	Tags      []arweaveTag `json:"tags"`
	Target    string       `json:"target"`
	Quantity  string       `json:"quantity"`
	Data      string       `json:"data"`
	DataSize  string       `json:"data_size"`
	DataRoot  string       `json:"data_root"`
	Reward    string       `json:"reward"`
	Signature string       `json:"signature"`
}

type arweaveTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ArweaveSender submits winston transfers through an Arweave gateway.
// There is no maintained Go SDK for plain v2 transfers, so this builds
// the transaction against the gateway HTTP API directly.
type ArweaveSender struct {
	gatewayURL string
	httpClient *http.Client
	signer     *signer.ArweaveSigner
	log        *config.Logger
}

// NewArweaveSender creates a sender against the given gateway.
func NewArweaveSender(gatewayURL string, s *signer.ArweaveSigner, log *config.Logger) *ArweaveSender {
	if log == nil {
		log = config.NullLogger()
	}
	return &ArweaveSender{
		gatewayURL: strings.TrimSuffix(gatewayURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		signer: s,
		log:    log,
	}
}

// Kind returns the arweave wallet kind.
func (s *ArweaveSender) Kind() token.WalletKind {
	return token.KindArweave
}

// Send builds, signs, and posts a v2 transfer transaction.
func (s *ArweaveSender) Send(ctx context.Context, req Request) (*Receipt, error) {
	target, err := base64.RawURLEncoding.DecodeString(req.To)
	if err != nil || len(target) != 32 {
		return nil, turboerr.WithDetails(turboerr.ErrInvalidAddress, map[string]string{"address": req.To})
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, turboerr.ErrInvalidAmount
	}

	anchor, err := s.getText(ctx, "/tx_anchor")
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "fetching tx anchor")
	}

	// Reward for a zero-data transfer to this target.
	reward, err := s.getText(ctx, "/price/0/"+url.PathEscape(req.To))
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "fetching reward price")
	}

	quantity := req.Amount.String()
	lastTx, err := base64.RawURLEncoding.DecodeString(anchor)
	if err != nil {
		return nil, fmt.Errorf("decoding tx anchor: %w", err)
	}

	// v2 signature payload: format, owner, target, quantity, reward,
	// last_tx, tags, data_size, data_root.
	payload := listChunk(
		blobChunk([]byte("2")),
		blobChunk(s.signer.PublicKey()),
		blobChunk(target),
		blobChunk([]byte(quantity)),
		blobChunk([]byte(reward)),
		blobChunk(lastTx),
		listChunk(),
		blobChunk([]byte("0")),
		blobChunk([]byte{}),
	)
	digest := deepHash(payload)

	sig, err := s.signer.SignMessage(ctx, digest[:])
	if err != nil {
		return nil, err
	}

	id := sha256.Sum256(sig)
	txid := base64.RawURLEncoding.EncodeToString(id[:])

	tx := arweaveTx{
		Format:    2,
		ID:        txid,
		LastTx:    anchor,
		Owner:     s.signer.Owner(),
		Tags:      []arweaveTag{},
		Target:    req.To,
		Quantity:  quantity,
		Data:      "",
		DataSize:  "0",
		DataRoot:  "",
		Reward:    reward,
		Signature: base64.RawURLEncoding.EncodeToString(sig),
	}

	if err := s.postTx(ctx, &tx); err != nil {
		s.log.Error("arweave send rejected: %v", err)
		return nil, turboerr.Wrap(turboerr.ErrTxRejected, "broadcasting transaction")
	}

	s.log.Debug("arweave transfer submitted (tx=%s)", txid)

	return &Receipt{
		TxID:        txid,
		ExplorerURL: req.Token.ExplorerTxURL(txid),
	}, nil
}

func (s *ArweaveSender) getText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.gatewayURL+path, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %d for %s", resp.StatusCode, path)
	}
	return strings.TrimSpace(string(body)), nil
}

func (s *ArweaveSender) postTx(ctx context.Context, tx *arweaveTx) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/tx", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway rejected transaction: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

var _ Sender = (*ArweaveSender)(nil)
