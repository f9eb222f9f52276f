package chainpay

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// transferGasLimit is the fixed gas cost of a plain value transfer.
const transferGasLimit = 21000

// EVMSender submits native transfers on an EVM chain. One sender is bound
// to one RPC endpoint and therefore one chain.
type EVMSender struct {
	client  *ethclient.Client
	signer  *signer.EthereumSigner
	chainID *big.Int
	log     *config.Logger
}

// NewEVMSender dials the RPC endpoint and verifies its chain ID matches
// the one the token settles on. A mismatched endpoint would send funds on
// the wrong chain.
func NewEVMSender(ctx context.Context, rpcURL string, id token.ID, s *signer.EthereumSigner, log *config.Logger) (*EVMSender, error) {
	if log == nil {
		log = config.NullLogger()
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "dialing %s RPC", id)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "querying chain id")
	}

	if want := id.ChainID(); want != 0 && chainID.Int64() != want {
		client.Close()
		return nil, turboerr.WithDetails(turboerr.ErrConfigInvalid, map[string]string{
			"rpc_chain_id":      chainID.String(),
			"expected_chain_id": fmt.Sprintf("%d", want),
		})
	}

	return &EVMSender{client: client, signer: s, chainID: chainID, log: log}, nil
}

// Kind returns the ethereum wallet kind.
func (s *EVMSender) Kind() token.WalletKind {
	return token.KindEthereum
}

// Send submits a signed value transfer and returns its hash.
func (s *EVMSender) Send(ctx context.Context, req Request) (*Receipt, error) {
	if !common.IsHexAddress(req.To) {
		return nil, turboerr.WithDetails(turboerr.ErrInvalidAddress, map[string]string{"address": req.To})
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, turboerr.ErrInvalidAmount
	}

	from := crypto.PubkeyToAddress(s.signer.PrivateKey().PublicKey)

	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "fetching nonce")
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "fetching gas price")
	}

	to := common.HexToAddress(req.To)
	tx := types.NewTransaction(nonce, to, req.Amount, transferGasLimit, gasPrice, nil)

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.signer.PrivateKey())
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing transaction")
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		s.log.Error("evm send rejected (chain=%s): %v", s.chainID, err)
		return nil, turboerr.Wrap(turboerr.ErrTxRejected, "broadcasting transaction")
	}

	txid := signed.Hash().Hex()
	s.log.Debug("evm transfer submitted (chain=%s, tx=%s)", s.chainID, txid)

	return &Receipt{
		TxID:        txid,
		ExplorerURL: req.Token.ExplorerTxURL(txid),
	}, nil
}

// Close releases the RPC connection.
func (s *EVMSender) Close() {
	s.client.Close()
}

var _ Sender = (*EVMSender)(nil)
