package chainpay

import (
	"context"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// SolanaSender submits SOL system transfers.
type SolanaSender struct {
	client *rpc.Client
	signer *signer.SolanaSigner
	log    *config.Logger
}

// NewSolanaSender creates a sender against the given RPC endpoint.
func NewSolanaSender(rpcURL string, s *signer.SolanaSigner, log *config.Logger) *SolanaSender {
	if log == nil {
		log = config.NullLogger()
	}
	return &SolanaSender{client: rpc.New(rpcURL), signer: s, log: log}
}

// Kind returns the solana wallet kind.
func (s *SolanaSender) Kind() token.WalletKind {
	return token.KindSolana
}

// Send submits a lamport transfer and returns its signature.
func (s *SolanaSender) Send(ctx context.Context, req Request) (*Receipt, error) {
	toPubkey, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, turboerr.WithDetails(turboerr.ErrInvalidAddress, map[string]string{"address": req.To})
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 || !req.Amount.IsUint64() {
		return nil, turboerr.ErrInvalidAmount
	}
	lamports := req.Amount.Uint64()

	key := s.signer.Key()
	fromPubkey := key.PublicKey()

	recent, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrNetworkError, "fetching recent blockhash")
	}

	transfer := system.NewTransferInstruction(lamports, fromPubkey, toPubkey).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transfer},
		recent.Value.Blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrTxRejected, "building transaction")
	}

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if fromPubkey.Equals(pub) {
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "signing transaction")
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		s.log.Error("solana send rejected: %v", err)
		return nil, turboerr.Wrap(turboerr.ErrTxRejected, "broadcasting transaction")
	}

	txid := sig.String()
	s.log.Debug("solana transfer submitted (tx=%s)", txid)

	return &Receipt{
		TxID:        txid,
		ExplorerURL: req.Token.ExplorerTxURL(txid),
	}, nil
}

var _ Sender = (*SolanaSender)(nil)
