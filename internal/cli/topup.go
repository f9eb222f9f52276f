package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/chainpay"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/store"
	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/topup"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	"github.com/ardriveapp/turbo-cli/internal/watch"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// topUpToken is the token to pay with.
	topUpToken string
	// topUpAmount is the amount in whole tokens.
	topUpAmount string
	// topUpYes skips the confirmation prompt.
	topUpYes bool
	// topUpTxID is the already-sent transaction to resume with.
	topUpTxID string
	// topUpUSD is the fiat amount for hosted checkout, in dollars.
	topUpUSD string
	// topUpGift sends the purchased credits to someone else.
	topUpGift bool
	// topUpRecipient is the gift recipient's email address.
	topUpRecipient string
)

// topUpCmd is the parent command for top-up operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var topUpCmd = &cobra.Command{
	Use:   "topup",
	Short: "Buy credits",
	Long: `Buy Turbo credits with crypto or a hosted fiat checkout.

Crypto top-ups run in two phases: the tokens are sent to the service's
published receiving address, then the transaction id is submitted to the
service for crediting. If the second phase is interrupted, resume it with
'turbo topup resume'.`,
}

// topUpCryptoCmd performs a manual crypto top-up.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var topUpCryptoCmd = &cobra.Command{
	Use:   "crypto",
	Short: "Top up with a crypto transfer",
	Example: `  turbo topup crypto --token solana --amount 0.5
  turbo topup crypto --token ethereum --amount 0.01 --yes`,
	RunE: runTopUpCrypto,
}

// topUpResumeCmd re-enters the service submission phase.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var topUpResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an interrupted crypto top-up",
	Long: `Resume an interrupted crypto top-up by submitting an already-sent
transaction id to the service for crediting. The tokens must have been
sent to the service's receiving address.`,
	Example: `  turbo topup resume --token ethereum --txid 0xabc...`,
	RunE:    runTopUpResume,
}

// topUpCheckoutCmd buys credits with fiat through hosted checkout.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var topUpCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Buy credits with a card via hosted checkout",
	Example: `  turbo topup checkout --usd 25
  turbo topup checkout --usd 10 --gift --recipient friend@example.com`,
	RunE: runTopUpCheckout,
}

// TopUpResult is the output of the crypto and resume commands.
type TopUpResult struct {
	Token        string `json:"token"`
	TxID         string `json:"tx_id"`
	ExplorerURL  string `json:"explorer_url,omitempty"`
	CreditedWinc string `json:"credited_winc,omitempty"`
	Credits      string `json:"credits,omitempty"`
	Status       string `json:"status"`
	Resumed      bool   `json:"resumed,omitempty"`
}

// CheckoutResult is the output of the checkout command.
type CheckoutResult struct {
	URL     string `json:"url"`
	USD     string `json:"usd"`
	Winc    string `json:"winc,omitempty"`
	Credits string `json:"credits,omitempty"`
	Gift    bool   `json:"gift,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(topUpCmd)
	topUpCmd.AddCommand(topUpCryptoCmd)
	topUpCmd.AddCommand(topUpResumeCmd)
	topUpCmd.AddCommand(topUpCheckoutCmd)

	topUpCryptoCmd.Flags().StringVar(&topUpToken, "token", "", "token to pay with (required)")
	topUpCryptoCmd.Flags().StringVar(&topUpAmount, "amount", "", "amount in whole tokens (required)")
	topUpCryptoCmd.Flags().BoolVar(&topUpYes, "yes", false, "skip the confirmation prompt")
	_ = topUpCryptoCmd.MarkFlagRequired("token")
	_ = topUpCryptoCmd.MarkFlagRequired("amount")

	topUpResumeCmd.Flags().StringVar(&topUpToken, "token", "", "token the transfer was made in (required)")
	topUpResumeCmd.Flags().StringVar(&topUpTxID, "txid", "", "transaction id of the sent transfer (required)")
	_ = topUpResumeCmd.MarkFlagRequired("token")
	_ = topUpResumeCmd.MarkFlagRequired("txid")

	topUpCheckoutCmd.Flags().StringVar(&topUpUSD, "usd", "", "fiat amount in dollars (required)")
	topUpCheckoutCmd.Flags().BoolVar(&topUpGift, "gift", false, "buy the credits for someone else")
	topUpCheckoutCmd.Flags().StringVar(&topUpRecipient, "recipient", "", "gift recipient email (with --gift)")
	_ = topUpCheckoutCmd.MarkFlagRequired("usd")
}

//nolint:gocognit // Top-up orchestration spans signer, chain send, and service submission
func runTopUpCrypto(cmd *cobra.Command, _ []string) error {
	id, ok := token.Parse(topUpToken)
	if !ok {
		return unknownTokenError(topUpToken)
	}

	if err := manualTopUpSupported(id); err != nil {
		return err
	}

	amount, err := token.ParseDecimalAmount(topUpAmount, id.Decimals())
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, 5*time.Minute)
	defer cancel()

	client, err := paymentClient()
	if err != nil {
		return err
	}

	cached, err := signerFor(ctx, id.WalletKind())
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	if err := connectSession(st, cached); err != nil {
		return err
	}

	// Show the destination before asking for confirmation.
	destination, err := client.ReceivingAddress(ctx, id.WalletKind())
	if err != nil {
		return err
	}

	if !topUpYes && cfg.TopUp.ConfirmBeforeSend {
		question := "Send " + token.FormatDecimalAmount(amount, id.Decimals()) + " " +
			id.Symbol() + " to " + destination + "?"
		if !promptConfirm(question) {
			outln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	// Watch for the wallet key changing underneath the flow.
	var watcher *watch.Watcher
	if cfg.Watch.Enabled {
		watcher = watch.New(st, watchSource(), &watch.Options{
			Interval: time.Duration(cfg.Watch.IntervalSecs) * time.Second,
			Logger:   logger,
		})
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	sender, err := senderFor(ctx, id, cached)
	if err != nil {
		return err
	}

	flow := topup.NewFlow(topup.Options{
		Client:          client,
		Sender:          sender,
		Store:           st,
		Logger:          logger,
		CompletionDelay: time.Duration(cfg.TopUp.CompletionDelaySecs) * time.Second,
	})
	defer flow.Stop()

	receipt, err := flow.SubmitNative(ctx, chainpay.Request{Token: id, To: destination, Amount: amount})
	if err != nil {
		return err
	}

	out(cmd.ErrOrStderr(), "Sent %s %s (tx %s)\n",
		token.FormatDecimalAmount(amount, id.Decimals()), id.Symbol(), receipt.TxID)
	if receipt.ExplorerURL != "" {
		out(cmd.ErrOrStderr(), "  %s\n", receipt.ExplorerURL)
	}

	result, err := flow.SubmitToService(ctx)
	if err != nil {
		return err
	}

	if err := waitForCompletion(ctx, flow, watcher); err != nil {
		return err
	}

	return outputTopUp(cmd, fundToResult(id, receipt.TxID, receipt.ExplorerURL, result, false))
}

func runTopUpResume(cmd *cobra.Command, _ []string) error {
	id, ok := token.Parse(topUpToken)
	if !ok {
		return unknownTokenError(topUpToken)
	}

	ctx, cancel := contextWithTimeout(cmd, 2*time.Minute)
	defer cancel()

	client, err := paymentClient()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	flow := topup.NewFlow(topup.Options{
		Client:          client,
		Store:           st,
		Logger:          logger,
		CompletionDelay: time.Duration(cfg.TopUp.CompletionDelaySecs) * time.Second,
	})
	defer flow.Stop()

	if err := flow.Resume(id, topUpTxID); err != nil {
		return err
	}

	result, err := flow.SubmitToService(ctx)
	if err != nil {
		return err
	}

	if err := waitForCompletion(ctx, flow, nil); err != nil {
		return err
	}

	return outputTopUp(cmd, fundToResult(id, topUpTxID, id.ExplorerTxURL(topUpTxID), result, true))
}

func runTopUpCheckout(cmd *cobra.Command, _ []string) error {
	cents, err := parseUSDCents(topUpUSD)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
	defer cancel()

	client, err := paymentClient()
	if err != nil {
		return err
	}

	// Credits land on the recipient for gifts, otherwise on our wallet.
	destination := topUpRecipient
	if topUpGift {
		if destination == "" {
			return turboerr.WithSuggestion(turboerr.ErrInvalidInput, "--gift requires --recipient")
		}
	} else {
		cached, signerErr := signerFor(ctx, token.KindArweave)
		if signerErr != nil {
			return signerErr
		}
		destination = cached.Address
	}

	session, err := client.CreateCheckoutSession(ctx, destination, cents)
	if err != nil {
		return err
	}

	// Remember the pending checkout so an interrupted purchase is visible.
	if st, storeErr := openStore(); storeErr == nil {
		_ = st.UpdatePayment(func(p *store.PaymentState) {
			p.USDAmount = topUpUSD
			p.CheckoutRef = session.ID
		})
	}

	result := CheckoutResult{
		URL:  session.URL,
		USD:  topUpUSD,
		Gift: topUpGift,
	}
	if session.Winc != nil {
		result.Winc = session.Winc.String()
		result.Credits = token.WincToCredits(session.Winc)
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	out(w, "Open this URL to complete the purchase:\n\n  %s\n\n", result.URL)
	if result.Credits != "" {
		out(w, "$%s buys %s credits\n", result.USD, result.Credits)
	}
	return nil
}

// watchSource re-derives the wallet address from the configured key file.
// Encrypted key files cannot be re-opened without a prompt; the watcher
// treats the open error as a skipped poll.
func watchSource() watch.AddressSource {
	return func(ctx context.Context, kind token.WalletKind) (string, error) {
		s, err := signer.Open(kind, cfg, nil)(ctx)
		if err != nil {
			return "", err
		}
		return s.Address(), nil
	}
}

// senderFor builds the chain sender registry and resolves the one for the
// token being paid with.
func senderFor(ctx context.Context, id token.ID, cached *signer.CachedSigner) (chainpay.Sender, error) {
	reg := chainpay.NewRegistry()

	switch s := cached.Signer.(type) {
	case *signer.EthereumSigner:
		reg.Register(token.KindEthereum, func(ctx context.Context) (chainpay.Sender, error) {
			return chainpay.NewEVMSender(ctx, rpcFor(id), id, s, logger)
		})
	case *signer.SolanaSigner:
		reg.Register(token.KindSolana, func(_ context.Context) (chainpay.Sender, error) {
			return chainpay.NewSolanaSender(rpcFor(id), s, logger), nil
		})
	case *signer.ArweaveSigner:
		reg.Register(token.KindArweave, func(_ context.Context) (chainpay.Sender, error) {
			return chainpay.NewArweaveSender(cfg.GetGatewayURL(), s, logger), nil
		})
	}

	return reg.SenderFor(ctx, id)
}

// manualTopUpSupported reports whether a token can be paid with a native
// transfer from this CLI. KYVE settles on its own Cosmos chain even though
// its credits are keyed to an Ethereum wallet, so there is no EVM endpoint
// to send through.
func manualTopUpSupported(id token.ID) error {
	if id.WalletKind() == token.KindEthereum && id.ChainID() == 0 {
		return turboerr.WithSuggestion(
			turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"token": id.String()}),
			"manual transfers are not supported for "+id.Symbol()+"; use 'turbo topup checkout'",
		)
	}
	return nil
}

// rpcFor maps a token to its configured native RPC endpoint.
func rpcFor(id token.ID) string {
	switch id {
	case token.Ethereum:
		return cfg.RPC.Ethereum
	case token.BaseETH, token.BaseUSDC:
		return cfg.RPC.Base
	case token.Matic:
		return cfg.RPC.Polygon
	case token.Solana:
		return cfg.RPC.Solana
	default:
		return ""
	}
}

// waitForCompletion blocks until the flow's completion delay elapses, the
// wallet address changes underneath us, or the context ends.
func waitForCompletion(ctx context.Context, flow *topup.Flow, watcher *watch.Watcher) error {
	var events <-chan watch.AddressChanged
	if watcher != nil {
		events = watcher.Events()
	}

	select {
	case <-flow.Done():
		return nil
	case ev, ok := <-events:
		if !ok {
			// Watcher stopped; keep waiting on the flow.
			select {
			case <-flow.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return turboerr.WithDetails(turboerr.ErrTopUpFailed, map[string]string{
			"reason":      "wallet account changed during top-up",
			"old_address": ev.Old,
			"new_address": ev.New,
		})
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fundToResult converts the service result to the command's output shape.
func fundToResult(id token.ID, txid, explorerURL string, result *turbo.FundResult, resumed bool) TopUpResult {
	r := TopUpResult{
		Token:       id.String(),
		TxID:        txid,
		ExplorerURL: explorerURL,
		Status:      result.Status,
		Resumed:     resumed,
	}
	if result.Winc != nil {
		r.CreditedWinc = result.Winc.String()
		r.Credits = token.WincToCredits(result.Winc)
	}
	return r
}

// outputTopUp renders a top-up result in the requested format.
func outputTopUp(cmd *cobra.Command, result TopUpResult) error {
	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	out(w, "Top-up %s (tx %s)\n", result.Status, result.TxID)
	if result.Credits != "" {
		out(w, "Credited: %s credits (%s winc)\n", result.Credits, result.CreditedWinc)
	}
	if result.Status == turbo.FundStatusPending {
		out(w, "The service will credit the balance once the transaction confirms.\n")
	}
	if result.ExplorerURL != "" {
		out(w, "Explorer: %s\n", result.ExplorerURL)
	}
	if result.Resumed {
		out(w, "(resumed from a previously sent transaction)\n")
	}
	return nil
}
