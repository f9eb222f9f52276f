package cli

import (
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/x402"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// fetchBodyLimit caps how much of a fetched resource is printed.
const fetchBodyLimit = 10 << 20

// fetchCmd fetches a paid resource, answering x402 challenges.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a pay-per-request resource",
	Long: `Fetch a URL, paying a single x402 challenge with the Ethereum wallet
if the server demands one.

Payments require x402.enabled and a per-request cap in x402.max_amount
(USDC, smallest unit). Servers asking for more than the cap are refused.`,
	Example: `  turbo config set x402.enabled true
  turbo config set x402.max_amount 10000
  turbo fetch https://api.example.com/paid/report`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if !cfg.X402.Enabled {
		return turboerr.WithSuggestion(
			turboerr.ErrPaymentRequired,
			"enable pay-per-request with 'turbo config set x402.enabled true'",
		)
	}

	ctx, cancel := contextWithTimeout(cmd, 2*time.Minute)
	defer cancel()

	cached, err := signerFor(ctx, token.KindEthereum)
	if err != nil {
		return err
	}
	ethSigner, ok := cached.Signer.(*signer.EthereumSigner)
	if !ok {
		return turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{
			"wallet": string(cached.Signer.Kind()),
			"reason": "x402 payments need an Ethereum key",
		})
	}

	var maxAmount *big.Int
	if cfg.X402.MaxAmountRaw != "" {
		maxAmount, ok = new(big.Int).SetString(cfg.X402.MaxAmountRaw, 10)
		if !ok {
			return turboerr.WithDetails(turboerr.ErrConfigInvalid, map[string]string{
				"x402.max_amount": cfg.X402.MaxAmountRaw,
			})
		}
	}

	client := x402.NewClient(ethSigner, &x402.Options{
		MaxAmount: maxAmount,
		Logger:    logger,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args[0], nil)
	if err != nil {
		return turboerr.Wrap(turboerr.ErrInvalidInput, "building request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return turboerr.WithDetails(turboerr.ErrServiceError, map[string]string{
			"status": resp.Status,
			"url":    args[0],
		})
	}

	_, err = io.Copy(cmd.OutOrStdout(), io.LimitReader(resp.Body, fetchBodyLimit))
	return err
}
