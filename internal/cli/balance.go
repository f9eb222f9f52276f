package cli

import (
	"math/big"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/token"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// balanceToken is the token family the balance is keyed under.
	balanceToken string
	// balanceAddress overrides the wallet address to query.
	balanceAddress string
)

// balanceCmd shows the credit balance for a wallet address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the credit balance for a wallet",
	Long: `Show the Turbo credit balance for a wallet address.

Without --address the configured wallet for the token's chain is opened
and its address is used. A fresh address that the service has never seen
reports a zero balance.`,
	Example: `  turbo balance
  turbo balance --token ethereum
  turbo balance --token solana --address 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin`,
	RunE: runBalance,
}

// BalanceResult is the output of the balance command.
type BalanceResult struct {
	Token      string `json:"token"`
	Address    string `json:"address"`
	Winc       string `json:"winc"`
	Credits    string `json:"credits"`
	StorageGiB string `json:"storage_gib,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceToken, "token", "arweave", "token family the balance is keyed under")
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "wallet address (default: configured wallet)")
}

func runBalance(cmd *cobra.Command, _ []string) error {
	id, ok := token.Parse(balanceToken)
	if !ok {
		return unknownTokenError(balanceToken)
	}

	ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
	defer cancel()

	address := balanceAddress
	if address == "" {
		cached, err := signerFor(ctx, id.WalletKind())
		if err != nil {
			return err
		}
		address = cached.Address
	}

	client, err := paymentClient()
	if err != nil {
		return err
	}

	balance, err := client.GetBalance(ctx, id, address)
	if err != nil {
		return err
	}

	result := BalanceResult{
		Token:   id.String(),
		Address: address,
		Winc:    balance.Winc.String(),
		Credits: token.WincToCredits(balance.Winc),
	}

	// Approximate purchasable storage; skip silently if rates are down.
	if rates, ratesErr := client.GetRates(ctx); ratesErr == nil && rates.WincPerGiB.Sign() > 0 {
		result.StorageGiB = storageEstimate(balance.Winc, rates.WincPerGiB)
	} else if ratesErr != nil {
		logger.Debug("rates unavailable: %v", ratesErr)
	}

	return outputBalance(cmd, result)
}

// storageEstimate renders winc / wincPerGiB with two decimal places.
func storageEstimate(winc, wincPerGiB *big.Int) string {
	hundredths := new(big.Int).Mul(winc, big.NewInt(100))
	hundredths.Quo(hundredths, wincPerGiB)
	return token.FormatDecimalAmount(hundredths, 2)
}

// outputBalance renders the balance in the requested format.
func outputBalance(cmd *cobra.Command, result BalanceResult) error {
	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	out(w, "Address: %s (%s)\n", result.Address, strings.ToUpper(result.Token))
	out(w, "Credits: %s (%s winc)\n", result.Credits, result.Winc)
	if result.StorageGiB != "" {
		out(w, "Approx. storage: %s GiB\n", result.StorageGiB)
	}
	return nil
}
