package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/token"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// giftCode is the gift code to redeem.
	giftCode string
	// giftEmail is the email the gift was sent to.
	giftEmail string
	// giftAddress overrides the destination wallet for the credits.
	giftAddress string
)

// giftCmd is the parent command for gift operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftCmd = &cobra.Command{
	Use:   "gift",
	Short: "Redeem gifted credits",
}

// giftRedeemCmd redeems a gift code into a wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftRedeemCmd = &cobra.Command{
	Use:   "redeem",
	Short: "Redeem a gift code",
	Long: `Redeem a gift code into a wallet.

The email must match the one the gift was sent to. Without --address the
configured Arweave wallet receives the credits.`,
	Example: `  turbo gift redeem --code a1b2c3 --email me@example.com
  turbo gift redeem --code a1b2c3 --email me@example.com --address k3K4...`,
	RunE: runGiftRedeem,
}

// GiftRedeemResult is the output of the redeem command.
type GiftRedeemResult struct {
	Address string `json:"address"`
	Message string `json:"message,omitempty"`
	Winc    string `json:"balance_winc,omitempty"`
	Credits string `json:"balance_credits,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(giftCmd)
	giftCmd.AddCommand(giftRedeemCmd)

	giftRedeemCmd.Flags().StringVar(&giftCode, "code", "", "gift code (required)")
	giftRedeemCmd.Flags().StringVar(&giftEmail, "email", "", "email the gift was sent to (required)")
	giftRedeemCmd.Flags().StringVar(&giftAddress, "address", "", "destination wallet (default: configured Arweave wallet)")
	_ = giftRedeemCmd.MarkFlagRequired("code")
	_ = giftRedeemCmd.MarkFlagRequired("email")
}

func runGiftRedeem(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
	defer cancel()

	address := giftAddress
	if address == "" {
		cached, err := signerFor(ctx, token.KindArweave)
		if err != nil {
			return err
		}
		address = cached.Address
	}

	client, err := paymentClient()
	if err != nil {
		return err
	}

	result, err := client.RedeemGift(ctx, giftCode, giftEmail, address)
	if err != nil {
		return err
	}

	redeemed := GiftRedeemResult{
		Address: address,
		Message: result.Message,
	}
	if result.Balance != nil {
		redeemed.Winc = result.Balance.String()
		redeemed.Credits = token.WincToCredits(result.Balance)
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), redeemed)
	}

	w := cmd.OutOrStdout()
	out(w, "Gift redeemed to %s\n", redeemed.Address)
	if redeemed.Credits != "" {
		out(w, "New balance: %s credits (%s winc)\n", redeemed.Credits, redeemed.Winc)
	}
	return nil
}
