package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/output"
)

// topUpPageURL is the hosted top-up page that pre-fills a destination
// wallet from the query string.
const topUpPageURL = "https://turbo-topup.com/"

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// shareAddress is the wallet to share a top-up link for.
	shareAddress string
	// sharePNG writes the QR code to a PNG file instead of the terminal.
	sharePNG string
)

// shareCmd renders a shareable top-up link and QR code.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share a top-up link for a wallet",
	Long: `Print a link (and QR code) that lets anyone buy credits directly
into the given wallet.`,
	Example: `  turbo share --address k3K4D7...
  turbo share --address 0xabc... --png topup.png`,
	RunE: runShare,
}

// ShareResult is the output of the share command.
type ShareResult struct {
	Address string `json:"address"`
	URL     string `json:"url"`
	PNG     string `json:"png,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(shareCmd)

	shareCmd.Flags().StringVar(&shareAddress, "address", "", "destination wallet address (required)")
	shareCmd.Flags().StringVar(&sharePNG, "png", "", "write the QR code to this PNG file")
	_ = shareCmd.MarkFlagRequired("address")
}

func runShare(cmd *cobra.Command, _ []string) error {
	link := shareLink(shareAddress)

	result := ShareResult{
		Address: shareAddress,
		URL:     link,
		PNG:     sharePNG,
	}

	if sharePNG != "" {
		if err := output.WriteQRPNG(link, sharePNG); err != nil {
			return err
		}
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	if sharePNG == "" {
		_ = output.RenderQR(w, link, output.DefaultQRConfig())
	} else {
		out(w, "QR code written to %s\n", sharePNG)
	}
	out(w, "%s\n", link)
	return nil
}

// shareLink builds the hosted top-up URL for a destination wallet.
func shareLink(address string) string {
	q := url.Values{}
	q.Set("destinationAddress", address)
	return topUpPageURL + "?" + q.Encode()
}
