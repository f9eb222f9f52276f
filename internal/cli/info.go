package cli

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/turbo"
)

// infoCmd shows payment service and gateway info.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show payment service and gateway info",
	Long: `Show the payment service's version and receiving addresses, plus the
Arweave gateway's network status when a gateway is configured.`,
	Example: `  turbo info
  turbo info -o json`,
	RunE: runInfo,
}

// InfoResult is the output of the info command.
type InfoResult struct {
	Service *turbo.ServiceInfo `json:"service"`
	Gateway *turbo.GatewayInfo `json:"gateway,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
	defer cancel()

	client, err := paymentClient()
	if err != nil {
		return err
	}

	service, err := client.GetInfo(ctx)
	if err != nil {
		return err
	}

	result := InfoResult{Service: service}

	// Gateway status is best-effort; the payment service may be reachable
	// while the gateway is not.
	if gateway, gwErr := client.GetGatewayInfo(ctx); gwErr == nil {
		result.Gateway = gateway
	} else {
		logger.Debug("gateway info unavailable: %v", gwErr)
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	out(w, "Payment service version: %s\n", service.Version)
	if service.Gateway != "" {
		out(w, "Service gateway: %s\n", service.Gateway)
	}

	if len(service.Addresses) > 0 {
		outln(w)
		outln(w, "Receiving addresses:")
		kinds := make([]string, 0, len(service.Addresses))
		for kind := range service.Addresses {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			out(w, "  %-10s %s\n", kind, service.Addresses[kind])
		}
	}

	if result.Gateway != nil {
		outln(w)
		out(w, "Gateway network: %s (height %d, %d peers)\n",
			result.Gateway.Network, result.Gateway.Height, result.Gateway.Peers)
	}
	return nil
}
