package cli

import (
	"sort"
	"strconv"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ardriveapp/turbo-cli/internal/config"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration",
}

// configShowCmd prints the active configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	RunE:  runConfigShow,
}

// configSetCmd changes one configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it to the config file.

Run 'turbo config show' to see the available keys and current values.`,
	Example: `  turbo config set network.profile development
  turbo config set x402.enabled true
  turbo config set rpc.base https://mainnet.base.org`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	out(cmd.OutOrStdout(), "%s", data)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := config.Save(cfg, config.Path(cfg.GetHome())); err != nil {
		return err
	}

	out(cmd.ErrOrStderr(), "Set %s = %s\n", key, value)
	return nil
}

// configSetters maps settable keys to their apply functions.
//
//nolint:gochecknoglobals // lookup table, never mutated
var configSetters = map[string]func(*config.Config, string) error{
	"network.profile": func(c *config.Config, v string) error {
		switch v {
		case config.ProfileProduction, config.ProfileDevelopment, config.ProfileCustom:
			c.ApplyProfile(v)
			return nil
		default:
			return turboerr.WithSuggestion(
				turboerr.WithDetails(turboerr.ErrConfigInvalid, map[string]string{"profile": v}),
				"profiles: production, development, custom",
			)
		}
	},
	"network.payment_url": func(c *config.Config, v string) error {
		c.Network.PaymentURL = config.SanitizeURL(v)
		c.Network.Profile = config.ProfileCustom
		return nil
	},
	"network.gateway_url": func(c *config.Config, v string) error {
		c.Network.GatewayURL = config.SanitizeURL(v)
		c.Network.Profile = config.ProfileCustom
		return nil
	},
	"pricing.debounce_ms": func(c *config.Config, v string) error {
		return setPositiveInt(&c.Pricing.DebounceMillis, v)
	},
	"pricing.quote_ttl_seconds": func(c *config.Config, v string) error {
		return setPositiveInt(&c.Pricing.QuoteTTLSecs, v)
	},
	"topup.completion_delay_seconds": func(c *config.Config, v string) error {
		return setPositiveInt(&c.TopUp.CompletionDelaySecs, v)
	},
	"topup.confirm_before_send": func(c *config.Config, v string) error {
		return setBool(&c.TopUp.ConfirmBeforeSend, v)
	},
	"x402.enabled": func(c *config.Config, v string) error {
		return setBool(&c.X402.Enabled, v)
	},
	"x402.max_amount": func(c *config.Config, v string) error {
		c.X402.MaxAmountRaw = v
		return nil
	},
	"watch.enabled": func(c *config.Config, v string) error {
		return setBool(&c.Watch.Enabled, v)
	},
	"watch.interval_seconds": func(c *config.Config, v string) error {
		return setPositiveInt(&c.Watch.IntervalSecs, v)
	},
	"rpc.ethereum": func(c *config.Config, v string) error {
		c.RPC.Ethereum = config.SanitizeURL(v)
		return nil
	},
	"rpc.base": func(c *config.Config, v string) error {
		c.RPC.Base = config.SanitizeURL(v)
		return nil
	},
	"rpc.polygon": func(c *config.Config, v string) error {
		c.RPC.Polygon = config.SanitizeURL(v)
		return nil
	},
	"rpc.solana": func(c *config.Config, v string) error {
		c.RPC.Solana = config.SanitizeURL(v)
		return nil
	},
	"logging.level": func(c *config.Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	"logging.file": func(c *config.Config, v string) error {
		c.Logging.File = v
		return nil
	},
	"output.default_format": func(c *config.Config, v string) error {
		c.Output.DefaultFormat = v
		return nil
	},
}

// applyConfigValue sets a single key, suggesting the closest known key on a
// miss.
func applyConfigValue(c *config.Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		err := turboerr.WithDetails(turboerr.ErrUnknownConfigKey, map[string]string{"key": key})
		if closest := closestConfigKey(key); closest != "" {
			err = turboerr.WithSuggestion(err, "did you mean '"+closest+"'?")
		}
		return err
	}
	return setter(c, value)
}

// closestConfigKey returns the known key nearest to the input, if any is
// close enough to be a plausible typo.
func closestConfigKey(input string) string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	best := ""
	bestDistance := 5 // anything further is not a typo
	for _, key := range keys {
		if d := levenshtein.ComputeDistance(input, key); d < bestDistance {
			best = key
			bestDistance = d
		}
	}
	return best
}

func setPositiveInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return turboerr.WithDetails(turboerr.ErrConfigInvalid, map[string]string{"value": v})
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return turboerr.WithDetails(turboerr.ErrConfigInvalid, map[string]string{"value": v})
	}
	*dst = b
	return nil
}
