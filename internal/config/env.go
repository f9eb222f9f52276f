package config

import (
	"os"
	"strconv"
	"strings"

	sanitize "github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome          = "TURBO_HOME"
	EnvPaymentURL    = "TURBO_PAYMENT_URL"
	EnvUploadURL     = "TURBO_UPLOAD_URL"
	EnvGatewayURL    = "TURBO_GATEWAY_URL"
	EnvProfile       = "TURBO_PROFILE"
	EnvOutputFormat  = "TURBO_OUTPUT_FORMAT"
	EnvVerbose       = "TURBO_VERBOSE"
	EnvLogLevel      = "TURBO_LOG_LEVEL"
	EnvNoColor       = "NO_COLOR"
	EnvDebounceMs    = "TURBO_DEBOUNCE_MS"
	EnvEthereumRPC   = "TURBO_ETH_RPC"
	EnvSolanaRPC     = "TURBO_SOLANA_RPC"
	EnvWatchInterval = "TURBO_WATCH_INTERVAL"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvProfile); v != "" {
		cfg.ApplyProfile(strings.ToLower(strings.TrimSpace(v)))
	}

	if v := os.Getenv(EnvPaymentURL); v != "" {
		cfg.Network.PaymentURL = SanitizeURL(v)
		cfg.Network.Profile = ProfileCustom
	}

	if v := os.Getenv(EnvUploadURL); v != "" {
		cfg.Network.UploadURL = SanitizeURL(v)
		cfg.Network.Profile = ProfileCustom
	}

	if v := os.Getenv(EnvGatewayURL); v != "" {
		cfg.Network.GatewayURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvEthereumRPC); v != "" {
		cfg.RPC.Ethereum = SanitizeURL(v)
	}

	if v := os.Getenv(EnvSolanaRPC); v != "" {
		cfg.RPC.Solana = SanitizeURL(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	if v := os.Getenv(EnvDebounceMs); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Pricing.DebounceMillis = ms
		}
	}

	if v := os.Getenv(EnvWatchInterval); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Watch.IntervalSecs = secs
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming
// whitespace. Environment-provided URLs often carry copy-paste artifacts.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
