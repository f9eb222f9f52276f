// Package config provides configuration management for the Turbo CLI.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version int            `yaml:"version"`
	Home    string         `yaml:"home"`
	Network NetworkConfig  `yaml:"network"`
	Wallets WalletsConfig  `yaml:"wallets"`
	Pricing PricingConfig  `yaml:"pricing"`
	TopUp   TopUpConfig    `yaml:"topup"`
	X402    X402Config     `yaml:"x402"`
	Output  OutputConfig   `yaml:"output"`
	Logging LoggingConfig  `yaml:"logging"`
	Watch   WatcherConfig  `yaml:"watch"`
	RPC     ChainRPCConfig `yaml:"rpc"`
}

// Network profiles.
const (
	ProfileProduction  = "production"
	ProfileDevelopment = "development"
	ProfileCustom      = "custom"
)

// NetworkConfig selects the payment/upload/gateway endpoints.
type NetworkConfig struct {
	Profile    string `yaml:"profile"`
	PaymentURL string `yaml:"payment_url"`
	UploadURL  string `yaml:"upload_url"`
	GatewayURL string `yaml:"gateway_url"`
}

// WalletsConfig holds per-kind key file locations.
type WalletsConfig struct {
	Arweave  WalletFileConfig `yaml:"arweave"`
	Ethereum WalletFileConfig `yaml:"ethereum"`
	Solana   WalletFileConfig `yaml:"solana"`
}

// WalletFileConfig points at a single key file.
type WalletFileConfig struct {
	KeyFile   string `yaml:"key_file"`
	Encrypted bool   `yaml:"encrypted"`
}

// PricingConfig tunes the quote service.
type PricingConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
	QuoteTTLSecs   int `yaml:"quote_ttl_seconds"`
}

// TopUpConfig tunes the crypto top-up flow.
type TopUpConfig struct {
	CompletionDelaySecs int  `yaml:"completion_delay_seconds"`
	ConfirmBeforeSend   bool `yaml:"confirm_before_send"`
}

// X402Config tunes the pay-per-request client.
type X402Config struct {
	Enabled      bool   `yaml:"enabled"`
	MaxAmountRaw string `yaml:"max_amount"` // mUSDC per request, decimal string
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// WatcherConfig tunes the account-change watcher.
type WatcherConfig struct {
	Enabled      bool `yaml:"enabled"`
	IntervalSecs int  `yaml:"interval_seconds"`
}

// ChainRPCConfig holds native chain endpoints used for top-up transfers.
type ChainRPCConfig struct {
	Ethereum string `yaml:"ethereum"`
	Base     string `yaml:"base"`
	Polygon  string `yaml:"polygon"`
	Solana   string `yaml:"solana"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// StatePath returns the persisted state file path.
func StatePath(home string) string {
	return filepath.Join(home, "state.json")
}

// GetHome returns the turbo home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetPaymentURL returns the payment service base URL.
func (c *Config) GetPaymentURL() string {
	return c.Network.PaymentURL
}

// GetGatewayURL returns the gateway base URL.
func (c *Config) GetGatewayURL() string {
	return c.Network.GatewayURL
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// ConfigKey returns a stable fingerprint of the network endpoints. Cached
// signers are keyed on it so switching profiles invalidates them.
func (c *Config) ConfigKey() string {
	return c.Network.Profile + "|" + c.Network.PaymentURL + "|" + c.Network.GatewayURL
}

// KeyFileFor returns the configured key file for a wallet kind string.
func (c *Config) KeyFileFor(kind string) (WalletFileConfig, bool) {
	switch kind {
	case "arweave":
		return c.Wallets.Arweave, c.Wallets.Arweave.KeyFile != ""
	case "ethereum":
		return c.Wallets.Ethereum, c.Wallets.Ethereum.KeyFile != ""
	case "solana":
		return c.Wallets.Solana, c.Wallets.Solana.KeyFile != ""
	default:
		return WalletFileConfig{}, false
	}
}

// DefaultHome returns the default turbo home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".turbo"
	}
	return filepath.Join(home, ".turbo")
}
