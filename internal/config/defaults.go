package config

// Production endpoints for the Turbo payment and upload services.
const (
	DefaultPaymentURL = "https://payment.ardrive.io"
	DefaultUploadURL  = "https://upload.ardrive.io"
	DefaultGatewayURL = "https://arweave.net"
)

// Development endpoints.
const (
	DevPaymentURL = "https://payment.ardrive.dev"
	DevUploadURL  = "https://upload.ardrive.dev"
	DevGatewayURL = "https://arweave.net"
)

// Default public RPC endpoints for top-up transfers. All are free,
// no-API-key providers.
const (
	DefaultEthereumRPC = "https://ethereum-rpc.publicnode.com"
	DefaultBaseRPC     = "https://mainnet.base.org"
	DefaultPolygonRPC  = "https://polygon-rpc.com"
	DefaultSolanaRPC   = "https://api.mainnet-beta.solana.com"
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.turbo",
		Network: NetworkConfig{
			Profile:    ProfileProduction,
			PaymentURL: DefaultPaymentURL,
			UploadURL:  DefaultUploadURL,
			GatewayURL: DefaultGatewayURL,
		},
		Wallets: WalletsConfig{},
		Pricing: PricingConfig{
			DebounceMillis: 500,
			QuoteTTLSecs:   300,
		},
		TopUp: TopUpConfig{
			CompletionDelaySecs: 2,
			ConfirmBeforeSend:   true,
		},
		X402: X402Config{
			Enabled:      false,
			MaxAmountRaw: "1000000", // 1 USDC
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.turbo/logs/turbo.log",
		},
		Watch: WatcherConfig{
			Enabled:      true,
			IntervalSecs: 5,
		},
		RPC: ChainRPCConfig{
			Ethereum: DefaultEthereumRPC,
			Base:     DefaultBaseRPC,
			Polygon:  DefaultPolygonRPC,
			Solana:   DefaultSolanaRPC,
		},
	}
}

// ApplyProfile switches the network endpoints for a named profile.
// Custom profiles keep whatever URLs are already configured.
func (c *Config) ApplyProfile(profile string) {
	switch profile {
	case ProfileProduction:
		c.Network = NetworkConfig{
			Profile:    ProfileProduction,
			PaymentURL: DefaultPaymentURL,
			UploadURL:  DefaultUploadURL,
			GatewayURL: DefaultGatewayURL,
		}
	case ProfileDevelopment:
		c.Network = NetworkConfig{
			Profile:    ProfileDevelopment,
			PaymentURL: DevPaymentURL,
			UploadURL:  DevUploadURL,
			GatewayURL: DevGatewayURL,
		}
	case ProfileCustom:
		c.Network.Profile = ProfileCustom
	}
}
