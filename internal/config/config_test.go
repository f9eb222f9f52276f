package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, ProfileProduction, cfg.Network.Profile)
	assert.Equal(t, DefaultPaymentURL, cfg.Network.PaymentURL)
	assert.Equal(t, 500, cfg.Pricing.DebounceMillis)
	assert.Equal(t, 300, cfg.Pricing.QuoteTTLSecs)
	assert.Equal(t, 2, cfg.TopUp.CompletionDelaySecs)
	assert.True(t, cfg.Watch.Enabled)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Defaults()
	cfg.Network.PaymentURL = "https://payment.example.com"
	cfg.Wallets.Solana.KeyFile = "/keys/solana.json"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://payment.example.com", loaded.Network.PaymentURL)
	assert.Equal(t, "/keys/solana.json", loaded.Wallets.Solana.KeyFile)
	// Unset fields keep defaults
	assert.Equal(t, 500, loaded.Pricing.DebounceMillis)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestApplyProfile(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.ApplyProfile(ProfileDevelopment)
	assert.Equal(t, DevPaymentURL, cfg.Network.PaymentURL)

	cfg.Network.PaymentURL = "https://custom.example"
	cfg.ApplyProfile(ProfileCustom)
	assert.Equal(t, "https://custom.example", cfg.Network.PaymentURL)
	assert.Equal(t, ProfileCustom, cfg.Network.Profile)
}

func TestConfigKey_ChangesWithProfile(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	prodKey := cfg.ConfigKey()

	cfg.ApplyProfile(ProfileDevelopment)
	assert.NotEqual(t, prodKey, cfg.ConfigKey())
}

func TestKeyFileFor(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Wallets.Ethereum.KeyFile = "/keys/eth.hex"

	wf, ok := cfg.KeyFileFor("ethereum")
	require.True(t, ok)
	assert.Equal(t, "/keys/eth.hex", wf.KeyFile)

	_, ok = cfg.KeyFileFor("solana")
	assert.False(t, ok)

	_, ok = cfg.KeyFileFor("unknown")
	assert.False(t, ok)
}
