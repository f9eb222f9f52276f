package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel
func TestApplyEnvironment(t *testing.T) {
	t.Run("payment url override marks profile custom", func(t *testing.T) {
		t.Setenv(EnvPaymentURL, "https://payment.local:8080")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.Equal(t, "https://payment.local:8080", cfg.Network.PaymentURL)
		assert.Equal(t, ProfileCustom, cfg.Network.Profile)
	})

	t.Run("profile switch", func(t *testing.T) {
		t.Setenv(EnvProfile, "development")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.Equal(t, DevPaymentURL, cfg.Network.PaymentURL)
	})

	t.Run("debounce override", func(t *testing.T) {
		t.Setenv(EnvDebounceMs, "250")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.Equal(t, 250, cfg.Pricing.DebounceMillis)
	})

	t.Run("invalid debounce ignored", func(t *testing.T) {
		t.Setenv(EnvDebounceMs, "soon")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.Equal(t, 500, cfg.Pricing.DebounceMillis)
	})

	t.Run("no color", func(t *testing.T) {
		t.Setenv(EnvNoColor, "1")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.Equal(t, "never", cfg.Output.Color)
	})

	t.Run("verbose flag", func(t *testing.T) {
		t.Setenv(EnvVerbose, "yes")

		cfg := Defaults()
		ApplyEnvironment(cfg)

		assert.True(t, cfg.Output.Verbose)
	})
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/path", SanitizeURL("  https://example.com/path  "))
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("TRUE"))
	assert.True(t, parseBool("on"))
	assert.False(t, parseBool("0"))
	assert.False(t, parseBool("nope"))
}
