package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/config"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestApplyConfigValue(t *testing.T) {
	t.Parallel()

	t.Run("profile switch", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		require.NoError(t, applyConfigValue(c, "network.profile", config.ProfileDevelopment))
		assert.Equal(t, config.ProfileDevelopment, c.Network.Profile)
		assert.NotEmpty(t, c.Network.PaymentURL)
	})

	t.Run("unknown profile rejected", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		err := applyConfigValue(c, "network.profile", "staging")
		assert.ErrorIs(t, err, turboerr.ErrConfigInvalid)
	})

	t.Run("custom payment url switches profile", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		require.NoError(t, applyConfigValue(c, "network.payment_url", "https://payment.example.com"))
		assert.Equal(t, "https://payment.example.com", c.Network.PaymentURL)
		assert.Equal(t, config.ProfileCustom, c.Network.Profile)
	})

	t.Run("bool and int values", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		require.NoError(t, applyConfigValue(c, "x402.enabled", "true"))
		require.NoError(t, applyConfigValue(c, "pricing.debounce_ms", "250"))
		assert.True(t, c.X402.Enabled)
		assert.Equal(t, 250, c.Pricing.DebounceMillis)
	})

	t.Run("non-positive int rejected", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		err := applyConfigValue(c, "pricing.debounce_ms", "0")
		assert.ErrorIs(t, err, turboerr.ErrConfigInvalid)
	})

	t.Run("unknown key suggests closest", func(t *testing.T) {
		t.Parallel()

		c := config.Defaults()
		err := applyConfigValue(c, "x402.enable", "true")
		require.ErrorIs(t, err, turboerr.ErrUnknownConfigKey)

		var te *turboerr.TurboError
		require.ErrorAs(t, err, &te)
		assert.Contains(t, te.Suggestion, "x402.enabled")
	})

	t.Run("distant key gets no suggestion", func(t *testing.T) {
		t.Parallel()

		err := applyConfigValue(config.Defaults(), "frobnicate", "1")
		require.ErrorIs(t, err, turboerr.ErrUnknownConfigKey)

		var te *turboerr.TurboError
		require.ErrorAs(t, err, &te)
		assert.Empty(t, te.Suggestion)
	})
}

func TestClosestConfigKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "watch.enabled", closestConfigKey("watch.enable"))
	assert.Equal(t, "rpc.base", closestConfigKey("rpc.bas"))
	assert.Empty(t, closestConfigKey("zzzzzzzzzzzz"))
}
