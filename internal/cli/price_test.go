package cli

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestParseUSDCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "whole dollars", input: "10", want: 1000},
		{name: "dollars and cents", input: "9.99", want: 999},
		{name: "single cent", input: "0.01", want: 1},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-5", wantErr: true},
		{name: "garbage rejected", input: "ten", wantErr: true},
		{name: "too many decimals rejected", input: "1.999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cents, err := parseUSDCents(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cents)
		})
	}
}

func TestBuildQuoteRequest(t *testing.T) {
	t.Parallel()

	t.Run("fiat", func(t *testing.T) {
		t.Parallel()

		req, err := buildQuoteRequest("25", "", "", false)
		require.NoError(t, err)
		assert.True(t, req.IsFiat())
		assert.Equal(t, int64(2500), req.USDCents)
	})

	t.Run("crypto", func(t *testing.T) {
		t.Parallel()

		req, err := buildQuoteRequest("", "arweave", "1.5", false)
		require.NoError(t, err)
		assert.False(t, req.IsFiat())
		assert.Equal(t, token.Arweave, req.Token)
		assert.Equal(t, big.NewInt(1_500_000_000_000), req.Amount)
	})

	t.Run("both modes rejected", func(t *testing.T) {
		t.Parallel()

		_, err := buildQuoteRequest("10", "arweave", "1", false)
		assert.ErrorIs(t, err, turboerr.ErrInvalidInput)
	})

	t.Run("neither mode rejected", func(t *testing.T) {
		t.Parallel()

		_, err := buildQuoteRequest("", "", "", false)
		assert.ErrorIs(t, err, turboerr.ErrInvalidInput)
	})

	t.Run("unknown token suggests", func(t *testing.T) {
		t.Parallel()

		_, err := buildQuoteRequest("", "arwaeve", "1", false)
		require.ErrorIs(t, err, turboerr.ErrUnsupportedToken)

		var te *turboerr.TurboError
		require.ErrorAs(t, err, &te)
		assert.Contains(t, te.Suggestion, "arweave")
	})
}

func TestStorageEstimate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.5", storageEstimate(big.NewInt(150), big.NewInt(100)))
	assert.Equal(t, "0.25", storageEstimate(big.NewInt(25), big.NewInt(100)))
	assert.Equal(t, "2", storageEstimate(big.NewInt(200), big.NewInt(100)))
	assert.Equal(t, "0", storageEstimate(big.NewInt(0), big.NewInt(100)))
}
