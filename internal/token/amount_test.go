package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestParseDecimalAmount_ValidAmounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{"1.5 AR to winston", "1.5", 12, "1500000000000"},
		{"0.1 SOL to lamports", "0.1", 9, "100000000"},
		{"100 no decimal", "100", 18, "100000000000000000000"},
		{".5 no integer", ".5", 12, "500000000000"},
		{"0 value", "0", 12, "0"},
		{"10 USDC to mUSDC", "10", 6, "10000000"},
		{"many decimals truncated", "1.1234567890123456789", 12, "1123456789012"},
		{"fewer decimals padded", "1.1", 6, "1100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalAmount(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDecimalAmount_InvalidAmounts(t *testing.T) {
	t.Parallel()

	invalid := []struct {
		name   string
		amount string
	}{
		{"empty string", ""},
		{"negative", "-1"},
		{"multiple decimals", "1.2.3"},
		{"letters", "abc"},
		{"letters in decimal", "1.abc"},
		{"spaces", " 1.5"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecimalAmount(tt.amount, 12)
			require.Error(t, err)
			assert.True(t, errors.Is(err, turboerr.ErrInvalidAmount))
		})
	}
}

func TestFormatDecimalAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   *big.Int
		decimals int
		want     string
	}{
		{"1.5 credits", big.NewInt(1500000000000), 12, "1.5"},
		{"0.1 SOL", big.NewInt(100000000), 9, "0.1"},
		{"nil amount", nil, 12, "0"},
		{"zero", big.NewInt(0), 6, "0"},
		{"one winc", big.NewInt(1), 12, "0.000000000001"},
		{"whole credits", big.NewInt(42000000000000), 12, "42"},
		{"whole with zero fraction digit", big.NewInt(10100000), 6, "10.1"},
		{"no decimals", big.NewInt(1000), 0, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDecimalAmount(tt.amount, tt.decimals))
		})
	}
}

func TestRescale_RoundTrip(t *testing.T) {
	t.Parallel()

	// winc (12 decimals) to each token's smallest unit and back
	tokens := []ID{Arweave, ARIO, Ethereum, Solana, BaseUSDC}

	for _, id := range tokens {
		t.Run(id.String(), func(t *testing.T) {
			winc := big.NewInt(2500000000000) // 2.5 credits
			scaled := Rescale(winc, WincDecimals, id.Decimals())
			back := Rescale(scaled, id.Decimals(), WincDecimals)

			if id.Decimals() >= WincDecimals {
				// Upscaling is exact
				assert.Equal(t, winc.String(), back.String())
			} else {
				// Downscaling may round; round-trip error bounded by half a unit
				diff := new(big.Int).Sub(winc, back)
				bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(WincDecimals-id.Decimals())), nil)
				assert.True(t, diff.CmpAbs(bound) < 0,
					"round-trip error %s exceeds one smallest unit %s", diff, bound)
			}
		})
	}
}

func TestRescale_NonZeroNeverZero(t *testing.T) {
	t.Parallel()

	// 1 winc scaled down to 6 decimals would truncate to zero;
	// the rounding policy promotes it to the smallest unit instead.
	got := Rescale(big.NewInt(1), 12, 6)
	assert.Equal(t, "1", got.String())
}

func TestRescale_RoundHalfUp(t *testing.T) {
	t.Parallel()

	// 1.5 units at the lower scale rounds up
	got := Rescale(big.NewInt(1500000), 12, 6)
	assert.Equal(t, "2", got.String())

	// 1.4999... rounds down
	got = Rescale(big.NewInt(1499999), 12, 6)
	assert.Equal(t, "1", got.String())
}

func TestWincCredits_RoundTrip(t *testing.T) {
	t.Parallel()

	winc, err := CreditsToWinc("3.25")
	require.NoError(t, err)
	assert.Equal(t, "3250000000000", winc.String())
	assert.Equal(t, "3.25", WincToCredits(winc))
}

func TestParseWinc(t *testing.T) {
	t.Parallel()

	v, err := ParseWinc("109523461901")
	require.NoError(t, err)
	assert.Equal(t, "109523461901", v.String())

	_, err = ParseWinc("not-a-number")
	assert.Error(t, err)

	_, err = ParseWinc("-5")
	assert.Error(t, err)
}
