package cli

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestFundToResult(t *testing.T) {
	t.Parallel()

	t.Run("credited winc renders as credits", func(t *testing.T) {
		t.Parallel()

		result := fundToResult(token.Solana, "sig-1", "https://solscan.io/tx/sig-1", &turbo.FundResult{
			Status: turbo.FundStatusConfirmed,
			Winc:   big.NewInt(1_500_000_000_000),
		}, false)

		assert.Equal(t, "solana", result.Token)
		assert.Equal(t, "sig-1", result.TxID)
		assert.Equal(t, turbo.FundStatusConfirmed, result.Status)
		assert.Equal(t, "1500000000000", result.CreditedWinc)
		assert.Equal(t, "1.5", result.Credits)
		assert.False(t, result.Resumed)
	})

	t.Run("pending result has no credited amount", func(t *testing.T) {
		t.Parallel()

		result := fundToResult(token.Ethereum, "0xabc", "", &turbo.FundResult{
			Status: turbo.FundStatusPending,
		}, true)

		assert.Equal(t, turbo.FundStatusPending, result.Status)
		assert.Empty(t, result.CreditedWinc)
		assert.Empty(t, result.Credits)
		assert.True(t, result.Resumed)
	})
}

func TestManualTopUpSupported(t *testing.T) {
	t.Parallel()

	for _, id := range []token.ID{token.Arweave, token.Ethereum, token.BaseETH, token.BaseUSDC, token.Matic, token.Solana} {
		assert.NoError(t, manualTopUpSupported(id), "token %s", id)
	}

	err := manualTopUpSupported(token.KYVE)
	require.ErrorIs(t, err, turboerr.ErrUnsupportedToken)

	var te *turboerr.TurboError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Suggestion, "topup checkout")
}
