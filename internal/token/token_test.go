package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_IsValid(t *testing.T) {
	t.Parallel()

	for _, id := range All() {
		assert.True(t, id.IsValid(), "expected %s to be valid", id)
	}
	assert.False(t, ID("dogecoin").IsValid())
	assert.False(t, ID("").IsValid())
}

func TestID_Decimals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   ID
		want int
	}{
		{Arweave, 12},
		{ARIO, 6},
		{Ethereum, 18},
		{BaseETH, 18},
		{Solana, 9},
		{Matic, 18},
		{KYVE, 6},
		{BaseUSDC, 6},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Decimals())
		})
	}
}

func TestID_WalletKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindArweave, Arweave.WalletKind())
	assert.Equal(t, KindArweave, ARIO.WalletKind())
	assert.Equal(t, KindEthereum, Ethereum.WalletKind())
	assert.Equal(t, KindEthereum, BaseUSDC.WalletKind())
	assert.Equal(t, KindSolana, Solana.WalletKind())
}

func TestID_ExplorerTxURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://viewblock.io/arweave/tx/abc", Arweave.ExplorerTxURL("abc"))
	assert.Equal(t, "https://basescan.org/tx/0x1", BaseUSDC.ExplorerTxURL("0x1"))
	assert.Equal(t, "https://explorer.solana.com/tx/sig", Solana.ExplorerTxURL("sig"))
	assert.Empty(t, ID("nope").ExplorerTxURL("x"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	id, ok := Parse("solana")
	assert.True(t, ok)
	assert.Equal(t, Solana, id)

	_, ok = Parse("solanna")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"solanna", "solana"},
		{"etherum", "ethereum"},
		{"arweav", "arweave"},
		{"completely-unrelated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input))
		})
	}
}
