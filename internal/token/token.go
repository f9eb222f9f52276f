// Package token defines the supported payment tokens and their unit tables.
package token

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// ID represents a supported payment token.
type ID string

// Supported token identifiers. These match the payment service's
// /v1/price/{token}/{amount} path segments.
const (
	Arweave  ID = "arweave"
	ARIO     ID = "ario"
	Ethereum ID = "ethereum"
	BaseETH  ID = "base-eth"
	Solana   ID = "solana"
	Matic    ID = "matic"
	KYVE     ID = "kyve"
	BaseUSDC ID = "base-usdc"
)

// WalletKind identifies the wallet/key family a token is paid from.
type WalletKind string

// Wallet kinds.
const (
	KindArweave  WalletKind = "arweave"
	KindEthereum WalletKind = "ethereum"
	KindSolana   WalletKind = "solana"
)

// WincPerCredit is the number of winc (Winston-Credits) in one Turbo Credit.
const WincPerCredit = 1_000_000_000_000

// WincDecimals is the decimal scale of a Turbo Credit.
const WincDecimals = 12

// Decimals returns the number of decimals in the token's smallest unit
// (winston=12, mARIO=6, wei=18, lamports=9, mUSDC=6).
func (id ID) Decimals() int {
	switch id {
	case Arweave:
		return 12
	case ARIO:
		return 6
	case Ethereum, BaseETH, Matic:
		return 18
	case Solana:
		return 9
	case KYVE:
		return 6
	case BaseUSDC:
		return 6
	default:
		return 0
	}
}

// Symbol returns the display symbol for the token.
func (id ID) Symbol() string {
	switch id {
	case Arweave:
		return "AR"
	case ARIO:
		return "ARIO"
	case Ethereum:
		return "ETH"
	case BaseETH:
		return "ETH"
	case Solana:
		return "SOL"
	case Matic:
		return "POL"
	case KYVE:
		return "KYVE"
	case BaseUSDC:
		return "USDC"
	default:
		return ""
	}
}

// SmallestUnit returns the name of the token's smallest unit.
func (id ID) SmallestUnit() string {
	switch id {
	case Arweave:
		return "winston"
	case ARIO:
		return "mARIO"
	case Ethereum, BaseETH, Matic:
		return "wei"
	case Solana:
		return "lamports"
	case KYVE:
		return "ukyve"
	case BaseUSDC:
		return "mUSDC"
	default:
		return ""
	}
}

// WalletKind returns the wallet family used to pay in this token.
func (id ID) WalletKind() WalletKind {
	switch id {
	case Arweave, ARIO:
		return KindArweave
	case Ethereum, BaseETH, Matic, KYVE, BaseUSDC:
		return KindEthereum
	case Solana:
		return KindSolana
	default:
		return ""
	}
}

// ChainID returns the EVM chain ID for EVM-settled tokens, or 0.
func (id ID) ChainID() int64 {
	switch id {
	case Ethereum:
		return 1
	case BaseETH, BaseUSDC:
		return 8453
	case Matic:
		return 137
	default:
		return 0
	}
}

// ExplorerTxURL returns a block-explorer URL for a transaction ID.
func (id ID) ExplorerTxURL(txid string) string {
	switch id {
	case Arweave, ARIO:
		return "https://viewblock.io/arweave/tx/" + txid
	case Ethereum:
		return "https://etherscan.io/tx/" + txid
	case BaseETH, BaseUSDC:
		return "https://basescan.org/tx/" + txid
	case Solana:
		return "https://explorer.solana.com/tx/" + txid
	case Matic:
		return "https://polygonscan.com/tx/" + txid
	default:
		return ""
	}
}

// String returns the token identifier string.
func (id ID) String() string {
	return string(id)
}

// IsValid returns true if the token ID is a known token.
func (id ID) IsValid() bool {
	switch id {
	case Arweave, ARIO, Ethereum, BaseETH, Solana, Matic, KYVE, BaseUSDC:
		return true
	default:
		return false
	}
}

// Parse parses a string into a token ID.
func Parse(s string) (ID, bool) {
	id := ID(s)
	return id, id.IsValid()
}

// All returns all supported token IDs, sorted.
func All() []ID {
	ids := []ID{Arweave, ARIO, Ethereum, BaseETH, Solana, Matic, KYVE, BaseUSDC}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Suggest returns the closest known token name to the input, or "" when
// nothing is within a useful edit distance.
func Suggest(input string) string {
	const maxDistance = 3

	best := ""
	bestDist := maxDistance + 1
	for _, id := range All() {
		dist := levenshtein.ComputeDistance(input, id.String())
		if dist < bestDist {
			bestDist = dist
			best = id.String()
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
