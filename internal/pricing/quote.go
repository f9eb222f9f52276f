// Package pricing converts between USD, Turbo Credits, and native token
// amounts. Requests are debounced to avoid hammering the payment service
// while the user is still typing, and crypto quotes carry an expiry after
// which they refresh automatically.
package pricing

import (
	"math/big"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
)

// Request describes a single conversion. Exactly one of USDCents or
// (Token, Amount) is set.
type Request struct {
	// USDCents is a fiat amount in cents. Zero means a token request.
	USDCents int64
	// Token is the token being priced for a crypto request.
	Token token.ID
	// Amount is the token amount in its smallest unit.
	Amount *big.Int
}

// IsFiat reports whether the request prices a fiat amount.
func (r Request) IsFiat() bool {
	return r.USDCents > 0
}

// Quote is an immutable conversion result. Crypto quotes expire; fiat
// quotes do not carry a countdown.
type Quote struct {
	Request   Request
	Winc      *big.Int
	Fees      []turbo.Adjustment
	FetchedAt time.Time
	TTL       time.Duration
}

// Credits renders the winc amount as a decimal credit string.
func (q *Quote) Credits() string {
	return token.WincToCredits(q.Winc)
}

// ExpiresAt returns the quote's expiry time, or the zero time for fiat
// quotes.
func (q *Quote) ExpiresAt() time.Time {
	if q.Request.IsFiat() {
		return time.Time{}
	}
	return q.FetchedAt.Add(q.TTL)
}

// Expired reports whether the quote has passed its expiry.
func (q *Quote) Expired(now time.Time) bool {
	exp := q.ExpiresAt()
	return !exp.IsZero() && now.After(exp)
}

// Remaining returns the time until expiry, clamped at zero.
func (q *Quote) Remaining(now time.Time) time.Duration {
	exp := q.ExpiresAt()
	if exp.IsZero() {
		return 0
	}
	if d := exp.Sub(now); d > 0 {
		return d
	}
	return 0
}
