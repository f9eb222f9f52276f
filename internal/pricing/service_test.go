package pricing

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func newTestService(t *testing.T, handler http.Handler, opts *Options) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := turbo.NewClient(srv.URL, &turbo.ClientOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)

	svc := NewService(client, opts)
	t.Cleanup(svc.Close)
	return svc
}

func waitForUpdate(t *testing.T, svc *Service) Update {
	t.Helper()

	select {
	case u := <-svc.Updates():
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for quote update")
		return Update{}
	}
}

func TestSubmit_DebounceCollapsesRapidInput(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(`{"winc":"42000000000000"}`))
	}), &Options{Debounce: 50 * time.Millisecond})

	// Simulates a user typing "1", "10", "100"
	svc.Submit(Request{USDCents: 100})
	svc.Submit(Request{USDCents: 1000})
	svc.Submit(Request{USDCents: 10000})

	u := waitForUpdate(t, svc)
	require.NoError(t, u.Err)
	assert.Equal(t, int64(1), fetches.Load(), "rapid input must collapse to one fetch")
	assert.Equal(t, int64(10000), u.Quote.Request.USDCents, "the last entered amount wins")
	assert.Equal(t, "42000000000000", u.Quote.Winc.String())
	assert.Equal(t, "42", u.Quote.Credits())
}

func TestSubmit_LastWriteWins(t *testing.T) {
	t.Parallel()

	// The first request's response is delayed past the second request's,
	// so responses arrive out of order.
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/100") {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"winc":"111"}`))
			return
		}
		_, _ = w.Write([]byte(`{"winc":"222"}`))
	}), &Options{Debounce: time.Millisecond})

	svc.Submit(Request{USDCents: 100})
	time.Sleep(20 * time.Millisecond) // let the first fetch start
	svc.Submit(Request{USDCents: 200})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		q, err := svc.Latest()
		if err == nil && q != nil && q.Winc.String() == "222" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Give the delayed first response a chance to land; it must not
	// overwrite the newer quote.
	time.Sleep(300 * time.Millisecond)

	q, err := svc.Latest()
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "222", q.Winc.String())
}

func TestQuoteNow_ErrorClearsQuote(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"winc":"1000"}`))
	}), nil)

	q, err := svc.QuoteNow(context.Background(), Request{USDCents: 500})
	require.NoError(t, err)
	assert.Equal(t, "1000", q.Winc.String())

	fail.Store(true)
	_, err = svc.QuoteNow(context.Background(), Request{USDCents: 700})
	require.ErrorIs(t, err, turboerr.ErrPricingUnavailable)

	latest, lastErr := svc.Latest()
	assert.Nil(t, latest, "a failed fetch must not leave the previous quote visible")
	assert.Error(t, lastErr)
}

func TestExpiredCryptoQuoteRefreshes(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(`{"winc":"5000"}`))
	}), &Options{QuoteTTL: 80 * time.Millisecond})

	_, err := svc.QuoteNow(context.Background(), Request{Token: token.Ethereum, Amount: big.NewInt(1e15)})
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for fetches.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, fetches.Load(), int64(2), "expired crypto quote must refresh itself")
}

func TestFiatQuoteDoesNotExpire(t *testing.T) {
	t.Parallel()

	q := &Quote{
		Request:   Request{USDCents: 1000},
		Winc:      big.NewInt(1),
		FetchedAt: time.Now().Add(-time.Hour),
		TTL:       time.Minute,
	}
	assert.False(t, q.Expired(time.Now()))
	assert.True(t, q.ExpiresAt().IsZero())
}

func TestQuoteRemaining(t *testing.T) {
	t.Parallel()

	now := time.Now()
	q := &Quote{
		Request:   Request{Token: token.Solana, Amount: big.NewInt(1)},
		Winc:      big.NewInt(1),
		FetchedAt: now,
		TTL:       5 * time.Minute,
	}

	assert.False(t, q.Expired(now.Add(4*time.Minute)))
	assert.True(t, q.Expired(now.Add(6*time.Minute)))
	assert.Equal(t, time.Duration(0), q.Remaining(now.Add(6*time.Minute)))
	assert.InDelta(t, time.Minute, q.Remaining(now.Add(4*time.Minute)), float64(time.Second))
}

func TestSubmitAfterCloseIsNoOp(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(`{"winc":"1"}`))
	}), &Options{Debounce: 10 * time.Millisecond})

	svc.Close()
	svc.Submit(Request{USDCents: 100})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int64(0), fetches.Load())
}
