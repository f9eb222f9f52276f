package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardriveapp/turbo-cli/internal/store"
	"github.com/ardriveapp/turbo-cli/internal/token"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()

	st := store.NewInMemory()
	require.NoError(t, st.Connect(token.KindEthereum, "0xold"))
	require.NoError(t, st.UpdatePayment(func(p *store.PaymentState) {
		p.USDAmount = "25.00"
		p.TopUpTxID = "0xpending"
	}))
	return st
}

func TestCheck_SwitchWipesPaymentState(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	w := New(st, func(_ context.Context, kind token.WalletKind) (string, error) {
		assert.Equal(t, token.KindEthereum, kind)
		return "0xnew", nil
	}, nil)

	w.Check(context.Background())

	addr, kind := st.Address()
	assert.Equal(t, "0xnew", addr)
	assert.Equal(t, token.KindEthereum, kind)
	assert.True(t, st.Payment().IsEmpty(), "payment state must not survive an address change")

	select {
	case ev := <-w.Events():
		assert.Equal(t, "0xold", ev.Old)
		assert.Equal(t, "0xnew", ev.New)
	default:
		t.Fatal("expected an address-changed event")
	}
}

func TestCheck_NoChangeIsQuiet(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	w := New(st, func(_ context.Context, _ token.WalletKind) (string, error) {
		return "0xold", nil
	}, nil)

	w.Check(context.Background())

	assert.Equal(t, "25.00", st.Payment().USDAmount)
	select {
	case <-w.Events():
		t.Fatal("no event expected when the address is unchanged")
	default:
	}
}

func TestCheck_SourceErrorIsNotASwitch(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	w := New(st, func(_ context.Context, _ token.WalletKind) (string, error) {
		return "", assert.AnError
	}, nil)

	w.Check(context.Background())

	addr, _ := st.Address()
	assert.Equal(t, "0xold", addr)
	assert.Equal(t, "25.00", st.Payment().USDAmount)
}

func TestCheck_NoSessionIsQuiet(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	w := New(store.NewInMemory(), func(_ context.Context, _ token.WalletKind) (string, error) {
		calls.Add(1)
		return "x", nil
	}, nil)

	w.Check(context.Background())
	assert.Equal(t, int64(0), calls.Load(), "the source must not be consulted without a session")
}

func TestWatcher_PollingDetectsSwitch(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	var current atomic.Value
	current.Store("0xold")

	w := New(st, func(_ context.Context, _ token.WalletKind) (string, error) {
		return current.Load().(string), nil
	}, &Options{Interval: 10 * time.Millisecond})

	w.Start(context.Background())
	defer w.Stop()

	current.Store("0xswitched")

	select {
	case ev := <-w.Events():
		assert.Equal(t, "0xswitched", ev.New)
	case <-time.After(3 * time.Second):
		t.Fatal("polling did not detect the switch")
	}
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	t.Parallel()

	w := New(store.NewInMemory(), func(_ context.Context, _ token.WalletKind) (string, error) {
		return "", nil
	}, &Options{Interval: 5 * time.Millisecond})

	w.Start(context.Background())
	w.Stop()

	_, open := <-w.Events()
	assert.False(t, open)

	// Stop is idempotent
	w.Stop()
}
