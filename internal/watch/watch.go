// Package watch detects out-of-band wallet account switches. A key file
// can change on disk while the CLI holds state for the previous account;
// that is treated as a security-relevant event, not a routine update.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/metrics"
	"github.com/ardriveapp/turbo-cli/internal/store"
	"github.com/ardriveapp/turbo-cli/internal/token"
)

// DefaultInterval is how often the watcher compares the wallet's current
// address against the stored one.
const DefaultInterval = 5 * time.Second

// AddressChanged reports a detected account switch.
type AddressChanged struct {
	WalletKind token.WalletKind
	Old        string
	New        string
	At         time.Time
}

// AddressSource resolves the wallet's current address. Implementations
// re-read the configured key material rather than serving a cached value.
type AddressSource func(ctx context.Context, kind token.WalletKind) (string, error)

// Watcher polls an AddressSource and reconciles the store when the
// address no longer matches. The store update and payment wipe are one
// atomic operation; payment state must never survive an address change.
type Watcher struct {
	store    *store.Store
	source   AddressSource
	log      *config.Logger
	interval time.Duration

	mu     sync.Mutex
	events chan AddressChanged
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// Options configures a watcher.
type Options struct {
	// Interval overrides DefaultInterval.
	Interval time.Duration
	// Logger receives the security log lines; nil means no logging.
	Logger *config.Logger
}

// New creates a watcher over the given store and address source.
func New(st *store.Store, source AddressSource, opts *Options) *Watcher {
	w := &Watcher{
		store:    st,
		source:   source,
		log:      config.NullLogger(),
		interval: DefaultInterval,
		events:   make(chan AddressChanged, 8),
	}
	if opts != nil {
		if opts.Interval > 0 {
			w.interval = opts.Interval
		}
		if opts.Logger != nil {
			w.log = opts.Logger
		}
	}
	return w
}

// Events returns the subscriber channel for detected switches.
func (w *Watcher) Events() <-chan AddressChanged {
	return w.events
}

// Start begins polling until Stop is called or ctx is canceled.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.cancel != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check performs one reconciliation pass. It is exported so commands can
// force a check at startup instead of waiting for the first tick.
func (w *Watcher) Check(ctx context.Context) {
	stored, kind := w.store.Address()
	if stored == "" || kind == "" {
		return
	}

	current, err := w.source(ctx, kind)
	if err != nil {
		// A temporarily unreadable key file is not a switch.
		w.log.Debug("address check skipped: %v", err)
		return
	}

	if current == "" || current == stored {
		return
	}

	// Hard wipe: new address in, payment state out, one lock.
	if err := w.store.SwitchAddress(kind, current); err != nil {
		w.log.Error("address switch persistence failed: %v", err)
		return
	}

	metrics.Global.RecordAddressSwitch()
	w.log.Error("SECURITY: wallet account changed (kind=%s, old=%s, new=%s); payment state wiped", kind, stored, current)

	event := AddressChanged{WalletKind: kind, Old: stored, New: current, At: time.Now()}

	w.mu.Lock()
	if !w.closed {
		select {
		case w.events <- event:
		default:
		}
	}
	w.mu.Unlock()
}

// Stop halts polling and closes the event channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	w.mu.Lock()
	close(w.events)
	w.mu.Unlock()
}
