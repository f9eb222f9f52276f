package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/metrics"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// Defaults for the quote service.
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultQuoteTTL = 5 * time.Minute
)

// Update is delivered to subscribers whenever the current quote changes.
// Exactly one of Quote or Err is set; an error never leaves a stale quote
// in place.
type Update struct {
	Quote *Quote
	Err   error
}

// Service debounces conversion requests against the payment service and
// keeps the latest quote fresh. Overlapping fetches resolve by sequence
// number: the most recently requested conversion wins regardless of
// response ordering.
type Service struct {
	client   *turbo.Client
	log      *config.Logger
	debounce time.Duration
	ttl      time.Duration

	mu            sync.Mutex
	seq           uint64
	pending       Request
	debounceTimer *time.Timer
	refreshTimer  *time.Timer
	latest        *Quote
	lastErr       error
	updates       chan Update
	closed        bool
}

// Options configures a quote service.
type Options struct {
	// Debounce overrides the default input debounce.
	Debounce time.Duration
	// QuoteTTL overrides the default crypto quote expiry.
	QuoteTTL time.Duration
	// Logger receives debug and error lines; nil means no logging.
	Logger *config.Logger
}

// NewService creates a quote service around a payment service client.
func NewService(client *turbo.Client, opts *Options) *Service {
	s := &Service{
		client:   client,
		log:      config.NullLogger(),
		debounce: DefaultDebounce,
		ttl:      DefaultQuoteTTL,
		updates:  make(chan Update, 16),
	}
	if opts != nil {
		if opts.Debounce > 0 {
			s.debounce = opts.Debounce
		}
		if opts.QuoteTTL > 0 {
			s.ttl = opts.QuoteTTL
		}
		if opts.Logger != nil {
			s.log = opts.Logger
		}
	}
	return s
}

// Updates returns the subscriber channel. Slow consumers drop updates
// rather than blocking the fetch path.
func (s *Service) Updates() <-chan Update {
	return s.updates
}

// Latest returns the current quote, or the error from the most recent
// fetch. Both are nil before the first fetch completes.
func (s *Service) Latest() (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.lastErr
}

// Submit schedules a conversion after the debounce window. Rapid
// successive calls collapse to a single fetch of the last request.
func (s *Service) Submit(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.seq++
	seq := s.seq
	s.pending = req

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.fetch(seq, req, false)
	})
}

// QuoteNow fetches a conversion immediately, bypassing the debounce.
// One-shot callers use this; the result still feeds the service state so
// the refresh timer keeps it current afterwards.
func (s *Service) QuoteNow(ctx context.Context, req Request) (*Quote, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, turboerr.ErrPricingUnavailable
	}
	s.seq++
	seq := s.seq
	s.pending = req
	s.mu.Unlock()

	quote, err := s.fetchQuote(ctx, req, false)
	s.deliver(seq, req, quote, err)
	return quote, err
}

// fetch runs on timer goroutines; it carries its own deadline since there
// is no caller context to inherit.
func (s *Service) fetch(seq uint64, req Request, refresh bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote, err := s.fetchQuote(ctx, req, refresh)
	s.deliver(seq, req, quote, err)
}

func (s *Service) fetchQuote(ctx context.Context, req Request, refresh bool) (*Quote, error) {
	var (
		price *turbo.Price
		err   error
	)
	if req.IsFiat() {
		price, err = s.client.GetWincForFiat(ctx, req.USDCents)
	} else {
		price, err = s.client.GetWincForToken(ctx, req.Token, req.Amount)
	}
	metrics.Global.RecordQuoteFetch(refresh, err)

	if err != nil {
		s.log.Error("quote fetch failed: %v", err)
		return nil, err
	}

	return &Quote{
		Request:   req,
		Winc:      price.Winc,
		Fees:      price.Fees,
		FetchedAt: time.Now(),
		TTL:       s.ttl,
	}, nil
}

// deliver installs a fetch result unless a newer request has superseded
// it. Errors clear the quote; showing nothing beats showing a price for
// an amount the user no longer wants.
func (s *Service) deliver(seq uint64, req Request, quote *Quote, err error) {
	s.mu.Lock()
	if s.closed || seq < s.seq {
		s.mu.Unlock()
		return
	}

	s.latest = quote
	s.lastErr = err

	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
		s.refreshTimer = nil
	}
	// Crypto quotes refresh themselves on expiry rather than going stale.
	if err == nil && !req.IsFiat() {
		s.refreshTimer = time.AfterFunc(s.ttl, func() {
			s.mu.Lock()
			if s.closed || seq < s.seq {
				s.mu.Unlock()
				return
			}
			s.seq++
			next := s.seq
			s.mu.Unlock()

			s.log.Debug("quote expired, refreshing (token=%s)", req.Token)
			s.fetch(next, req, true)
		})
	}

	// Non-blocking send under the lock so Close cannot close the channel
	// between the closed check and the send.
	select {
	case s.updates <- Update{Quote: quote, Err: err}:
	default:
	}
	s.mu.Unlock()
}

// Close stops all timers. Pending fetch results are discarded.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
	}
	close(s.updates)
}
