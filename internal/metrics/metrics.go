// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Payment service calls
	serviceCallsTotal   atomic.Int64
	serviceErrorsTotal  atomic.Int64
	serviceLatencyNanos atomic.Int64

	// Quote activity
	quoteFetches   atomic.Int64
	quoteRefreshes atomic.Int64
	quoteErrors    atomic.Int64

	// Signer cache
	signerPrompts   atomic.Int64
	signerCacheHits atomic.Int64

	// Top-up flow
	topUpAttempts atomic.Int64
	topUpFailures atomic.Int64
	topUpResumes  atomic.Int64

	// Account-change watcher
	addressSwitches atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordServiceCall records a payment-service call with its duration and success status.
func (m *Metrics) RecordServiceCall(duration time.Duration, err error) {
	m.serviceCallsTotal.Add(1)
	m.serviceLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.serviceErrorsTotal.Add(1)
	}
}

// RecordQuoteFetch records a quote fetch; refresh marks automatic expiry refreshes.
func (m *Metrics) RecordQuoteFetch(refresh bool, err error) {
	m.quoteFetches.Add(1)
	if refresh {
		m.quoteRefreshes.Add(1)
	}
	if err != nil {
		m.quoteErrors.Add(1)
	}
}

// RecordSignerPrompt records a signature/key-load prompt.
func (m *Metrics) RecordSignerPrompt() {
	m.signerPrompts.Add(1)
}

// RecordSignerCacheHit records a signer cache hit.
func (m *Metrics) RecordSignerCacheHit() {
	m.signerCacheHits.Add(1)
}

// RecordTopUp records a top-up attempt.
func (m *Metrics) RecordTopUp(resumed bool, err error) {
	m.topUpAttempts.Add(1)
	if resumed {
		m.topUpResumes.Add(1)
	}
	if err != nil {
		m.topUpFailures.Add(1)
	}
}

// RecordAddressSwitch records a detected account switch.
func (m *Metrics) RecordAddressSwitch() {
	m.addressSwitches.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	ServiceCallsTotal   int64
	ServiceErrorsTotal  int64
	ServiceLatencyNanos int64
	QuoteFetches        int64
	QuoteRefreshes      int64
	QuoteErrors         int64
	SignerPrompts       int64
	SignerCacheHits     int64
	TopUpAttempts       int64
	TopUpFailures       int64
	TopUpResumes        int64
	AddressSwitches     int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ServiceCallsTotal:   m.serviceCallsTotal.Load(),
		ServiceErrorsTotal:  m.serviceErrorsTotal.Load(),
		ServiceLatencyNanos: m.serviceLatencyNanos.Load(),
		QuoteFetches:        m.quoteFetches.Load(),
		QuoteRefreshes:      m.quoteRefreshes.Load(),
		QuoteErrors:         m.quoteErrors.Load(),
		SignerPrompts:       m.signerPrompts.Load(),
		SignerCacheHits:     m.signerCacheHits.Load(),
		TopUpAttempts:       m.topUpAttempts.Load(),
		TopUpFailures:       m.topUpFailures.Load(),
		TopUpResumes:        m.topUpResumes.Load(),
		AddressSwitches:     m.addressSwitches.Load(),
	}
}

// Reset zeroes all counters. Used by tests.
func (m *Metrics) Reset() {
	*m = Metrics{}
}
