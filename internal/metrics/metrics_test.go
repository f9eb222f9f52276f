package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := &Metrics{}

	m.RecordServiceCall(10*time.Millisecond, nil)
	m.RecordServiceCall(20*time.Millisecond, errors.New("boom"))
	m.RecordQuoteFetch(false, nil)
	m.RecordQuoteFetch(true, nil)
	m.RecordSignerPrompt()
	m.RecordSignerCacheHit()
	m.RecordSignerCacheHit()
	m.RecordTopUp(false, nil)
	m.RecordTopUp(true, errors.New("failed"))
	m.RecordAddressSwitch()

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.ServiceCallsTotal)
	assert.Equal(t, int64(1), s.ServiceErrorsTotal)
	assert.Equal(t, int64(2), s.QuoteFetches)
	assert.Equal(t, int64(1), s.QuoteRefreshes)
	assert.Equal(t, int64(1), s.SignerPrompts)
	assert.Equal(t, int64(2), s.SignerCacheHits)
	assert.Equal(t, int64(2), s.TopUpAttempts)
	assert.Equal(t, int64(1), s.TopUpResumes)
	assert.Equal(t, int64(1), s.TopUpFailures)
	assert.Equal(t, int64(1), s.AddressSwitches)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()

	m := &Metrics{}
	m.RecordSignerPrompt()
	m.Reset()
	assert.Equal(t, int64(0), m.Snapshot().SignerPrompts)
}
