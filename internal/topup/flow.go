package topup

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ardriveapp/turbo-cli/internal/chainpay"
	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/metrics"
	"github.com/ardriveapp/turbo-cli/internal/store"
	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// DefaultCompletionDelay is how long a flow waits after a successful
// service submission before reporting completion, giving the service time
// to index the credit before the caller refreshes its balance.
const DefaultCompletionDelay = 2 * time.Second

// Options configures a top-up flow.
type Options struct {
	// Client talks to the payment service.
	Client *turbo.Client
	// Sender submits the native transfer. Unused by resumed flows.
	Sender chainpay.Sender
	// Store persists flow progress so an interrupted flow can be resumed.
	Store *store.Store
	// Logger receives debug and error lines; nil means no logging.
	Logger *config.Logger
	// CompletionDelay overrides DefaultCompletionDelay.
	CompletionDelay time.Duration
	// OnComplete runs once after the completion delay. Optional.
	OnComplete func(*turbo.FundResult)
}

// Flow is one top-up attempt. It is safe for concurrent use, though the
// expected caller is a single command invocation.
type Flow struct {
	id              string
	client          *turbo.Client
	sender          chainpay.Sender
	store           *store.Store
	log             *config.Logger
	completionDelay time.Duration
	onComplete      func(*turbo.FundResult)

	mu      sync.Mutex
	state   State
	token   token.ID
	receipt *chainpay.Receipt
	result  *turbo.FundResult
	resumed bool
	timer   *time.Timer
	done    chan struct{}
}

// NewFlow creates a flow in the idle state.
func NewFlow(opts Options) *Flow {
	log := opts.Logger
	if log == nil {
		log = config.NullLogger()
	}
	delay := opts.CompletionDelay
	if delay <= 0 {
		delay = DefaultCompletionDelay
	}
	return &Flow{
		id:              uuid.NewString(),
		client:          opts.Client,
		sender:          opts.Sender,
		store:           opts.Store,
		log:             log,
		completionDelay: delay,
		onComplete:      opts.OnComplete,
		state:           StateIdle,
		done:            make(chan struct{}),
	}
}

// ID returns the flow's unique identifier.
func (f *Flow) ID() string {
	return f.id
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Receipt returns the native transfer receipt, or nil before phase one.
func (f *Flow) Receipt() *chainpay.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

// Result returns the service's crediting record, or nil before phase two.
func (f *Flow) Result() *turbo.FundResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Done is closed once the flow reaches complete, after the completion
// delay has elapsed.
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// SubmitNative runs phase one: verify the destination against the
// service's published receiving address, then submit the on-chain
// transfer. The underlying wallet or network error on failure is logged,
// not surfaced; callers see a generic submission failure.
func (f *Flow) SubmitNative(ctx context.Context, req chainpay.Request) (*chainpay.Receipt, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, turboerr.WithDetails(turboerr.ErrInvalidTransition, map[string]string{
			"from": string(f.state),
			"to":   string(StateNativeSubmitted),
		})
	}
	f.token = req.Token
	f.mu.Unlock()

	// Never send to an address the service did not publish.
	serviceAddr, err := f.client.ReceivingAddress(ctx, req.Token.WalletKind())
	if err != nil {
		f.fail()
		return nil, err
	}
	if req.To == "" {
		req.To = serviceAddr
	} else if req.To != serviceAddr {
		f.fail()
		return nil, turboerr.WithDetails(turboerr.ErrInvalidAddress, map[string]string{
			"reason": "destination does not match the service's receiving address",
		})
	}

	receipt, err := f.sender.Send(ctx, req)
	metrics.Global.RecordTopUp(false, err)
	if err != nil {
		f.log.Error("native submission failed (flow=%s, token=%s): %v", f.id, req.Token, err)
		f.fail()
		return nil, turboerr.WithSuggestion(turboerr.ErrTopUpFailed, "the transfer was not submitted; no funds moved unless your wallet shows otherwise")
	}

	f.mu.Lock()
	f.state, err = transition(f.state, StateNativeSubmitted)
	if err == nil {
		f.receipt = receipt
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		_ = f.store.UpdatePayment(func(p *store.PaymentState) {
			p.TopUpToken = string(req.Token)
			p.TopUpValue = req.Amount.String()
			p.TopUpTxID = receipt.TxID
		})
	}

	f.log.Debug("native transfer submitted (flow=%s, tx=%s)", f.id, receipt.TxID)
	return receipt, nil
}

// Resume re-enters an interrupted flow at phase two with a user-supplied
// transaction ID. The ID must come from a real prior transfer to the
// service's address; the client cannot verify that independently.
func (f *Flow) Resume(id token.ID, txid string) error {
	if txid == "" {
		return turboerr.ErrInvalidTransactionID
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return turboerr.WithDetails(turboerr.ErrInvalidTransition, map[string]string{
			"from": string(f.state),
			"to":   string(StateNativeSubmitted),
		})
	}

	f.state = StateNativeSubmitted
	f.token = id
	f.resumed = true
	f.receipt = &chainpay.Receipt{
		TxID:        txid,
		ExplorerURL: id.ExplorerTxURL(txid),
	}

	f.log.Debug("flow resumed with supplied transaction id (flow=%s, tx=%s)", f.id, txid)
	return nil
}

// SubmitToService runs phase two: hand the recorded transaction ID to the
// payment service for crediting. A "failed" status from the service is
// terminal for this attempt and is not retried.
func (f *Flow) SubmitToService(ctx context.Context) (*turbo.FundResult, error) {
	f.mu.Lock()
	switch f.state {
	case StateNativeSubmitted:
		// proceed
	case StateServiceSubmitted, StateComplete:
		f.mu.Unlock()
		return nil, turboerr.ErrAlreadySubmitted
	default:
		f.mu.Unlock()
		return nil, turboerr.WithDetails(turboerr.ErrInvalidTransition, map[string]string{
			"from": string(f.state),
			"to":   string(StateServiceSubmitted),
		})
	}
	id := f.token
	txid := f.receipt.TxID
	resumed := f.resumed
	f.mu.Unlock()

	result, err := f.client.SubmitFundTransaction(ctx, id, txid)
	metrics.Global.RecordTopUp(resumed, err)
	if err != nil {
		f.fail()
		status := turbo.FundStatusFailed
		if result != nil && result.Status != "" {
			status = result.Status
		}
		f.recordHistory(id, txid, status, resumed)
		return result, err
	}

	f.mu.Lock()
	f.state = StateServiceSubmitted
	f.result = result
	f.timer = time.AfterFunc(f.completionDelay, f.complete)
	f.mu.Unlock()

	if f.store != nil {
		_ = f.store.UpdatePayment(func(p *store.PaymentState) {
			p.TopUpResponse = result.Status
		})
	}
	f.recordHistory(id, txid, result.Status, resumed)

	f.log.Debug("service submission accepted (flow=%s, tx=%s, status=%s)", f.id, txid, result.Status)
	return result, nil
}

// complete runs after the completion delay. The persisted top-up fields
// are cleared; the flow is finished and the history record remains.
func (f *Flow) complete() {
	f.mu.Lock()
	if f.state != StateServiceSubmitted {
		f.mu.Unlock()
		return
	}
	f.state = StateComplete
	result := f.result
	f.mu.Unlock()

	if f.store != nil {
		_ = f.store.UpdatePayment(func(p *store.PaymentState) {
			p.TopUpToken = ""
			p.TopUpValue = ""
			p.TopUpTxID = ""
			p.TopUpResponse = ""
		})
	}

	if f.onComplete != nil {
		f.onComplete(result)
	}
	close(f.done)
}

func (f *Flow) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Terminal() {
		return
	}
	f.state = StateFailed
}

func (f *Flow) recordHistory(id token.ID, txid, status string, resumed bool) {
	if f.store == nil {
		return
	}
	if status == "" {
		status = turbo.FundStatusFailed
	}
	_ = f.store.AppendTopUp(store.TopUpRecord{
		Token:       id,
		TxID:        txid,
		ExplorerURL: id.ExplorerTxURL(txid),
		Status:      status,
		Resumed:     resumed,
		CreatedAt:   time.Now(),
	})
}

// Stop cancels a pending completion timer. State is left as is.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
}
