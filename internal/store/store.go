// Package store persists session state for the Turbo CLI: the active wallet
// address, in-flight payment state, and top-up history. Payment state is
// address-agnostic and carries no owner tag, so it is wiped wholesale
// whenever the active address changes.
package store

import (
	"sync"
	"time"

	"github.com/ardriveapp/turbo-cli/internal/token"
)

// PaymentState holds the ephemeral state of an in-progress payment flow.
// It must never survive a detected account switch.
type PaymentState struct {
	USDAmount         string `json:"usd_amount,omitempty"`
	CheckoutRef       string `json:"checkout_ref,omitempty"`
	TopUpToken        string `json:"topup_token,omitempty"`
	TopUpValue        string `json:"topup_value,omitempty"`
	TopUpTxID         string `json:"topup_txid,omitempty"`
	TopUpResponse     string `json:"topup_response,omitempty"`
	PromptedForResume bool   `json:"prompted_for_resume,omitempty"`
}

// Clear resets all payment fields to their zero values.
func (p *PaymentState) Clear() {
	*p = PaymentState{}
}

// IsEmpty returns true when no payment flow is in progress.
func (p PaymentState) IsEmpty() bool {
	return p == PaymentState{}
}

// TopUpRecord is one entry in the top-up history.
type TopUpRecord struct {
	Token       token.ID  `json:"token"`
	TxID        string    `json:"txid"`
	ExplorerURL string    `json:"explorer_url,omitempty"`
	Status      string    `json:"status"`
	Resumed     bool      `json:"resumed,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// State is the full persisted application state. A single namespaced JSON
// file holds it; the only compatibility guarantee is that the same app
// version reads its own writes.
type State struct {
	Version     int               `json:"version"`
	Address     string            `json:"address,omitempty"`
	WalletKind  token.WalletKind  `json:"wallet_kind,omitempty"`
	ConnectedAt time.Time         `json:"connected_at,omitempty"`
	Payment     PaymentState      `json:"payment"`
	TopUps      []TopUpRecord     `json:"topups,omitempty"`
	ArNSNames   map[string]string `json:"arns_names,omitempty"`
	DevMode     bool              `json:"dev_mode,omitempty"`
	LastUpdated time.Time         `json:"last_updated"`
}

// Store is a mutex-guarded state container with file persistence.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage *FileStorage
}

// New creates a store backed by the given file path. The file is loaded if
// it exists; a corrupt file is quarantined and replaced with empty state.
func New(path string) (*Store, error) {
	storage := NewFileStorage(path)
	state, err := storage.Load()
	if err != nil {
		if state == nil {
			return nil, err
		}
		// Corrupt file was quarantined; continue with fresh state.
	}
	return &Store{state: *state, storage: storage}, nil
}

// NewInMemory creates a store with no file persistence. Used by tests.
func NewInMemory() *Store {
	return &Store{state: State{Version: 1}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyStateLocked()
}

// Address returns the active address and wallet kind.
func (s *Store) Address() (string, token.WalletKind) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Address, s.state.WalletKind
}

// Connect records a new wallet session. Connecting through the app's own
// flow also clears payment state: it belongs to the previous session.
func (s *Store) Connect(kind token.WalletKind, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Address = address
	s.state.WalletKind = kind
	s.state.ConnectedAt = time.Now()
	s.state.Payment.Clear()
	return s.persistLocked()
}

// Disconnect destroys the wallet session and all payment state.
func (s *Store) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Address = ""
	s.state.WalletKind = ""
	s.state.ConnectedAt = time.Time{}
	s.state.Payment.Clear()
	return s.persistLocked()
}

// SwitchAddress atomically updates the stored address and wipes all payment
// state. Both happen under one lock so no reader can observe the new address
// alongside the old account's payment context. Hard wipe, no merge.
func (s *Store) SwitchAddress(kind token.WalletKind, newAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Address = newAddress
	s.state.WalletKind = kind
	s.state.Payment.Clear()
	return s.persistLocked()
}

// UpdatePayment applies a mutation to the payment state.
func (s *Store) UpdatePayment(fn func(*PaymentState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state.Payment)
	return s.persistLocked()
}

// Payment returns a copy of the current payment state.
func (s *Store) Payment() PaymentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Payment
}

// AppendTopUp records a top-up attempt in the history.
func (s *Store) AppendTopUp(rec TopUpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.state.TopUps = append(s.state.TopUps, rec)
	return s.persistLocked()
}

// TopUps returns a copy of the top-up history.
func (s *Store) TopUps() []TopUpRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TopUpRecord, len(s.state.TopUps))
	copy(out, s.state.TopUps)
	return out
}

// SetArNSName caches a resolved ArNS name.
func (s *Store) SetArNSName(name, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ArNSNames == nil {
		s.state.ArNSNames = make(map[string]string)
	}
	s.state.ArNSNames[name] = target
	return s.persistLocked()
}

// SetDevMode toggles the developer network profile flag.
func (s *Store) SetDevMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DevMode = on
	return s.persistLocked()
}

func (s *Store) copyStateLocked() State {
	st := s.state
	st.TopUps = make([]TopUpRecord, len(s.state.TopUps))
	copy(st.TopUps, s.state.TopUps)
	if s.state.ArNSNames != nil {
		st.ArNSNames = make(map[string]string, len(s.state.ArNSNames))
		for k, v := range s.state.ArNSNames {
			st.ArNSNames[k] = v
		}
	}
	return st
}

func (s *Store) persistLocked() error {
	s.state.LastUpdated = time.Now()
	if s.storage == nil {
		return nil
	}
	st := s.copyStateLocked()
	return s.storage.Save(&st)
}
