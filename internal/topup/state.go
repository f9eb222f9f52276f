// Package topup drives the two-phase manual crypto top-up: a native
// transfer to the payment service's wallet, then submission of the
// transaction ID for crediting. The two phases are not atomic; a resume
// path re-enters phase two with a user-supplied transaction ID when the
// client-side record was lost in between.
package topup

import (
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// State is a top-up flow state.
type State string

// Flow states. Failed is absorbing; a failed attempt is only recoverable
// through a fresh flow or the resume path.
const (
	StateIdle             State = "idle"
	StateNativeSubmitted  State = "native-transaction-submitted"
	StateServiceSubmitted State = "turbo-transaction-submitted"
	StateComplete         State = "complete"
	StateFailed           State = "failed"
)

// validTransitions maps each state to its allowed successors.
var validTransitions = map[State][]State{
	StateIdle:             {StateNativeSubmitted, StateFailed},
	StateNativeSubmitted:  {StateServiceSubmitted, StateFailed},
	StateServiceSubmitted: {StateComplete, StateFailed},
	StateComplete:         {},
	StateFailed:           {},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition validates and returns the new state.
func transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, turboerr.WithDetails(turboerr.ErrInvalidTransition, map[string]string{
			"from": string(from),
			"to":   string(to),
		})
	}
	return to, nil
}

// Terminal reports whether the state accepts no further transitions.
func (s State) Terminal() bool {
	return len(validTransitions[s]) == 0
}

func (s State) String() string {
	return string(s)
}
