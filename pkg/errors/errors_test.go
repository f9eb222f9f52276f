package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurboError_Error(t *testing.T) {
	t.Parallel()

	t.Run("message only", func(t *testing.T) {
		err := &TurboError{Code: "TEST", Message: "something broke"}
		assert.Equal(t, "something broke", err.Error())
	})

	t.Run("with details sorted", func(t *testing.T) {
		err := &TurboError{
			Code:    "TEST",
			Message: "something broke",
			Details: map[string]string{"b": "2", "a": "1"},
		}
		assert.Equal(t, "something broke (a: 1) (b: 2)", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := &TurboError{Code: "TEST", Message: "something broke", Cause: cause}
		assert.Equal(t, "something broke: root cause", err.Error())
	})
}

func TestTurboError_Is(t *testing.T) {
	t.Parallel()

	wrapped := Wrap(ErrPricingUnavailable, "fetching quote for %s", "solana")
	assert.True(t, errors.Is(wrapped, ErrPricingUnavailable))
	assert.False(t, errors.Is(wrapped, ErrTopUpFailed))
}

func TestTurboError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("io failure")
	err := Wrap(cause, "loading wallet")
	assert.True(t, errors.Is(err, cause))
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()

	err := WithSuggestion(ErrWalletNotFound, "run 'turbo wallet import' first")

	var te *TurboError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "WALLET_NOT_FOUND", te.Code)
	assert.Equal(t, "run 'turbo wallet import' first", te.Suggestion)
	assert.Equal(t, ExitNotFound, te.ExitCode)
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := WithDetails(ErrTopUpFailed, map[string]string{"txid": "abc123"})

	var te *TurboError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "TOPUP_FAILED", te.Code)
	assert.Equal(t, "abc123", te.Details["txid"])
}

func TestWithDetails_PlainError(t *testing.T) {
	t.Parallel()

	err := WithDetails(errors.New("plain"), map[string]string{"k": "v"})

	var te *TurboError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "GENERAL_ERROR", te.Code)
}

func TestWrap_NilError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, WithDetails(nil, nil))
	assert.NoError(t, WithSuggestion(nil, "s"))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("x"), ExitGeneral},
		{"invalid input", ErrInvalidAmount, ExitInput},
		{"wallet not found", ErrWalletNotFound, ExitNotFound},
		{"service error", ErrServiceError, ExitService},
		{"wrapped keeps code", fmt.Errorf("outer: %w", ErrTopUpFailed), ExitService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PRICING_UNAVAILABLE", Code(ErrPricingUnavailable))
	assert.Equal(t, "GENERAL_ERROR", Code(errors.New("x")))
}
