// Package errors provides structured error handling for the Turbo CLI.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitAuth       = 3 // Authentication or signing failed
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied or insufficient funds
	ExitService    = 6 // Payment service rejected or unreachable
)

// TurboError is the structured error type for the Turbo CLI.
type TurboError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *TurboError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TurboError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for TurboError.
func (e *TurboError) Is(target error) bool {
	var t *TurboError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &TurboError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &TurboError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &TurboError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrInsufficientFunds = &TurboError{
		Code:     "INSUFFICIENT_FUNDS",
		Message:  "insufficient funds for transaction",
		ExitCode: ExitPermission,
	}

	// Wallet and signer errors.
	ErrWalletNotFound = &TurboError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "no compatible wallet found",
		ExitCode: ExitNotFound,
	}

	ErrSignatureRejected = &TurboError{
		Code:     "SIGNATURE_REJECTED",
		Message:  "signature request was rejected",
		ExitCode: ExitAuth,
	}

	ErrDecryptionFailed = &TurboError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted key file",
		ExitCode: ExitAuth,
	}

	ErrInvalidMnemonic = &TurboError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	// Token and amount errors.
	ErrUnsupportedToken = &TurboError{
		Code:     "UNSUPPORTED_TOKEN",
		Message:  "unsupported token type",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &TurboError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &TurboError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidTransactionID = &TurboError{
		Code:     "INVALID_TRANSACTION_ID",
		Message:  "invalid transaction id",
		ExitCode: ExitInput,
	}

	// Pricing errors.
	ErrPricingUnavailable = &TurboError{
		Code:     "PRICING_UNAVAILABLE",
		Message:  "pricing unavailable",
		ExitCode: ExitService,
	}

	ErrQuoteExpired = &TurboError{
		Code:     "QUOTE_EXPIRED",
		Message:  "price quote has expired",
		ExitCode: ExitGeneral,
	}

	// Payment service errors.
	ErrServiceError = &TurboError{
		Code:     "SERVICE_ERROR",
		Message:  "payment service returned an error",
		ExitCode: ExitService,
	}

	ErrServiceUnavailable = &TurboError{
		Code:     "SERVICE_UNAVAILABLE",
		Message:  "payment service unreachable",
		ExitCode: ExitService,
	}

	ErrTopUpFailed = &TurboError{
		Code:     "TOPUP_FAILED",
		Message:  "top-up submission failed",
		ExitCode: ExitService,
	}

	ErrAlreadySubmitted = &TurboError{
		Code:     "ALREADY_SUBMITTED",
		Message:  "transaction already submitted for this flow",
		ExitCode: ExitInput,
	}

	ErrInvalidTransition = &TurboError{
		Code:     "INVALID_TRANSITION",
		Message:  "invalid top-up state transition",
		ExitCode: ExitGeneral,
	}

	ErrGiftNotFound = &TurboError{
		Code:     "GIFT_NOT_FOUND",
		Message:  "gift code not found or already redeemed",
		ExitCode: ExitNotFound,
	}

	// Chain errors.
	ErrNetworkError = &TurboError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	ErrTxRejected = &TurboError{
		Code:     "TX_REJECTED",
		Message:  "transaction rejected by network",
		ExitCode: ExitGeneral,
	}

	// Config errors.
	ErrConfigNotFound = &TurboError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &TurboError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &TurboError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	// Payment-required (x402) errors.
	ErrPaymentRequired = &TurboError{
		Code:     "PAYMENT_REQUIRED",
		Message:  "resource requires payment",
		ExitCode: ExitPermission,
	}

	ErrPaymentLimitExceeded = &TurboError{
		Code:     "PAYMENT_LIMIT_EXCEEDED",
		Message:  "requested payment exceeds the configured limit",
		ExitCode: ExitPermission,
	}
)

// New creates a new TurboError with the given code and message.
func New(code, message string) *TurboError {
	return &TurboError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var te *TurboError
	if errors.As(err, &te) {
		return &TurboError{
			Code:       te.Code,
			Message:    fmt.Sprintf("%s: %s", msg, te.Message),
			Details:    te.Details,
			Suggestion: te.Suggestion,
			Cause:      err,
			ExitCode:   te.ExitCode,
		}
	}

	return &TurboError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var te *TurboError
	if errors.As(err, &te) {
		return &TurboError{
			Code:       te.Code,
			Message:    te.Message,
			Details:    details,
			Suggestion: te.Suggestion,
			Cause:      te.Cause,
			ExitCode:   te.ExitCode,
		}
	}

	return &TurboError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var te *TurboError
	if errors.As(err, &te) {
		return &TurboError{
			Code:       te.Code,
			Message:    te.Message,
			Details:    te.Details,
			Suggestion: suggestion,
			Cause:      te.Cause,
			ExitCode:   te.ExitCode,
		}
	}

	return &TurboError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var te *TurboError
	if errors.As(err, &te) {
		return te.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var te *TurboError
	if errors.As(err, &te) {
		return te.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
