package disperse

import (
	"errors"
	"fmt"
)

// Input errors. Reported per line, never fatal to the session.
var (
	ErrMalformedLine  = errors.New("malformed line")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyBatch     = errors.New("empty batch")
)

// Gateway errors. Surfaced through the session's last error.
var (
	ErrWalletUnavailable = errors.New("wallet unavailable")
	ErrUserRejected      = errors.New("user rejected")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTimeout           = errors.New("confirmation timeout")
	ErrReverted          = errors.New("transaction reverted")
	ErrGateway           = errors.New("gateway error")
)

// Session command errors.
var (
	ErrAlreadyInFlight    = errors.New("a transaction is already in flight")
	ErrNotReady           = errors.New("no batch ready to submit")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrRetryNotAllowed    = errors.New("retry not allowed")
	ErrInvariantViolation = errors.New("invariant violation")
)

// GatewayError is a provider failure that does not fit a more specific category
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %s: %v", e.Message, e.Err)
	}
	return "gateway error: " + e.Message
}

// Unwrap lets errors.Is match both ErrGateway and the cause
func (e *GatewayError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGateway, e.Err}
	}
	return []error{ErrGateway}
}

// IsGatewayError checks if error is GatewayError
func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}

// InvariantError means upstream validation let through something it must not have.
type InvariantError struct {
	Check   string
	Details string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s (%s)", e.Check, e.Details)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// TransitionError reports a command issued in a state that does not accept it
type TransitionError struct {
	Command string
	State   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s not allowed in state %s", e.Command, e.State)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ErrSessionReset is returned to a command whose session was disconnected while it
// was suspended on the gateway.
var ErrSessionReset = errors.New("session was reset")
