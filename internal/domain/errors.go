package domain

import (
	"errors"
	"fmt"
)

// Error codes shared by the engine and the HTTP layer.
const (
	CodeUnauthorized      = "unauthorized"
	CodeSystemPaused      = "system_paused"
	CodeInsufficientFunds = "insufficient_funds"
	CodeInsufficientFee   = "insufficient_fee"
	CodeDuplicateVote     = "duplicate_vote"
	CodeDuplicatePolicy   = "duplicate_policy"
	CodeDuplicateFlight   = "duplicate_flight"
	CodeDuplicateAirline  = "duplicate_airline"
	CodeDuplicateOracle   = "duplicate_oracle"
	CodeUnknownFlight     = "unknown_flight"
	CodeUnknownAirline    = "unknown_airline"
	CodeCapExceeded       = "cap_exceeded"
	CodeZeroBalance       = "zero_balance"
	CodeAlreadyResolved   = "already_resolved"
	CodeAlreadyApproved   = "already_approved"
	CodeRequestNotOpen    = "request_not_open"
	CodeInvalidAmount     = "invalid_amount"
)

// Sentinels for errors.Is; detailed errors built with Errorf match them by code.
var (
	ErrUnauthorized      = DomainError{Code: CodeUnauthorized}
	ErrSystemPaused      = DomainError{Code: CodeSystemPaused}
	ErrInsufficientFunds = DomainError{Code: CodeInsufficientFunds}
	ErrInsufficientFee   = DomainError{Code: CodeInsufficientFee}
	ErrDuplicateVote     = DomainError{Code: CodeDuplicateVote}
	ErrDuplicatePolicy   = DomainError{Code: CodeDuplicatePolicy}
	ErrDuplicateFlight   = DomainError{Code: CodeDuplicateFlight}
	ErrDuplicateAirline  = DomainError{Code: CodeDuplicateAirline}
	ErrDuplicateOracle   = DomainError{Code: CodeDuplicateOracle}
	ErrUnknownFlight     = DomainError{Code: CodeUnknownFlight}
	ErrUnknownAirline    = DomainError{Code: CodeUnknownAirline}
	ErrCapExceeded       = DomainError{Code: CodeCapExceeded}
	ErrZeroBalance       = DomainError{Code: CodeZeroBalance}
	ErrAlreadyResolved   = DomainError{Code: CodeAlreadyResolved}
	ErrAlreadyApproved   = DomainError{Code: CodeAlreadyApproved}
	ErrRequestNotOpen    = DomainError{Code: CodeRequestNotOpen}
	ErrInvalidAmount     = DomainError{Code: CodeInvalidAmount}
)

// DomainError carries a stable code plus an optional detail error.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so detailed errors
// compare equal to the bare sentinel.
func (e DomainError) Is(target error) bool {
	t, ok := target.(DomainError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Errorf attaches a formatted detail to a sentinel.
func Errorf(sentinel DomainError, format string, args ...any) error {
	return DomainError{Code: sentinel.Code, Err: fmt.Errorf(format, args...)}
}

// CodeOf returns the DomainError code in err's chain, or "".
func CodeOf(err error) string {
	var target DomainError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
