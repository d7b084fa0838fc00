package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	NotFound               ErrorCode = "not_found"
	AlreadyExists          ErrorCode = "already_exists"
	InvalidAmount          ErrorCode = "invalid_amount"
	InsufficientFunds      ErrorCode = "insufficient_funds"
	WrongPin               ErrorCode = "wrong_pin"
	Locked                 ErrorCode = "account_locked"
	TargetLocked           ErrorCode = "target_locked"
	SameAccount            ErrorCode = "same_account"
	Mismatch               ErrorCode = "pin_mismatch"
	TooShort               ErrorCode = "pin_too_short"
	PersistFailure         ErrorCode = "persist_failure"
	HashFailure            ErrorCode = "hash_failure"
	PartialTransferFailure ErrorCode = "partial_transfer_failure"
	InvalidInput           ErrorCode = "invalid_input"
	InternalError          ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Is re-exports the standard library check so callers importing this
// package do not also need a stdlib errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As re-exports the standard library check, see Is.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is matches on code so callers can use errors.Is against the predefined
// errors below regardless of message formatting.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Predefined errors for common cases
var (
	ErrAccountNotFound   = NewAppError(NotFound, "account not found")
	ErrAlreadyExists     = NewAppError(AlreadyExists, "account number already exists")
	ErrInvalidAmount     = NewAppError(InvalidAmount, "amount must be positive")
	ErrInsufficientFunds = NewAppError(InsufficientFunds, "insufficient funds")
	ErrWrongPin          = NewAppError(WrongPin, "incorrect PIN")
	ErrLocked            = NewAppError(Locked, "account is locked")
	ErrTargetLocked      = NewAppError(TargetLocked, "target account is locked")
	ErrSameAccount       = NewAppError(SameAccount, "cannot transfer to the same account")
	ErrPinMismatch       = NewAppError(Mismatch, "new PINs do not match")
	ErrPinTooShort       = NewAppError(TooShort, "PIN must be at least 4 characters")
	ErrInvalidNumber     = NewAppError(InvalidInput, "invalid account number")
	ErrHashFailure       = NewAppError(HashFailure, "failed to compute digest")
)
