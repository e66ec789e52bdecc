package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrPartialApplication indicates that some but not all steps of a multi-account
// balance operation completed. Match with errors.Is; the concrete error is
// always a *PartialApplicationError carrying reconciliation detail.
var ErrPartialApplication = errors.New("partial application of balance changes")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// EffectDetail describes one balance delta within a multi-step operation, for
// reconciliation logging when the operation fails partway.
type EffectDetail struct {
	AccountID string
	Delta     string // decimal string form; avoids a dependency on the domain package
}

// PartialApplicationError reports that a multi-account balance operation failed
// after some effects had already been applied and could not be rolled back.
// It must never be swallowed: callers surface it so operators can reconcile.
type PartialApplicationError struct {
	TransactionID string
	Applied       []EffectDetail // effects that committed
	Failed        EffectDetail   // the effect that failed
	Err           error
}

func (e *PartialApplicationError) Error() string {
	applied := make([]string, len(e.Applied))
	for i, eff := range e.Applied {
		applied[i] = fmt.Sprintf("%s:%s", eff.AccountID, eff.Delta)
	}
	return fmt.Sprintf("partial application for transaction %s: applied [%s], failed %s:%s: %v",
		e.TransactionID, strings.Join(applied, ", "), e.Failed.AccountID, e.Failed.Delta, e.Err)
}

func (e *PartialApplicationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPartialApplication) match this error type.
func (e *PartialApplicationError) Is(target error) bool {
	return target == ErrPartialApplication
}
