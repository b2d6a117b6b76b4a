package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected server-side failure.
var ErrInternal = errors.New("internal error")

// Ledger errors. Every failure of the posting engine is one of these.
var (
	// ErrInvalidAmount is returned for a negative or over-precision money value.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnbalancedEntry is returned when total debits differ from total credits.
	// It signals a defect in whatever built the entry and must not be retried.
	ErrUnbalancedEntry = errors.New("unbalanced journal entry")

	// ErrAccountNotFound is returned when a line references an unknown account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicatePosting is returned when a posted entry already exists for the idempotency key.
	// Callers may treat it as "already done".
	ErrDuplicatePosting = errors.New("duplicate posting")

	// ErrInvalidStateTransition is returned for a transition the journal state machine forbids.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrTransactionAborted is returned when the storage transaction failed and was rolled back.
	// Retrying the whole call is safe.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrLedgerInconsistent is returned when a projection finds debits and credits out of balance.
	ErrLedgerInconsistent = errors.New("ledger inconsistent")
)

var ledgerErrors = []error{
	ErrInvalidAmount,
	ErrUnbalancedEntry,
	ErrAccountNotFound,
	ErrDuplicatePosting,
	ErrInvalidStateTransition,
	ErrTransactionAborted,
	ErrLedgerInconsistent,
	ErrNotFound,
	ErrValidation,
	ErrDuplicate,
}

// IsLedgerError reports whether err already carries one of the typed failures above.
func IsLedgerError(err error) bool {
	for _, target := range ledgerErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the caller may safely retry the operation that produced err.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionAborted)
}

// AppError carries an HTTP-facing code and message alongside the wrapped cause.
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

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the name of the missing resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
