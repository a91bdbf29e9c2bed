package domain

import "errors"

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable indicates the book is already on loan.
	ErrUnavailable = errors.New("book is not available")
	// ErrLimitExceeded indicates the user already holds the maximum number of loans.
	ErrLimitExceeded = errors.New("loan limit reached")
	// ErrConflict indicates a delete blocked by an active reference.
	ErrConflict = errors.New("conflict")
)

// FailureKind names the category of a failed operation for display.
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureValidation    FailureKind = "validation"
	FailureNotFound      FailureKind = "not_found"
	FailureUnavailable   FailureKind = "unavailable"
	FailureLimitExceeded FailureKind = "limit_exceeded"
	FailureConflict      FailureKind = "conflict"
	FailureInternal      FailureKind = "internal"
)

// KindOf maps err to its failure category. A nil error yields FailureNone.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrValidation):
		return FailureValidation
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrUnavailable):
		return FailureUnavailable
	case errors.Is(err, ErrLimitExceeded):
		return FailureLimitExceeded
	case errors.Is(err, ErrConflict):
		return FailureConflict
	default:
		return FailureInternal
	}
}
