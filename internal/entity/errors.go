package entity

import (
	"errors"
	"fmt"
)

// Kinds. Every domain error wraps exactly one of them.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrUnavailable     = errors.New("unavailable")
	ErrInternal        = errors.New("internal error")
)

var (
	ErrBookNotFound        = fmt.Errorf("book not found: %w", ErrNotFound)
	ErrAuthorNotFound      = fmt.Errorf("author not found: %w", ErrNotFound)
	ErrItemNotFound        = fmt.Errorf("book item not found: %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction not found: %w", ErrNotFound)
	ErrUnknownBook         = fmt.Errorf("unknown book: %w", ErrNotFound)

	ErrDuplicateAccession   = fmt.Errorf("accession number already exists: %w", ErrConflict)
	ErrStatusConflict       = fmt.Errorf("item status changed concurrently: %w", ErrConflict)
	ErrItemNotAvailable     = fmt.Errorf("item is not available: %w", ErrConflict)
	ErrNotReserved          = fmt.Errorf("item is not reserved: %w", ErrConflict)
	ErrDuplicateReservation = fmt.Errorf("user already holds a reservation for this book: %w", ErrConflict)

	ErrAlreadyReturned   = fmt.Errorf("transaction already returned: %w", ErrAlreadyClosed)
	ErrReservationClosed = fmt.Errorf("reservation already closed: %w", ErrAlreadyClosed)

	ErrNoCopiesAvailable = fmt.Errorf("no copies available: %w", ErrUnavailable)

	ErrNotAnIssue        = fmt.Errorf("transaction is not an issue: %w", ErrValidation)
	ErrInvalidVector     = fmt.Errorf("feature vector dimension mismatch: %w", ErrValidation)
	ErrInvalidTransition = fmt.Errorf("illegal item status transition: %w", ErrValidation)
	ErrInvalidKind       = fmt.Errorf("unknown transaction type: %w", ErrValidation)

	ErrRoleNotAllowed = fmt.Errorf("role not allowed: %w", ErrForbidden)
	ErrNotOwner       = fmt.Errorf("not the owner: %w", ErrForbidden)
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrConflict,
	ErrForbidden,
	ErrUnauthenticated,
	ErrAlreadyClosed,
	ErrUnavailable,
	ErrInternal,
}

// KindOf returns the kind sentinel of err, ErrInternal for foreign errors and
// nil for a nil error.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// IsDomain reports whether err carries one of the kinds above.
func IsDomain(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
