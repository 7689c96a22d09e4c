package entity

import (
	"fmt"
	"strings"
	"time"
)

type TransactionKind string

const (
	KindReservation TransactionKind = "RESERVATION"
	KindIssue       TransactionKind = "ISSUE"
	KindReturn      TransactionKind = "RETURN"
)

// ParseTransactionKind accepts the kind in any letter case.
func ParseTransactionKind(s string) (TransactionKind, error) {
	kind := TransactionKind(strings.ToUpper(strings.TrimSpace(s)))
	switch kind {
	case KindReservation, KindIssue, KindReturn:
		return kind, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidKind)
	}
}

// Transaction is an append-only ledger entry.
//
// A RESERVATION is closed (ClosedAt) when it is promoted or cancelled.
// An ISSUE is closed by stamping ReturnedAt. A RETURN is written closed and
// points at its ISSUE through RelatedID, as does an ISSUE promoted from a
// reservation.
type Transaction struct {
	ID          string          `json:"id"`
	BookID      string          `json:"book_id"`
	ItemID      string          `json:"item_id"`
	UserID      string          `json:"user_id"`
	Kind        TransactionKind `json:"type"`
	RelatedID   string          `json:"related_id,omitempty"`
	ProcessedBy string          `json:"processed_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
	ReturnedAt  *time.Time      `json:"returned_at,omitempty"`
	ClosedAt    *time.Time      `json:"closed_at,omitempty"`
}

// Open reports whether the entry still holds its copy.
func (t Transaction) Open() bool {
	switch t.Kind {
	case KindReservation:
		return t.ClosedAt == nil
	case KindIssue:
		return t.ReturnedAt == nil
	default:
		return false
	}
}
