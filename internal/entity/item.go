package entity

import "time"

type ItemStatus string

const (
	StatusAvailable ItemStatus = "AVAILABLE"
	StatusReserved  ItemStatus = "RESERVED"
	StatusIssued    ItemStatus = "ISSUED"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusIssued:
		return true
	default:
		return false
	}
}

// transitions lists every edge of the copy state machine.
// AVAILABLE -> ISSUED is the immediate issue path.
var transitions = map[ItemStatus][]ItemStatus{
	StatusAvailable: {StatusReserved, StatusIssued},
	StatusReserved:  {StatusIssued, StatusAvailable},
	StatusIssued:    {StatusAvailable},
}

func CanTransition(from, to ItemStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookItem is one physical copy of a Book.
type BookItem struct {
	ID          string     `json:"id"`
	BookID      string     `json:"book_id"`
	AccessionNo string     `json:"acc_no"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
