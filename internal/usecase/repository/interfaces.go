package repository

import (
	"context"
	"time"

	"github.com/project/circulation/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/repository_mock.go -package=mocks

type (
	CatalogRepository interface {
		AddBook(ctx context.Context, book entity.Book) (entity.Book, error)
		UpdateBook(ctx context.Context, book entity.Book) (entity.Book, error)
		GetBook(ctx context.Context, bookID string) (entity.Book, error)
		ListBooks(ctx context.Context) ([]entity.Book, error)
		SearchBooks(ctx context.Context, title string) ([]entity.Book, error)
		DeleteBook(ctx context.Context, bookID string) error

		AddAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		GetAuthor(ctx context.Context, authorID string) (entity.Author, error)
		ListAuthors(ctx context.Context) ([]entity.Author, error)
		DeleteAuthor(ctx context.Context, authorID string) error

		ListSubjects(ctx context.Context) ([]string, error)
	}

	InventoryRepository interface {
		AddItem(ctx context.Context, item entity.BookItem) (entity.BookItem, error)
		GetItem(ctx context.Context, itemID string) (entity.BookItem, error)
		ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error)
		// FindAvailable returns the AVAILABLE copy with the lowest accession
		// number. ok is false when there is none.
		FindAvailable(ctx context.Context, bookID string) (item entity.BookItem, ok bool, err error)
		// CompareAndSetStatus moves the copy to next only if its status is
		// still expected.
		CompareAndSetStatus(ctx context.Context, itemID string, expected, next entity.ItemStatus) error
		DeleteItem(ctx context.Context, itemID string) error
		// DeleteAllForBook removes every copy of the book or none of them.
		DeleteAllForBook(ctx context.Context, bookID string) (int, error)
	}

	LedgerRepository interface {
		AppendTransaction(ctx context.Context, transaction entity.Transaction) error
		GetTransaction(ctx context.Context, transactionID string) (entity.Transaction, error)
		// StampReturn sets returned_at on an open ISSUE.
		StampReturn(ctx context.Context, transactionID string, at time.Time) error
		// CloseReservation sets closed_at on an open RESERVATION.
		CloseReservation(ctx context.Context, transactionID string, at time.Time) error
		ListTransactions(ctx context.Context, filter LedgerFilter) ([]entity.Transaction, error)
		OpenTransactionsForItem(ctx context.Context, itemID string) ([]entity.Transaction, error)
		StaleReservations(ctx context.Context, before time.Time, limit int) ([]entity.Transaction, error)
		IssueCounts(ctx context.Context, since time.Time) (map[string]int, error)
	}

	OutboxRepository interface {
		SendMessage(ctx context.Context, idempotencyKey string, kind OutboxKind, message []byte) error
		GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]OutboxData, error)
		MarkAs(ctx context.Context, idempotencyKeys []string, s Status) error
	}

	OutboxData struct {
		IdempotencyKey string
		Kind           OutboxKind
		RawData        []byte
	}

	Transactor interface {
		WithTx(ctx context.Context, function func(ctx context.Context) error) error
	}
)

// LedgerFilter narrows ListTransactions. Zero fields match everything.
type LedgerFilter struct {
	BookID string
	UserID string
	Kind   entity.TransactionKind
}

type OutboxKind int

const (
	OutboxKindUndefined OutboxKind = iota
	OutboxKindAuthor
	OutboxKindBook
	OutboxKindTransaction
	OutboxKindReconcile
)

func (o OutboxKind) String() string {
	switch o {
	case OutboxKindAuthor:
		return "author"
	case OutboxKindBook:
		return "book"
	case OutboxKindTransaction:
		return "transaction"
	case OutboxKindReconcile:
		return "reconcile"
	default:
		return "undefined"
	}
}
