package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
)

const (
	constraintOpenIssue        = "book_transaction_open_issue_idx"
	constraintOpenReservation  = "book_transaction_open_reservation_idx"
	constraintUserReservation  = "book_transaction_user_reservation_idx"
	transactionTable           = "book_transaction"
	transactionSelectFragment  = "id, book_id, item_id, user_id, kind, related_id, processed_by, created_at, due_at, returned_at, closed_at"
	transactionOrderByFragment = "created_at DESC, id DESC"
)

var transactionColumns = []any{
	"id", "book_id", "item_id", "user_id", "kind", "related_id",
	"processed_by", "created_at", "due_at", "returned_at", "closed_at",
}

var dialect = goqu.Dialect("postgres")

var _ LedgerRepository = (*ledgerRepository)(nil)

type ledgerRepository struct {
	logger *zap.Logger
	db     DataBase
}

func NewLedger(logger *zap.Logger, db DataBase) *ledgerRepository {
	return &ledgerRepository{
		logger: logger,
		db:     db,
	}
}

func scanTransaction(row pgx.Row) (entity.Transaction, error) {
	var (
		t         entity.Transaction
		kind      string
		relatedID *string
	)

	err := row.Scan(&t.ID, &t.BookID, &t.ItemID, &t.UserID, &kind, &relatedID,
		&t.ProcessedBy, &t.CreatedAt, &t.DueAt, &t.ReturnedAt, &t.ClosedAt)

	t.Kind = entity.TransactionKind(kind)
	if relatedID != nil {
		t.RelatedID = *relatedID
	}

	return t, err
}

func (l *ledgerRepository) AppendTransaction(ctx context.Context, t entity.Transaction) error {
	const query = `
INSERT INTO book_transaction
(id, book_id, item_id, user_id, kind, related_id, processed_by, created_at, due_at, returned_at, closed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err := conn(ctx, l.db).Exec(ctx, query, t.ID, t.BookID, t.ItemID, t.UserID, string(t.Kind),
		nullable(t.RelatedID), t.ProcessedBy, t.CreatedAt, t.DueAt, t.ReturnedAt, t.ClosedAt)

	code, constraint := pgCode(err)
	switch {
	case err == nil:
		return nil
	case code == ErrUniqueViolation && constraint == constraintUserReservation:
		return entity.ErrDuplicateReservation
	case code == ErrUniqueViolation && (constraint == constraintOpenIssue || constraint == constraintOpenReservation):
		return fmt.Errorf("item %s already has an open %s: %w", t.ItemID, t.Kind, entity.ErrStatusConflict)
	case code == ErrForeignKeyViolation:
		return entity.ErrUnknownBook
	default:
		return err
	}
}

func (l *ledgerRepository) GetTransaction(ctx context.Context, transactionID string) (entity.Transaction, error) {
	query := `SELECT ` + transactionSelectFragment + ` FROM ` + transactionTable + ` WHERE id = $1`

	t, err := scanTransaction(conn(ctx, l.db).QueryRow(ctx, query, transactionID))
	if err != nil {
		return entity.Transaction{}, notFound(err, entity.ErrTransactionNotFound)
	}

	return t, nil
}

func (l *ledgerRepository) StampReturn(ctx context.Context, transactionID string, at time.Time) error {
	const query = `
UPDATE book_transaction SET returned_at = $1
WHERE id = $2 AND kind = 'ISSUE' AND returned_at IS NULL
`
	return l.closeOnce(ctx, query, transactionID, at, entity.ErrAlreadyReturned)
}

func (l *ledgerRepository) CloseReservation(ctx context.Context, transactionID string, at time.Time) error {
	const query = `
UPDATE book_transaction SET closed_at = $1
WHERE id = $2 AND kind = 'RESERVATION' AND closed_at IS NULL
`
	return l.closeOnce(ctx, query, transactionID, at, entity.ErrReservationClosed)
}

func (l *ledgerRepository) closeOnce(ctx context.Context, query, transactionID string, at time.Time, closed error) error {
	tag, err := conn(ctx, l.db).Exec(ctx, query, at, transactionID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return closed
	}

	return nil
}

func (l *ledgerRepository) ListTransactions(ctx context.Context, filter LedgerFilter) ([]entity.Transaction, error) {
	ds := dialect.From(transactionTable).
		Select(transactionColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())

	if filter.BookID != "" {
		ds = ds.Where(goqu.C("book_id").Eq(filter.BookID))
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.C("user_id").Eq(filter.UserID))
	}
	if filter.Kind != "" {
		ds = ds.Where(goqu.C("kind").Eq(string(filter.Kind)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	return l.queryTransactions(ctx, query, args...)
}

func (l *ledgerRepository) OpenTransactionsForItem(ctx context.Context, itemID string) ([]entity.Transaction, error) {
	query := `SELECT ` + transactionSelectFragment + ` FROM ` + transactionTable + `
WHERE item_id = $1
  AND ((kind = 'ISSUE' AND returned_at IS NULL) OR (kind = 'RESERVATION' AND closed_at IS NULL))
ORDER BY ` + transactionOrderByFragment

	return l.queryTransactions(ctx, query, itemID)
}

func (l *ledgerRepository) StaleReservations(ctx context.Context, before time.Time, limit int) ([]entity.Transaction, error) {
	query := `SELECT ` + transactionSelectFragment + ` FROM ` + transactionTable + `
WHERE kind = 'RESERVATION' AND closed_at IS NULL AND created_at < $1
ORDER BY created_at
LIMIT $2`

	return l.queryTransactions(ctx, query, before, limit)
}

func (l *ledgerRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]entity.Transaction, error) {
	rows, err := conn(ctx, l.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

// IssueCounts counts ISSUE entries per book created at or after since.
func (l *ledgerRepository) IssueCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	query, args, err := dialect.From(transactionTable).
		Select(goqu.C("book_id"), goqu.COUNT(goqu.Star()).As("issues")).
		Where(
			goqu.C("kind").Eq(string(entity.KindIssue)),
			goqu.C("created_at").Gte(since),
		).
		GroupBy(goqu.C("book_id")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, l.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			bookID string
			issues int64
		)
		if err = rows.Scan(&bookID, &issues); err != nil {
			return nil, err
		}
		counts[bookID] = int(issues)
	}

	return counts, rows.Err()
}
