package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/project/circulation/internal/entity"
)

func Test_ledgerRepository_AppendTransaction(t *testing.T) {
	t.Parallel()

	now := time.Now()
	reservation := entity.Transaction{
		ID:        "t1",
		BookID:    "book1",
		ItemID:    "item1",
		UserID:    "u1",
		Kind:      entity.KindReservation,
		CreatedAt: now,
	}

	tests := []struct {
		name       string
		txL        txLayer
		err        error
		errRequire error
	}{
		{
			name: "ok without transaction",
			txL:  none,
		},
		{
			name: "ok with transaction",
			txL:  extract,
		},
		{
			name:       "second open reservation for the same user",
			err:        &pgconn.PgError{Code: ErrUniqueViolation, ConstraintName: constraintUserReservation},
			errRequire: entity.ErrDuplicateReservation,
		},
		{
			name:       "item already reserved",
			err:        &pgconn.PgError{Code: ErrUniqueViolation, ConstraintName: constraintOpenReservation},
			errRequire: entity.ErrStatusConflict,
		},
		{
			name:       "unknown book",
			err:        &pgconn.PgError{Code: ErrForeignKeyViolation},
			errRequire: entity.ErrUnknownBook,
		},
		{
			name:       "db error",
			err:        errInternal,
			errRequire: errInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			ctx := context.Background()
			if tt.txL == extract {
				ctx = insertTxInMock(ctx, mock)
			}

			expected := mock.ExpectExec(`INSERT INTO book_transaction`).
				WithArgs("t1", "book1", "item1", "u1", "RESERVATION", nil, "", now,
					(*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil))
			if tt.err != nil {
				expected.WillReturnError(tt.err)
			} else {
				expected.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err = NewLedger(nil, mock).AppendTransaction(ctx, reservation)
			require.ErrorIs(t, err, tt.errRequire)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func Test_ledgerRepository_StampReturn(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name       string
		affected   int64
		errRequire error
	}{
		{name: "stamped", affected: 1},
		{name: "already returned", affected: 0, errRequire: entity.ErrAlreadyReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			mock.ExpectExec(`UPDATE book_transaction SET returned_at`).WithArgs(now, "t1").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err = NewLedger(nil, mock).StampReturn(context.Background(), "t1", now)
			require.ErrorIs(t, err, tt.errRequire)
		})
	}
}

func Test_ledgerRepository_GetTransaction(t *testing.T) {
	t.Parallel()

	now := time.Now()
	due := now.Add(time.Hour)
	related := "t0"

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		mock.ExpectQuery(`FROM book_transaction WHERE id`).WithArgs("t1").
			WillReturnRows(pgxmock.NewRows(txRowColumns).
				AddRow("t1", "book1", "item1", "u1", "ISSUE", &related, "issuer", now, &due,
					(*time.Time)(nil), (*time.Time)(nil)))

		got, err := NewLedger(nil, mock).GetTransaction(context.Background(), "t1")
		require.NoError(t, err)
		require.Equal(t, entity.KindIssue, got.Kind)
		require.Equal(t, "t0", got.RelatedID)
		require.Equal(t, due, *got.DueAt)
		require.True(t, got.Open())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		mock.ExpectQuery(`FROM book_transaction WHERE id`).WithArgs("t1").
			WillReturnRows(pgxmock.NewRows(txRowColumns))

		_, err = NewLedger(nil, mock).GetTransaction(context.Background(), "t1")
		require.ErrorIs(t, err, entity.ErrTransactionNotFound)
	})
}

func Test_ledgerRepository_ListTransactions(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name   string
		filter LedgerFilter
		args   []any
	}{
		{
			name:   "book and type",
			filter: LedgerFilter{BookID: "book1", Kind: entity.KindIssue},
			args:   []any{"book1", "ISSUE"},
		},
		{
			name:   "everything",
			filter: LedgerFilter{},
			args:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			expected := mock.ExpectQuery(`FROM "book_transaction"`)
			if tt.args != nil {
				expected = expected.WithArgs(tt.args...)
			}
			expected.WillReturnRows(pgxmock.NewRows(txRowColumns).
				AddRow("t2", "book1", "item1", "u1", "ISSUE", (*string)(nil), "", now,
					(*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil)).
				AddRow("t1", "book1", "item1", "u1", "ISSUE", (*string)(nil), "", now.Add(-time.Hour),
					(*time.Time)(nil), &now, (*time.Time)(nil)))

			got, err := NewLedger(nil, mock).ListTransactions(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.Equal(t, "t2", got[0].ID)
			require.False(t, got[1].Open())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func Test_ledgerRepository_IssueCounts(t *testing.T) {
	t.Parallel()

	since := time.Now().Add(-24 * time.Hour)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectQuery(`GROUP BY "book_id"`).WithArgs("ISSUE", since).
		WillReturnRows(pgxmock.NewRows([]string{"book_id", "issues"}).
			AddRow("book1", int64(3)).
			AddRow("book2", int64(1)))

	counts, err := NewLedger(nil, mock).IssueCounts(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"book1": 3, "book2": 1}, counts)
}
