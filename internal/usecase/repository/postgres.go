package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/project/circulation/pkg/logger"
)

const (
	ErrForeignKeyViolation = "23503"
	ErrUniqueViolation     = "23505"
)

// DataBase is the part of pgxpool.Pool the repositories use.
type DataBase interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type executor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// conn runs on the transaction carried by ctx when there is one.
func conn(ctx context.Context, db DataBase) executor {
	if tx, err := extractTx(ctx); err == nil {
		return tx
	}
	return db
}

// inTx runs function on the ctx transaction, or on a fresh one that is
// committed when function succeeds.
func inTx(ctx context.Context, db DataBase, l *zap.Logger, function func(q executor) error) (err error) {
	if tx, txErr := extractTx(ctx); txErr == nil {
		return function(tx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			rbErr := tx.Rollback(ctx)
			logger.CheckError(rbErr, l, "failed rollback of tx", zap.Error(rbErr))
		}
	}()

	if err = function(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func notFound(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
