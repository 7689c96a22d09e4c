package repository

import (
	"context"
	"errors"

	"github.com/pashagolub/pgxmock/v4"
)

type txLayer uint

const (
	none txLayer = iota
	extract
)

type errLayer uint

const (
	null errLayer = iota
	db
	scan
	f
	beginTx
	commitTx
	rollBackTx
)

var errInternal = errors.New("internal error")

func insertTxInMock(ctx context.Context, mock pgxmock.PgxPoolIface) context.Context {
	mock.ExpectBegin()
	tx, _ := mock.Begin(ctx)
	ctx = context.WithValue(ctx, txInjector{}, tx)
	return ctx
}

var (
	bookRowColumns = []string{"id", "title", "description", "created_at", "updated_at", "author_ids", "subjects"}
	itemRowColumns = []string{"id", "book_id", "accession_no", "status", "created_at", "updated_at"}
	txRowColumns   = []string{
		"id", "book_id", "item_id", "user_id", "kind", "related_id",
		"processed_by", "created_at", "due_at", "returned_at", "closed_at",
	}
)
