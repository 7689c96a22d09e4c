package circulation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/repository"
)

func (e *Engine) Reserve(ctx context.Context, user entity.User, bookID string) (entity.Transaction, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("book_id", bookID), attribute.String("user_id", user.ID))

	if err := e.policy.Check(user, entity.ActionReserve); err != nil {
		return entity.Transaction{}, err
	}

	if _, err := e.catalog.GetBook(ctx, bookID); err != nil {
		return entity.Transaction{}, e.boundary(err, "failed to look up book")
	}

	reservation, err := e.ledger.OpenReservation(ctx, bookID, user.ID)
	if log.ErrorCopy(e.logger, err, "failed to reserve", traceID, log.Reserve,
		log.Copy{BookID: bookID, UserID: user.ID}) {
		span.RecordError(err)
		return entity.Transaction{}, e.boundary(err, "reserve")
	}

	log.InfoCopy(e.logger, "copy reserved", traceID, log.Reserve, log.Copy{
		BookID:        bookID,
		ItemID:        reservation.ItemID,
		TransactionID: reservation.ID,
		UserID:        user.ID,
	})
	return reservation, nil
}

// ImmediateIssue lends an AVAILABLE copy to borrowerID without a prior
// reservation. An empty borrowerID lends to the caller.
func (e *Engine) ImmediateIssue(ctx context.Context, user entity.User, bookID, borrowerID string) (entity.Transaction, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("book_id", bookID))

	if err := e.policy.Check(user, entity.ActionIssue); err != nil {
		return entity.Transaction{}, err
	}

	if borrowerID == "" {
		borrowerID = user.ID
	}

	if _, err := e.catalog.GetBook(ctx, bookID); err != nil {
		return entity.Transaction{}, e.boundary(err, "failed to look up book")
	}

	issue, err := e.ledger.OpenIssue(ctx, ledger.IssueRequest{
		BookID:      bookID,
		UserID:      borrowerID,
		ProcessedBy: user.ID,
	})
	if log.ErrorCopy(e.logger, err, "failed to issue", traceID, log.ImmediateIssue,
		log.Copy{BookID: bookID, UserID: borrowerID}) {
		span.RecordError(err)
		return entity.Transaction{}, e.boundary(err, "immediate issue")
	}

	log.InfoCopy(e.logger, "copy issued", traceID, log.ImmediateIssue, log.Copy{
		BookID:        bookID,
		ItemID:        issue.ItemID,
		TransactionID: issue.ID,
		UserID:        borrowerID,
	})
	return issue, nil
}

func (e *Engine) reservation(ctx context.Context, transactionID string) (entity.Transaction, error) {
	t, err := e.ledger.Get(ctx, transactionID)
	if err != nil {
		return entity.Transaction{}, e.boundary(err, "failed to get transaction")
	}

	if t.Kind != entity.KindReservation {
		return entity.Transaction{}, fmt.Errorf("transaction %s is %s: %w", t.ID, t.Kind, entity.ErrNotReserved)
	}

	return t, nil
}

// Issue promotes a reservation to an issue of the same copy. Staff may
// promote any reservation, other users only their own.
func (e *Engine) Issue(ctx context.Context, user entity.User, transactionID string) (entity.Transaction, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	if user.ID == "" {
		return entity.Transaction{}, entity.ErrUnauthenticated
	}

	reservation, err := e.reservation(ctx, transactionID)
	if err != nil {
		return entity.Transaction{}, err
	}

	if err = e.policy.CheckOwnerOr(user, reservation.UserID, entity.ActionPromote); err != nil {
		return entity.Transaction{}, err
	}

	issue, err := e.ledger.Promote(ctx, reservation, user.ID)
	c := log.Copy{BookID: reservation.BookID, ItemID: reservation.ItemID, TransactionID: transactionID, UserID: reservation.UserID}
	if log.ErrorCopy(e.logger, err, "failed to promote reservation", traceID, log.Issue, c) {
		span.RecordError(err)
		return entity.Transaction{}, e.boundary(err, "promote")
	}

	log.InfoCopy(e.logger, "reservation promoted", traceID, log.Issue, c)
	return issue, nil
}

func (e *Engine) CancelReservation(ctx context.Context, user entity.User, transactionID string) (entity.Transaction, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	if user.ID == "" {
		return entity.Transaction{}, entity.ErrUnauthenticated
	}

	reservation, err := e.reservation(ctx, transactionID)
	if err != nil {
		return entity.Transaction{}, err
	}

	if err = e.policy.CheckOwnerOr(user, reservation.UserID, entity.ActionCancel); err != nil {
		return entity.Transaction{}, err
	}

	cancelled, err := e.ledger.CancelReservation(ctx, reservation)
	c := log.Copy{BookID: reservation.BookID, ItemID: reservation.ItemID, TransactionID: transactionID, UserID: reservation.UserID}
	if log.ErrorCopy(e.logger, err, "failed to cancel reservation", traceID, log.CancelReservation, c) {
		span.RecordError(err)
		return entity.Transaction{}, e.boundary(err, "cancel")
	}

	log.InfoCopy(e.logger, "reservation cancelled", traceID, log.CancelReservation, c)
	return cancelled, nil
}

func (e *Engine) ReturnBook(ctx context.Context, user entity.User, transactionID string) (ledger.ReturnResult, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	if err := e.policy.Check(user, entity.ActionReturn); err != nil {
		return ledger.ReturnResult{}, err
	}

	result, err := e.ledger.CloseReturn(ctx, transactionID, user.ID)
	if log.ErrorCopy(e.logger, err, "failed to return", traceID, log.Return, log.Copy{TransactionID: transactionID}) {
		span.RecordError(err)
		return ledger.ReturnResult{}, e.boundary(err, "return")
	}

	if result.Desync {
		span.SetAttributes(attribute.Bool("state_desync", true))
	}

	log.InfoCopy(e.logger, "copy returned", traceID, log.Return, log.Copy{
		BookID:        result.Issue.BookID,
		ItemID:        result.Issue.ItemID,
		TransactionID: transactionID,
		UserID:        result.Issue.UserID,
	})
	return result, nil
}

// DeleteBook clears every copy and then the title. Nothing is removed when a
// copy is out.
func (e *Engine) DeleteBook(ctx context.Context, user entity.User, bookID string) error {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("book_id", bookID))

	if err := e.policy.Check(user, entity.ActionDeleteBook); err != nil {
		return err
	}

	if _, err := e.catalog.GetBook(ctx, bookID); err != nil {
		return e.boundary(err, "failed to look up book")
	}

	err := e.transactor.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.inventory.DeleteAllForBook(ctx, bookID); err != nil {
			return err
		}
		return e.catalog.DeleteBook(ctx, bookID)
	})

	if log.ErrorBook(e.logger, err, "failed to delete book", traceID, log.DeleteBook, bookID) {
		span.RecordError(err)
		return e.boundary(err, "delete book")
	}

	for _, fn := range e.onChange {
		fn()
	}
	return nil
}

func (e *Engine) AddItem(ctx context.Context, user entity.User, bookID, accessionNo string) (entity.BookItem, error) {
	if err := e.policy.Check(user, entity.ActionAddItem); err != nil {
		return entity.BookItem{}, err
	}

	item, err := e.inventory.AddItem(ctx, bookID, accessionNo)
	return item, e.boundary(err, "add item")
}

func (e *Engine) DeleteItem(ctx context.Context, user entity.User, itemID string) error {
	if err := e.policy.Check(user, entity.ActionDeleteItem); err != nil {
		return err
	}

	return e.boundary(e.inventory.DeleteItem(ctx, itemID), "delete item")
}

func (e *Engine) ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error) {
	if _, err := e.catalog.GetBook(ctx, bookID); err != nil {
		return nil, e.boundary(err, "failed to look up book")
	}

	items, err := e.inventory.ListItems(ctx, bookID)
	return items, e.boundary(err, "list items")
}

// ListTransactions returns the whole ledger, newest first.
func (e *Engine) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	all, err := e.ledger.List(ctx, repository.LedgerFilter{})
	return all, e.boundary(err, "list transactions")
}

// ListBookTransactions lists the book's entries, optionally of one kind given
// as reservation, issue or return in any case.
func (e *Engine) ListBookTransactions(ctx context.Context, user entity.User, bookID, kind string) ([]entity.Transaction, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	if err := e.policy.Check(user, entity.ActionListTransactions); err != nil {
		return nil, err
	}

	var filter entity.TransactionKind
	if kind != "" {
		parsed, err := entity.ParseTransactionKind(kind)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	if _, err := e.catalog.GetBook(ctx, bookID); err != nil {
		return nil, e.boundary(err, "failed to look up book")
	}

	list, err := e.ledger.List(ctx, repository.LedgerFilter{BookID: bookID, Kind: filter})
	if log.ErrorCopy(e.logger, err, "failed to list transactions", traceID, log.ListTransactions, log.Copy{BookID: bookID}) {
		return nil, e.boundary(err, "list book transactions")
	}

	return list, nil
}
