package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/trace"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/repository"
)

// ReturnResult is the outcome of CloseReturn. Desync is set when the return
// was recorded but the copy status could not be moved back to AVAILABLE.
type ReturnResult struct {
	Issue  entity.Transaction `json:"issue"`
	Return entity.Transaction `json:"return"`
	Desync bool               `json:"state_desync,omitempty"`
}

func lostRace(err error) bool {
	return errors.Is(err, entity.ErrStatusConflict) || errors.Is(err, entity.ErrItemNotFound)
}

// claim finds an AVAILABLE copy and swaps it to next. A lost swap re-runs the
// lookup, up to the configured number of attempts.
func (l *Ledger) claim(ctx context.Context, bookID string, next entity.ItemStatus) (entity.BookItem, error) {
	var claimed entity.BookItem

	err := retry.Do(ctx, l.backoff(), func(ctx context.Context) error {
		item, ok, err := l.inventory.FindAvailable(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return entity.ErrNoCopiesAvailable
		}

		err = l.inventory.SetStatus(ctx, item.ID, next, entity.StatusAvailable)
		if lostRace(err) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		item.Status = next
		claimed = item
		return nil
	})

	if lostRace(err) {
		return entity.BookItem{}, fmt.Errorf("book %s: %w", bookID, entity.ErrNoCopiesAvailable)
	}
	if err != nil {
		return entity.BookItem{}, err
	}

	return claimed, nil
}

// release puts a claimed copy back when the entry that should own it could
// not be written.
func (l *Ledger) release(ctx context.Context, item entity.BookItem) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()
	err := l.inventory.SetStatus(ctx, item.ID, entity.StatusAvailable, item.Status)
	log.ErrorCopy(l.logger, err, "failed to release claimed copy", traceID, log.Reserve,
		log.Copy{BookID: item.BookID, ItemID: item.ID})
}

func (l *Ledger) OpenReservation(ctx context.Context, bookID, userID string) (entity.Transaction, error) {
	var reservation entity.Transaction

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		held, err := l.transactions.ListTransactions(ctx, repository.LedgerFilter{
			BookID: bookID,
			UserID: userID,
			Kind:   entity.KindReservation,
		})
		if err != nil {
			return err
		}
		for _, t := range held {
			if t.Open() {
				return entity.ErrDuplicateReservation
			}
		}

		item, err := l.claim(ctx, bookID, entity.StatusReserved)
		if err != nil {
			return err
		}

		reservation = l.newTransaction(entity.KindReservation, item, userID, userID)
		if err = l.append(ctx, reservation); err != nil {
			l.release(ctx, item)
			return err
		}

		return nil
	})

	if err != nil {
		return entity.Transaction{}, err
	}

	return reservation, nil
}

// IssueRequest selects the issue mode. An empty ItemID issues a freshly
// chosen AVAILABLE copy; otherwise the open reservation of UserID on that
// copy is promoted.
type IssueRequest struct {
	BookID      string
	UserID      string
	ItemID      string
	ProcessedBy string
}

func (l *Ledger) OpenIssue(ctx context.Context, req IssueRequest) (entity.Transaction, error) {
	if req.ItemID == "" {
		return l.immediateIssue(ctx, req)
	}

	open, err := l.transactions.OpenTransactionsForItem(ctx, req.ItemID)
	if err != nil {
		return entity.Transaction{}, err
	}

	for _, t := range open {
		if t.Kind == entity.KindReservation && t.UserID == req.UserID && t.BookID == req.BookID {
			return l.Promote(ctx, t, req.ProcessedBy)
		}
	}

	return entity.Transaction{}, fmt.Errorf("item %s for user %s: %w", req.ItemID, req.UserID, entity.ErrNotReserved)
}

func (l *Ledger) immediateIssue(ctx context.Context, req IssueRequest) (entity.Transaction, error) {
	var issue entity.Transaction

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		item, err := l.claim(ctx, req.BookID, entity.StatusIssued)
		if err != nil {
			return err
		}

		issue = l.newTransaction(entity.KindIssue, item, req.UserID, req.ProcessedBy)
		due := issue.CreatedAt.Add(l.cfg.LoanPeriod)
		issue.DueAt = &due

		if err = l.append(ctx, issue); err != nil {
			l.release(ctx, item)
			return err
		}

		return nil
	})

	if err != nil {
		return entity.Transaction{}, err
	}

	return issue, nil
}

// Promote turns an open reservation into an ISSUE of the same copy. Closing
// the reservation comes first: whoever closes it owns the copy's next move,
// so a concurrent cancel or a second promote fails cleanly.
//
// When the copy is no longer RESERVED the reservation stays closed, no ISSUE
// is written and the copy is queued for reconciliation once that outcome is
// committed.
func (l *Ledger) Promote(ctx context.Context, reservation entity.Transaction, processedBy string) (entity.Transaction, error) {
	if reservation.Kind != entity.KindReservation {
		return entity.Transaction{}, fmt.Errorf("transaction %s is %s: %w", reservation.ID, reservation.Kind, entity.ErrNotReserved)
	}

	var (
		issue    entity.Transaction
		desynced bool
	)

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		now := l.now().UTC()
		if err := l.transactions.CloseReservation(ctx, reservation.ID, now); err != nil {
			return err
		}

		err := l.inventory.SetStatus(ctx, reservation.ItemID, entity.StatusIssued, entity.StatusReserved)
		if lostRace(err) {
			desynced = true
			return nil
		}
		if err != nil {
			return err
		}

		issue = l.newTransaction(entity.KindIssue, entity.BookItem{ID: reservation.ItemID, BookID: reservation.BookID},
			reservation.UserID, processedBy)
		issue.RelatedID = reservation.ID
		due := issue.CreatedAt.Add(l.cfg.LoanPeriod)
		issue.DueAt = &due

		return l.append(ctx, issue)
	})

	if err != nil {
		return entity.Transaction{}, err
	}

	if desynced {
		Desyncs.Inc()
		traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()
		log.WarnDesync(l.logger, entity.ErrNotReserved, "reservation closed but copy status was not RESERVED", traceID, log.Issue, log.Copy{
			BookID:        reservation.BookID,
			ItemID:        reservation.ItemID,
			TransactionID: reservation.ID,
		})
		l.enqueueReconcile(ctx, reservation.ItemID, reservation.ID)
		return entity.Transaction{}, fmt.Errorf("item %s: %w", reservation.ItemID, entity.ErrNotReserved)
	}

	return issue, nil
}

// CancelReservation closes the reservation and puts its copy back on the
// shelf.
func (l *Ledger) CancelReservation(ctx context.Context, reservation entity.Transaction) (entity.Transaction, error) {
	if reservation.Kind != entity.KindReservation {
		return entity.Transaction{}, fmt.Errorf("transaction %s is %s: %w", reservation.ID, reservation.Kind, entity.ErrNotReserved)
	}

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		now := l.now().UTC()
		if err := l.transactions.CloseReservation(ctx, reservation.ID, now); err != nil {
			return err
		}
		reservation.ClosedAt = &now

		err := l.inventory.SetStatus(ctx, reservation.ItemID, entity.StatusAvailable, entity.StatusReserved)
		if lostRace(err) {
			l.enqueueReconcile(ctx, reservation.ItemID, reservation.ID)
			return nil
		}
		if err != nil {
			return err
		}

		return l.publish(ctx, reservation)
	})

	if err != nil {
		return entity.Transaction{}, err
	}

	return reservation, nil
}

// CloseReturn stamps the ISSUE as returned, appends a RETURN entry and moves
// the copy back to AVAILABLE. A copy that is no longer ISSUED does not undo
// the return: the result is flagged and a reconcile message is queued.
func (l *Ledger) CloseReturn(ctx context.Context, transactionID, processedBy string) (ReturnResult, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	var result ReturnResult

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		issue, err := l.transactions.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}

		if issue.Kind != entity.KindIssue {
			return fmt.Errorf("transaction %s is %s: %w", issue.ID, issue.Kind, entity.ErrNotAnIssue)
		}
		if issue.ReturnedAt != nil {
			return entity.ErrAlreadyReturned
		}

		now := l.now().UTC()
		if err = l.transactions.StampReturn(ctx, issue.ID, now); err != nil {
			return err
		}
		issue.ReturnedAt = &now

		result = ReturnResult{Issue: issue}

		err = l.inventory.SetStatus(ctx, issue.ItemID, entity.StatusAvailable, entity.StatusIssued)
		switch {
		case lostRace(err):
			result.Desync = true
			Desyncs.Inc()
			log.WarnDesync(l.logger, err, "return recorded but copy status was not ISSUED", traceID, log.Return, log.Copy{
				BookID:        issue.BookID,
				ItemID:        issue.ItemID,
				TransactionID: issue.ID,
			})
			l.enqueueReconcile(ctx, issue.ItemID, issue.ID)
		case err != nil:
			return err
		}

		ret := l.newTransaction(entity.KindReturn, entity.BookItem{ID: issue.ItemID, BookID: issue.BookID},
			issue.UserID, processedBy)
		ret.RelatedID = issue.ID
		ret.ClosedAt = &now
		result.Return = ret

		if err = l.append(ctx, ret); err != nil {
			return err
		}

		return l.publish(ctx, issue)
	})

	if err != nil {
		return ReturnResult{}, err
	}

	return result, nil
}
