package ledger

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/repository"
	"github.com/project/circulation/pkg/logger"
)

type ReconcileMessage struct {
	ItemID        string `json:"item_id"`
	TransactionID string `json:"transaction_id"`
}

func (l *Ledger) enqueueReconcile(ctx context.Context, itemID, transactionID string) {
	if l.outbox == nil {
		return
	}

	serialized, err := json.Marshal(ReconcileMessage{ItemID: itemID, TransactionID: transactionID})
	if logger.CheckError(err, l.logger, "can not encode reconcile message", zap.Error(err)) {
		return
	}

	idempotencyKey := repository.OutboxKindReconcile.String() + "_" + itemID + "_" + transactionID
	err = l.outbox.SendMessage(ctx, idempotencyKey, repository.OutboxKindReconcile, serialized)
	logger.CheckError(err, l.logger, "can not enqueue reconcile message",
		zap.String("item_id", itemID), zap.Error(err))
}

// DerivedStatus is the copy status implied by the open ledger entries.
func DerivedStatus(open []entity.Transaction) entity.ItemStatus {
	status := entity.StatusAvailable
	for _, t := range open {
		switch {
		case t.Kind == entity.KindIssue && t.Open():
			return entity.StatusIssued
		case t.Kind == entity.KindReservation && t.Open():
			status = entity.StatusReserved
		}
	}
	return status
}

// Reconcile repairs the copy status from the ledger, which is authoritative.
// A deleted copy needs no repair.
func (l *Ledger) Reconcile(ctx context.Context, itemID string) (entity.ItemStatus, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	item, err := l.inventory.GetItem(ctx, itemID)
	if errors.Is(err, entity.ErrItemNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	open, err := l.transactions.OpenTransactionsForItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	derived := DerivedStatus(open)
	if derived == item.Status {
		return derived, nil
	}

	err = l.inventory.Repair(ctx, itemID, derived, item.Status)
	if log.ErrorCopy(l.logger, err, "failed to reconcile copy", traceID, log.Reconcile,
		log.Copy{BookID: item.BookID, ItemID: itemID}) {
		return "", err
	}

	log.InfoCopy(l.logger, "copy reconciled to "+string(derived), traceID, log.Reconcile,
		log.Copy{BookID: item.BookID, ItemID: itemID})
	return derived, nil
}

// ExpireReservations cancels open reservations older than ttl and returns
// how many it closed.
func (l *Ledger) ExpireReservations(ctx context.Context, ttl time.Duration, limit int) (int, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	stale, err := l.transactions.StaleReservations(ctx, l.now().Add(-ttl), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, reservation := range stale {
		_, err = l.CancelReservation(ctx, reservation)
		if errors.Is(err, entity.ErrReservationClosed) {
			continue
		}

		c := log.Copy{BookID: reservation.BookID, ItemID: reservation.ItemID, TransactionID: reservation.ID}
		if log.ErrorCopy(l.logger, err, "failed to expire reservation", traceID, log.ExpireReservation, c) {
			return expired, err
		}

		log.InfoCopy(l.logger, "reservation expired", traceID, log.ExpireReservation, c)
		expired++
	}

	return expired, nil
}
