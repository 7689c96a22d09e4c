package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/repository"
)

var StatusConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "circulation_status_conflicts_total",
	Help: "Compare-and-swap attempts on a copy status that lost",
}, []string{"expected", "next"})

func init() {
	prometheus.MustRegister(StatusConflicts)
}

// Manager owns the physical copies and their status. The status field is only
// ever changed through SetStatus, which is a compare-and-swap.
type Manager struct {
	logger *zap.Logger
	items  repository.InventoryRepository
}

func New(logger *zap.Logger, items repository.InventoryRepository) *Manager {
	return &Manager{
		logger: logger,
		items:  items,
	}
}

func (m *Manager) AddItem(ctx context.Context, bookID, accessionNo string) (entity.BookItem, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	accessionNo = strings.TrimSpace(accessionNo)
	if accessionNo == "" {
		return entity.BookItem{}, fmt.Errorf("empty accession number: %w", entity.ErrValidation)
	}

	item, err := m.items.AddItem(ctx, entity.BookItem{
		ID:          uuid.NewString(),
		BookID:      bookID,
		AccessionNo: accessionNo,
		Status:      entity.StatusAvailable,
	})

	if log.ErrorCopy(m.logger, err, "failed to add copy", traceID, log.AddItem, log.Copy{BookID: bookID}) {
		return entity.BookItem{}, err
	}

	log.InfoCopy(m.logger, "copy added", traceID, log.AddItem, log.Copy{BookID: bookID, ItemID: item.ID})
	return item, nil
}

func (m *Manager) GetItem(ctx context.Context, itemID string) (entity.BookItem, error) {
	return m.items.GetItem(ctx, itemID)
}

func (m *Manager) ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error) {
	return m.items.ListItems(ctx, bookID)
}

// FindAvailable picks the AVAILABLE copy with the lowest accession number.
// It never changes state.
func (m *Manager) FindAvailable(ctx context.Context, bookID string) (entity.BookItem, bool, error) {
	return m.items.FindAvailable(ctx, bookID)
}

// SetStatus moves the copy from expected to next, or fails with
// ErrStatusConflict when another request changed it first.
func (m *Manager) SetStatus(ctx context.Context, itemID string, next, expected entity.ItemStatus) error {
	if !entity.CanTransition(expected, next) {
		return fmt.Errorf("%s -> %s: %w", expected, next, entity.ErrInvalidTransition)
	}

	err := m.items.CompareAndSetStatus(ctx, itemID, expected, next)
	if err == nil {
		trace.SpanFromContext(ctx).AddEvent("copy status changed", trace.WithAttributes(
			attribute.String("item_id", itemID),
			attribute.String("status", string(next)),
		))
		return nil
	}

	if entity.KindOf(err) == entity.ErrConflict {
		StatusConflicts.WithLabelValues(string(expected), string(next)).Inc()
	}

	return err
}

// Repair swaps the status without the state machine check. It is only used
// to bring a copy back in line with the ledger.
func (m *Manager) Repair(ctx context.Context, itemID string, next, expected entity.ItemStatus) error {
	return m.items.CompareAndSetStatus(ctx, itemID, expected, next)
}

func (m *Manager) DeleteItem(ctx context.Context, itemID string) error {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	err := m.items.DeleteItem(ctx, itemID)
	if log.ErrorCopy(m.logger, err, "failed to delete copy", traceID, log.DeleteItem, log.Copy{ItemID: itemID}) {
		return err
	}

	log.InfoCopy(m.logger, "copy deleted", traceID, log.DeleteItem, log.Copy{ItemID: itemID})
	return nil
}

// DeleteAllForBook removes every copy of the book, or none when any of
// them is reserved or issued.
func (m *Manager) DeleteAllForBook(ctx context.Context, bookID string) (int, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	deleted, err := m.items.DeleteAllForBook(ctx, bookID)
	if log.ErrorCopy(m.logger, err, "failed to delete copies", traceID, log.DeleteBook, log.Copy{BookID: bookID}) {
		return 0, err
	}

	logger := m.logger
	if logger != nil {
		logger = logger.With(zap.Int("deleted", deleted))
	}
	log.InfoCopy(logger, "copies deleted", traceID, log.DeleteBook, log.Copy{BookID: bookID})
	return deleted, nil
}
