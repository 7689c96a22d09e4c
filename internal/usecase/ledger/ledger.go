package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/repository"
)

var (
	Opened = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "circulation_transactions_total",
		Help: "Ledger entries appended, by kind",
	}, []string{"kind"})

	Desyncs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "circulation_state_desync_total",
		Help: "Returns recorded while the copy status could not be moved back to AVAILABLE",
	})
)

func init() {
	prometheus.MustRegister(Opened, Desyncs)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Inventory is the part of the inventory manager the ledger drives.
type Inventory interface {
	FindAvailable(ctx context.Context, bookID string) (entity.BookItem, bool, error)
	GetItem(ctx context.Context, itemID string) (entity.BookItem, error)
	SetStatus(ctx context.Context, itemID string, next, expected entity.ItemStatus) error
	Repair(ctx context.Context, itemID string, next, expected entity.ItemStatus) error
}

type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Ledger appends reservation, issue and return entries and keeps the copy
// status in step with them.
type Ledger struct {
	logger       *zap.Logger
	inventory    Inventory
	transactions repository.LedgerRepository
	outbox       repository.OutboxRepository
	transactor   repository.Transactor
	cfg          config.Circulation
	now          func() time.Time
}

func New(
	logger *zap.Logger,
	inventory Inventory,
	transactions repository.LedgerRepository,
	outbox repository.OutboxRepository,
	transactor repository.Transactor,
	cfg config.Circulation,
	opts ...Option,
) *Ledger {
	l := &Ledger{
		logger:       logger,
		inventory:    inventory,
		transactions: transactions,
		outbox:       outbox,
		transactor:   transactor,
		cfg:          cfg,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Ledger) backoff() retry.Backoff {
	attempts := l.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	base := l.cfg.RetryBaseDelay
	if base <= 0 {
		base = time.Millisecond
	}

	return retry.WithMaxRetries(uint64(attempts-1), retry.WithJitterPercent(50, retry.NewExponential(base)))
}

func (l *Ledger) newTransaction(kind entity.TransactionKind, item entity.BookItem, userID, processedBy string) entity.Transaction {
	return entity.Transaction{
		ID:          uuid.NewString(),
		BookID:      item.BookID,
		ItemID:      item.ID,
		UserID:      userID,
		Kind:        kind,
		ProcessedBy: processedBy,
		CreatedAt:   l.now().UTC(),
	}
}

func (l *Ledger) append(ctx context.Context, t entity.Transaction) error {
	if err := l.transactions.AppendTransaction(ctx, t); err != nil {
		return err
	}

	Opened.WithLabelValues(string(t.Kind)).Inc()
	return l.publish(ctx, t)
}

func (l *Ledger) publish(ctx context.Context, t entity.Transaction) error {
	if l.outbox == nil {
		return nil
	}

	serialized, err := json.Marshal(t)
	if err != nil {
		return err
	}

	idempotencyKey := repository.OutboxKindTransaction.String() + "_" + t.ID
	if t.Kind == entity.KindIssue && t.ReturnedAt != nil {
		idempotencyKey += "_returned"
	}

	return l.outbox.SendMessage(ctx, idempotencyKey, repository.OutboxKindTransaction, serialized)
}

func (l *Ledger) Get(ctx context.Context, transactionID string) (entity.Transaction, error) {
	return l.transactions.GetTransaction(ctx, transactionID)
}

// ListForBook returns the book's entries newest first. An empty kind lists
// every kind.
func (l *Ledger) ListForBook(ctx context.Context, bookID string, kind entity.TransactionKind) ([]entity.Transaction, error) {
	return l.transactions.ListTransactions(ctx, repository.LedgerFilter{BookID: bookID, Kind: kind})
}

func (l *Ledger) List(ctx context.Context, filter repository.LedgerFilter) ([]entity.Transaction, error) {
	return l.transactions.ListTransactions(ctx, filter)
}

// IssueCounts counts ISSUE entries per book over the trailing window.
func (l *Ledger) IssueCounts(ctx context.Context, window time.Duration) (map[string]int, error) {
	return l.transactions.IssueCounts(ctx, l.now().Add(-window))
}
