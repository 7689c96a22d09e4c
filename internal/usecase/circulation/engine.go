package circulation

import (
	"context"

	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/inventory"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/repository"
	"github.com/project/circulation/internal/workerpool"
	"github.com/project/circulation/pkg/logger"
)

//go:generate mockgen -source=engine.go -destination=mocks/circulation_mock.go -package=mocks

type (
	Catalog interface {
		GetBook(ctx context.Context, bookID string) (entity.Book, error)
		SearchBooks(ctx context.Context, title string) ([]entity.Book, error)
		DeleteBook(ctx context.Context, bookID string) error
	}

	Inventory interface {
		AddItem(ctx context.Context, bookID, accessionNo string) (entity.BookItem, error)
		ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error)
		FindAvailable(ctx context.Context, bookID string) (entity.BookItem, bool, error)
		DeleteItem(ctx context.Context, itemID string) error
		DeleteAllForBook(ctx context.Context, bookID string) (int, error)
	}

	Ledger interface {
		OpenReservation(ctx context.Context, bookID, userID string) (entity.Transaction, error)
		OpenIssue(ctx context.Context, req ledger.IssueRequest) (entity.Transaction, error)
		Promote(ctx context.Context, reservation entity.Transaction, processedBy string) (entity.Transaction, error)
		CancelReservation(ctx context.Context, reservation entity.Transaction) (entity.Transaction, error)
		CloseReturn(ctx context.Context, transactionID, processedBy string) (ledger.ReturnResult, error)
		Get(ctx context.Context, transactionID string) (entity.Transaction, error)
		List(ctx context.Context, filter repository.LedgerFilter) ([]entity.Transaction, error)
	}
)

var (
	_ Inventory = (*inventory.Manager)(nil)
	_ Ledger    = (*ledger.Ledger)(nil)
)

// Engine runs the circulation workflows under the role policy. Every error it
// returns carries a domain kind; anything else is logged and reported as
// ErrInternal.
type Engine struct {
	logger        *zap.Logger
	catalog       Catalog
	inventory     Inventory
	ledger        Ledger
	transactor    repository.Transactor
	policy        entity.Policy
	pool          workerpool.Pool[entity.Book, availability]
	searchWorkers int
	onChange      []func()
}

type Option func(*Engine)

func WithPolicy(p entity.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithOnChange registers fn to run after a catalog change made by the engine
// has been committed.
func WithOnChange(fn func()) Option {
	return func(e *Engine) {
		e.onChange = append(e.onChange, fn)
	}
}

func WithSearchWorkers(n int) Option {
	return func(e *Engine) {
		e.searchWorkers = n
	}
}

func New(
	logger *zap.Logger,
	catalog Catalog,
	inventory Inventory,
	ledger Ledger,
	transactor repository.Transactor,
	opts ...Option,
) *Engine {
	e := &Engine{
		logger:        logger,
		catalog:       catalog,
		inventory:     inventory,
		ledger:        ledger,
		transactor:    transactor,
		policy:        entity.DefaultPolicy,
		pool:          workerpool.New[entity.Book, availability](),
		searchWorkers: 4,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) boundary(err error, msg string) error {
	if err == nil || entity.IsDomain(err) {
		return err
	}

	logger.CheckError(err, e.logger, msg, zap.Error(err))
	return entity.ErrInternal
}
