package library

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/repository"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ AuthorUseCase = (*Library)(nil)
var _ BooksUseCase = (*Library)(nil)

// Event is the payload written to the outbox for catalog changes.
type Event struct {
	Type   string         `json:"type"`
	Book   *entity.Book   `json:"book,omitempty"`
	Author *entity.Author `json:"author,omitempty"`
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

type Option func(*Library)

// WithOnChange registers a callback run after every committed change to the
// set of books.
func WithOnChange(fn func()) Option {
	return func(l *Library) {
		l.onChange = append(l.onChange, fn)
	}
}

// Library is the catalog store: books, authors and subjects.
type Library struct {
	logger     *zap.Logger
	catalog    repository.CatalogRepository
	outbox     repository.OutboxRepository
	transactor repository.Transactor
	policy     entity.Policy
	onChange   []func()
}

func New(
	logger *zap.Logger,
	catalog repository.CatalogRepository,
	outbox repository.OutboxRepository,
	transactor repository.Transactor,
	opts ...Option,
) *Library {
	l := &Library{
		logger:     logger,
		catalog:    catalog,
		outbox:     outbox,
		transactor: transactor,
		policy:     entity.DefaultPolicy,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Library) changed() {
	for _, fn := range l.onChange {
		fn()
	}
}

func (l *Library) send(ctx context.Context, kind repository.OutboxKind, key string, event Event) error {
	if l.outbox == nil {
		return nil
	}

	serialized, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return l.outbox.SendMessage(ctx, kind.String()+"_"+key, kind, serialized)
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
