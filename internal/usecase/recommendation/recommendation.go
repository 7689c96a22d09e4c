package recommendation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/lfu"
	"github.com/project/circulation/pkg/logger"
)

type (
	Catalog interface {
		ListBooks(ctx context.Context) ([]entity.Book, error)
	}

	// Circulation supplies the ISSUE counts popularity is ranked by.
	Circulation interface {
		IssueCounts(ctx context.Context, window time.Duration) (map[string]int, error)
	}
)

type Option func(*Engine)

func WithSimilarity(s Similarity) Option {
	return func(e *Engine) {
		e.similarity = s
	}
}

func WithFeatures(space *FeatureSpace) Option {
	return func(e *Engine) {
		e.features = space
	}
}

// Engine ranks books. It reads the catalog and the ledger but never changes
// either.
type Engine struct {
	logger      *zap.Logger
	catalog     Catalog
	circulation Circulation
	similarity  Similarity
	features    *FeatureSpace
	cfg         config.Recommendation
	byTitle     *lfu.Synced[string, []entity.Book]
}

func New(logger *zap.Logger, catalog Catalog, circulation Circulation, cfg config.Recommendation, opts ...Option) *Engine {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}

	e := &Engine{
		logger:      logger,
		catalog:     catalog,
		circulation: circulation,
		similarity:  TokenCosine{},
		cfg:         cfg,
		byTitle:     lfu.NewSynced[string, []entity.Book](max(cfg.CacheCapacity, 0)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Invalidate drops cached results. It is hooked to catalog changes.
func (e *Engine) Invalidate() {
	e.byTitle.Purge()
}

// Recommend is ByTitle for a non-empty title and Popular otherwise.
func (e *Engine) Recommend(ctx context.Context, title string) ([]entity.Book, error) {
	if strings.TrimSpace(title) == "" {
		return e.Popular(ctx)
	}
	return e.ByTitle(ctx, title)
}

// Popular ranks books by ISSUE count over the trailing window, ties by id.
// Books never issued fill the tail.
func (e *Engine) Popular(ctx context.Context) ([]entity.Book, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	counts, err := e.circulation.IssueCounts(ctx, e.cfg.PopularWindow)
	if logger.CheckError(err, e.logger, "can not count issues", zap.String("trace_id", traceID), zap.Error(err)) {
		return nil, err
	}

	books, err := e.catalog.ListBooks(ctx)
	if logger.CheckError(err, e.logger, "can not list books", zap.String("trace_id", traceID), zap.Error(err)) {
		return nil, err
	}

	slices.SortFunc(books, func(a, b entity.Book) int {
		return cmp.Or(cmp.Compare(counts[b.ID], counts[a.ID]), strings.Compare(a.ID, b.ID))
	})

	return e.top(books), nil
}

type scored struct {
	book  entity.Book
	score float64
}

// ByTitle ranks books by similarity of their searchable text to title. The
// book titled exactly title is left out. No match is an empty result.
func (e *Engine) ByTitle(ctx context.Context, title string) ([]entity.Book, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	if cached, ok := e.byTitle.Get(key); ok {
		return slices.Clone(cached), nil
	}

	books, err := e.catalog.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	candidates := lo.FilterMap(books, func(b entity.Book, _ int) (scored, bool) {
		if strings.EqualFold(strings.TrimSpace(b.Title), key) {
			return scored{}, false
		}
		s := e.similarity.Score(key, b.SearchableText())
		return scored{book: b, score: s}, s > 0
	})

	slices.SortFunc(candidates, func(a, b scored) int {
		return cmp.Or(cmp.Compare(b.score, a.score), strings.Compare(a.book.ID, b.book.ID))
	})

	result := e.top(lo.Map(candidates, func(s scored, _ int) entity.Book { return s.book }))
	e.byTitle.Put(key, slices.Clone(result))
	return result, nil
}

// ByFeatureVector returns the books nearest to values in the feature space,
// ties by id.
func (e *Engine) ByFeatureVector(ctx context.Context, values []float64) ([]entity.Book, error) {
	if err := e.features.check(values); err != nil {
		dim := 0
		if e.features != nil {
			dim = e.features.Dimension
		}
		return nil, fmt.Errorf("got %d values, model has %d: %w", len(values), dim, err)
	}

	books, err := e.catalog.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	type near struct {
		book entity.Book
		dist float64
	}

	candidates := lo.FilterMap(books, func(b entity.Book, _ int) (near, bool) {
		v, ok := e.features.Vectors[b.ID]
		if !ok {
			return near{}, false
		}
		return near{book: b, dist: distance(values, v)}, true
	})

	slices.SortFunc(candidates, func(a, b near) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), strings.Compare(a.book.ID, b.book.ID))
	})

	return e.top(lo.Map(candidates, func(n near, _ int) entity.Book { return n.book })), nil
}

func (e *Engine) top(books []entity.Book) []entity.Book {
	if len(books) > e.cfg.Limit {
		books = books[:e.cfg.Limit]
	}
	if books == nil {
		return []entity.Book{}
	}
	return books
}
