package circulation

import (
	"context"

	"github.com/project/circulation/internal/entity"
)

type availability struct {
	hit entity.BookAvailability
	err error
}

// Search finds books by title and attaches the copy a reservation would pick
// right now. Nothing is claimed, so the answer may be stale by the time the
// caller reserves.
func (e *Engine) Search(ctx context.Context, title string) ([]entity.BookAvailability, error) {
	books, err := e.catalog.SearchBooks(ctx, title)
	if err != nil {
		return nil, e.boundary(err, "search books")
	}

	enriched := e.pool.Map(ctx, e.searchWorkers, books, func(ctx context.Context, book entity.Book) availability {
		item, ok, err := e.inventory.FindAvailable(ctx, book.ID)
		hit := entity.BookAvailability{Book: book, Available: ok}
		if ok {
			hit.AccessionNo = item.AccessionNo
		}
		return availability{hit: hit, err: err}
	})

	if err = ctx.Err(); err != nil {
		return nil, e.boundary(err, "search cancelled")
	}

	hits := make([]entity.BookAvailability, 0, len(enriched))
	for _, a := range enriched {
		if a.err != nil {
			return nil, e.boundary(a.err, "find available copy")
		}
		hits = append(hits, a.hit)
	}

	return hits, nil
}
