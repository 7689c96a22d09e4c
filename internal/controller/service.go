package controller

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/library"
)

//go:generate mockgen -source=service.go -destination=mocks/controller_mock.go -package=mocks

type (
	CirculationUseCase interface {
		Reserve(ctx context.Context, user entity.User, bookID string) (entity.Transaction, error)
		ImmediateIssue(ctx context.Context, user entity.User, bookID, borrowerID string) (entity.Transaction, error)
		Issue(ctx context.Context, user entity.User, transactionID string) (entity.Transaction, error)
		CancelReservation(ctx context.Context, user entity.User, transactionID string) (entity.Transaction, error)
		ReturnBook(ctx context.Context, user entity.User, transactionID string) (ledger.ReturnResult, error)
		DeleteBook(ctx context.Context, user entity.User, bookID string) error
		AddItem(ctx context.Context, user entity.User, bookID, accessionNo string) (entity.BookItem, error)
		DeleteItem(ctx context.Context, user entity.User, itemID string) error
		ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error)
		ListTransactions(ctx context.Context) ([]entity.Transaction, error)
		ListBookTransactions(ctx context.Context, user entity.User, bookID, kind string) ([]entity.Transaction, error)
		Search(ctx context.Context, title string) ([]entity.BookAvailability, error)
	}

	RecommendationUseCase interface {
		Recommend(ctx context.Context, title string) ([]entity.Book, error)
		ByFeatureVector(ctx context.Context, values []float64) ([]entity.Book, error)
	}

	Authenticator interface {
		Authenticate(header string) (entity.User, error)
	}
)

type implementation struct {
	logger          *zap.Logger
	authors         library.AuthorUseCase
	books           library.BooksUseCase
	circulation     CirculationUseCase
	recommendations RecommendationUseCase
	auth            Authenticator
}

func New(
	logger *zap.Logger,
	authors library.AuthorUseCase,
	books library.BooksUseCase,
	circulation CirculationUseCase,
	recommendations RecommendationUseCase,
	auth Authenticator,
) *implementation {
	return &implementation{
		logger:          logger,
		authors:         authors,
		books:           books,
		circulation:     circulation,
		recommendations: recommendations,
		auth:            auth,
	}
}

type route struct {
	method  string
	pattern string
	name    string
	handler handlerFunc
}

// routes lists patterns with path variables before the literal patterns
// sharing their shape. The gateway mux tries the most recently registered
// pattern first, so literals registered later win.
func (i *implementation) routes() []route {
	return []route{
		{http.MethodGet, "/books/{book_id}", "get_book", i.getBook},
		{http.MethodPut, "/books/{book_id}", "update_book", i.updateBook},
		{http.MethodDelete, "/books/{book_id}", "delete_book", i.deleteBook},
		{http.MethodPost, "/books/{book_id}/reserve", "reserve", i.reserve},
		{http.MethodPost, "/books/{book_trans_id}/issue", "issue", i.issue},
		{http.MethodPost, "/books/{book_trans_id}/return", "return", i.returnBook},
		{http.MethodPost, "/books/{book_trans_id}/cancel", "cancel", i.cancel},
		{http.MethodPost, "/books/{book_id}/items", "add_item", i.addItem},
		{http.MethodGet, "/books/{book_id}/items", "list_items", i.listItems},
		{http.MethodGet, "/books/transactions/{book_id}", "list_book_transactions", i.listBookTransactions},
		{http.MethodDelete, "/books/items/{item_id}", "delete_item", i.deleteItem},
		{http.MethodDelete, "/books/authors/{author_id}", "delete_author", i.deleteAuthor},

		{http.MethodGet, "/books", "list_books", i.listBooks},
		{http.MethodPost, "/books", "add_book", i.addBook},
		{http.MethodGet, "/books/authors", "list_authors", i.listAuthors},
		{http.MethodPost, "/books/authors", "add_author", i.addAuthor},
		{http.MethodGet, "/books/transactions", "list_transactions", i.listTransactions},
		{http.MethodGet, "/books/search", "search", i.search},
		{http.MethodGet, "/books/subjects", "list_subjects", i.listSubjects},
		{http.MethodPost, "/books/issue", "immediate_issue", i.immediateIssue},
		{http.MethodGet, "/books/recommendations", "recommendations", i.recommend},
		{http.MethodPost, "/books/v2/recommendations", "feature_recommendations", i.recommendByVector},
	}
}

// Register mounts every route on mux.
func (i *implementation) Register(mux *runtime.ServeMux) error {
	for _, r := range i.routes() {
		if err := mux.HandlePath(r.method, r.pattern, i.wrap(r.name, r.handler)); err != nil {
			return err
		}
	}
	return nil
}

// NewMux builds a gateway mux whose routing errors use the same body as the
// handlers.
func (i *implementation) NewMux() (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(
		func(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, status int) {
			writeJSON(w, status, errorBody{Detail: http.StatusText(status), Code: routingCode(status)})
		}))

	if err := i.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}
