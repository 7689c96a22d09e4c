package controller

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/ledger"
)

func TestRoutesLiteralBeforeVariable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		expect func(e testEnv)
		status int
	}{
		{
			name:   "transactions",
			method: http.MethodGet,
			path:   "/books/transactions",
			expect: func(e testEnv) {
				e.circulation.EXPECT().ListTransactions(gomock.Any()).Return([]entity.Transaction{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "search",
			method: http.MethodGet,
			path:   "/books/search?title=dune",
			expect: func(e testEnv) {
				e.circulation.EXPECT().Search(gomock.Any(), "dune").Return([]entity.BookAvailability{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "subjects",
			method: http.MethodGet,
			path:   "/books/subjects",
			expect: func(e testEnv) {
				e.books.EXPECT().ListSubjects(gomock.Any()).Return([]string{"sf"}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "authors",
			method: http.MethodGet,
			path:   "/books/authors",
			expect: func(e testEnv) {
				e.authors.EXPECT().ListAuthors(gomock.Any()).Return([]entity.Author{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "recommendations",
			method: http.MethodGet,
			path:   "/books/recommendations?title=dune",
			expect: func(e testEnv) {
				e.recommendations.EXPECT().Recommend(gomock.Any(), "dune").Return([]entity.Book{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "book by id",
			method: http.MethodGet,
			path:   "/books/" + bookID,
			expect: func(e testEnv) {
				e.books.EXPECT().GetBook(gomock.Any(), bookID).Return(entity.Book{ID: bookID}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "list books",
			method: http.MethodGet,
			path:   "/books",
			expect: func(e testEnv) {
				e.books.EXPECT().ListBooks(gomock.Any()).Return([]entity.Book{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "immediate issue",
			method: http.MethodPost,
			path:   "/books/issue",
			body:   `{"book_id":"` + bookID + `","user_id":"u2"}`,
			expect: func(e testEnv) {
				e.circulation.EXPECT().ImmediateIssue(gomock.Any(), student, bookID, "u2").Return(entity.Transaction{ID: txID}, nil)
			},
			status: http.StatusCreated,
		},
		{
			name:   "promote",
			method: http.MethodPost,
			path:   "/books/" + txID + "/issue",
			expect: func(e testEnv) {
				e.circulation.EXPECT().Issue(gomock.Any(), student, txID).Return(entity.Transaction{ID: txID}, nil)
			},
			status: http.StatusCreated,
		},
		{
			name:   "book transactions",
			method: http.MethodGet,
			path:   "/books/transactions/" + bookID + "?type=Issue",
			expect: func(e testEnv) {
				e.circulation.EXPECT().ListBookTransactions(gomock.Any(), student, bookID, "Issue").Return([]entity.Transaction{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "delete item",
			method: http.MethodDelete,
			path:   "/books/items/" + itemID,
			expect: func(e testEnv) {
				e.circulation.EXPECT().DeleteItem(gomock.Any(), student, itemID).Return(nil)
			},
			status: http.StatusNoContent,
		},
		{
			name:   "delete author",
			method: http.MethodDelete,
			path:   "/books/authors/" + itemID,
			expect: func(e testEnv) {
				e.authors.EXPECT().DeleteAuthor(gomock.Any(), student, itemID).Return(nil)
			},
			status: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.as(student)
			tt.expect(env)

			rec := env.do(tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"not found", entity.ErrBookNotFound, http.StatusNotFound, "NOT_FOUND", entity.ErrBookNotFound.Error()},
		{"forbidden", entity.ErrRoleNotAllowed, http.StatusForbidden, "FORBIDDEN", entity.ErrRoleNotAllowed.Error()},
		{"unauthenticated", entity.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", entity.ErrUnauthenticated.Error()},
		{"already closed", entity.ErrAlreadyReturned, http.StatusConflict, "ALREADY_CLOSED", entity.ErrAlreadyReturned.Error()},
		{"unavailable", entity.ErrNoCopiesAvailable, http.StatusConflict, "UNAVAILABLE", entity.ErrNoCopiesAvailable.Error()},
		{"conflict", entity.ErrItemNotAvailable, http.StatusConflict, "CONFLICT", entity.ErrItemNotAvailable.Error()},
		{"validation", entity.ErrNotAnIssue, http.StatusBadRequest, "VALIDATION_ERROR", entity.ErrNotAnIssue.Error()},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.as(admin)
			env.circulation.EXPECT().ReturnBook(gomock.Any(), admin, txID).Return(ledger.ReturnResult{}, tt.err)

			rec := env.do(http.MethodPost, "/books/"+txID+"/return", "")
			require.Equal(t, tt.status, rec.Code)

			body := decodeBody[errorBody](t, rec)
			require.Equal(t, tt.code, body.Code)
			require.Equal(t, tt.detail, body.Detail)
		})
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"book id not uuid", http.MethodGet, "/books/42", ""},
		{"reserve id not uuid", http.MethodPost, "/books/42/reserve", ""},
		{"add book without title", http.MethodPost, "/books", `{"description":"x"}`},
		{"add book bad author", http.MethodPost, "/books", `{"title":"Dune","author_ids":["x"]}`},
		{"add book malformed", http.MethodPost, "/books", `{"title":`},
		{"add book empty body", http.MethodPost, "/books", ""},
		{"add author without name", http.MethodPost, "/books/authors", `{"bio":"b"}`},
		{"issue without book", http.MethodPost, "/books/issue", `{"user_id":"u2"}`},
		{"blank accession", http.MethodPost, "/books/" + bookID + "/items", `{"acc_no":"  "}`},
		{"search without title", http.MethodGet, "/books/search", ""},
		{"empty vector", http.MethodPost, "/books/v2/recommendations", `{"values":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.as(admin)

			rec := env.do(tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.Equal(t, "VALIDATION_ERROR", decodeBody[errorBody](t, rec).Code)
		})
	}
}

func TestUnauthenticatedHeader(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.auth.EXPECT().Authenticate("Bearer token").Return(entity.User{}, entity.ErrUnauthenticated)

	rec := env.do(http.MethodPost, "/books/"+bookID+"/reserve", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHENTICATED", decodeBody[errorBody](t, rec).Code)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/shelves", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", decodeBody[errorBody](t, rec).Code)
}

func TestReserve(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(student)
	env.circulation.EXPECT().Reserve(gomock.Any(), student, bookID).Return(entity.Transaction{
		ID:     txID,
		BookID: bookID,
		ItemID: itemID,
		UserID: student.ID,
		Kind:   entity.KindReservation,
	}, nil)

	rec := env.do(http.MethodPost, "/books/"+bookID+"/reserve", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decodeBody[entity.Transaction](t, rec)
	require.Equal(t, txID, got.ID)
	require.Equal(t, itemID, got.ItemID)
	require.Equal(t, entity.KindReservation, got.Kind)
}

func TestReturnReportsDesync(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(admin)
	env.circulation.EXPECT().ReturnBook(gomock.Any(), admin, txID).Return(ledger.ReturnResult{
		Issue:  entity.Transaction{ID: txID, Kind: entity.KindIssue},
		Return: entity.Transaction{ID: itemID, Kind: entity.KindReturn, RelatedID: txID},
		Desync: true,
	}, nil)

	rec := env.do(http.MethodPost, "/books/"+txID+"/return", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ledger.ReturnResult](t, rec)
	require.True(t, got.Desync)
	require.Equal(t, txID, got.Return.RelatedID)
}

func TestAddAndUpdateBook(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(admin)

	authorID := itemID
	env.books.EXPECT().AddBook(gomock.Any(), admin, entity.Book{
		Title:     "Dune",
		AuthorIDs: []string{authorID},
		Subjects:  []string{"sf"},
	}).Return(entity.Book{ID: bookID, Title: "Dune"}, nil)

	rec := env.do(http.MethodPost, "/books", `{"title":"Dune","author_ids":["`+authorID+`"],"subjects":["sf"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, bookID, decodeBody[entity.Book](t, rec).ID)

	env.books.EXPECT().UpdateBook(gomock.Any(), admin, entity.Book{ID: bookID, Title: "Dune Messiah"}).
		Return(entity.Book{ID: bookID, Title: "Dune Messiah"}, nil)

	rec = env.do(http.MethodPut, "/books/"+bookID, `{"title":"Dune Messiah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Dune Messiah", decodeBody[entity.Book](t, rec).Title)
}

func TestDeleteBookGoesThroughCirculation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(admin)
	env.circulation.EXPECT().DeleteBook(gomock.Any(), admin, bookID).Return(entity.ErrItemNotAvailable)

	rec := env.do(http.MethodDelete, "/books/"+bookID, "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestItems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(admin)
	env.circulation.EXPECT().AddItem(gomock.Any(), admin, bookID, "A1").
		Return(entity.BookItem{ID: itemID, BookID: bookID, AccessionNo: "A1", Status: entity.StatusAvailable}, nil)
	env.circulation.EXPECT().ListItems(gomock.Any(), bookID).
		Return([]entity.BookItem{{ID: itemID, AccessionNo: "A1"}}, nil)

	rec := env.do(http.MethodPost, "/books/"+bookID+"/items", `{"acc_no":"A1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/books/"+bookID+"/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]entity.BookItem](t, rec), 1)
}

func TestFeatureRecommendations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.as(entity.User{})
	env.recommendations.EXPECT().ByFeatureVector(gomock.Any(), []float64{0.5, 1}).
		Return(nil, entity.ErrInvalidVector)

	rec := env.do(http.MethodPost, "/books/v2/recommendations", `{"values":[0.5,1]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
