package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/controller/mocks"
	"github.com/project/circulation/internal/entity"
	librarymocks "github.com/project/circulation/internal/usecase/library/mocks"
)

const (
	bookID = "0c8f8d5e-8d0b-4a52-9d6c-7f0a1e3a6b11"
	txID   = "5b3f2a9c-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
	itemID = "9e2d1c4b-7a6f-4e5d-9c8b-1a2b3c4d5e6f"
)

var (
	student = entity.User{ID: "u1", Role: entity.RoleStudent}
	admin   = entity.User{ID: "a1", Role: entity.RoleAdmin}
)

type testEnv struct {
	authors         *librarymocks.MockAuthorUseCase
	books           *librarymocks.MockBooksUseCase
	circulation     *mocks.MockCirculationUseCase
	recommendations *mocks.MockRecommendationUseCase
	auth            *mocks.MockAuthenticator
	handler         http.Handler
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	env := testEnv{
		authors:         librarymocks.NewMockAuthorUseCase(ctrl),
		books:           librarymocks.NewMockBooksUseCase(ctrl),
		circulation:     mocks.NewMockCirculationUseCase(ctrl),
		recommendations: mocks.NewMockRecommendationUseCase(ctrl),
		auth:            mocks.NewMockAuthenticator(ctrl),
	}

	service := New(zap.NewNop(), env.authors, env.books, env.circulation, env.recommendations, env.auth)
	mux, err := service.NewMux()
	require.NoError(t, err)
	env.handler = mux

	return env
}

// as makes every request of the test resolve to user.
func (e testEnv) as(user entity.User) {
	e.auth.EXPECT().Authenticate(gomock.Any()).Return(user, nil).AnyTimes()
}

func (e testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
