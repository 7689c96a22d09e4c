package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/repository"
)

func TestAddAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		repoErr error
		wantErr error
	}{
		{name: "valid add author", input: " Frank Herbert "},
		{name: "empty name", input: " ", wantErr: entity.ErrValidation},
		{name: "internal error", input: "Frank Herbert", repoErr: errInternal, wantErr: errInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, deps, l := initLibraryTest(t)
			if tt.wantErr == nil || tt.repoErr != nil {
				deps.catalog.EXPECT().AddAuthor(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, author entity.Author) (entity.Author, error) {
						require.Equal(t, "Frank Herbert", author.Name)
						author.ID = "a1"
						return author, tt.repoErr
					})
			}
			if tt.wantErr == nil {
				deps.outbox.EXPECT().SendMessage(ctx, "author_a1", repository.OutboxKindAuthor, gomock.Any()).Return(nil)
			}

			author, err := l.AddAuthor(ctx, tt.input, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, author)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "a1", author.ID)
		})
	}
}

func TestDeleteAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		user    entity.User
		repoErr error
		wantErr error
	}{
		{name: "admin deletes", user: admin},
		{name: "issuer may not delete", user: entity.User{ID: "i", Role: entity.RoleIssuer}, wantErr: entity.ErrRoleNotAllowed},
		{name: "anonymous", wantErr: entity.ErrUnauthenticated},
		{name: "missing author", user: admin, repoErr: entity.ErrAuthorNotFound, wantErr: entity.ErrAuthorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, deps, l := initLibraryTest(t)
			if tt.user.Role == entity.RoleAdmin {
				deps.catalog.EXPECT().DeleteAuthor(ctx, "a1").Return(tt.repoErr)
			}
			if tt.wantErr == nil {
				deps.outbox.EXPECT().SendMessage(ctx, "author_a1_deleted", repository.OutboxKindAuthor, gomock.Any()).Return(nil)
			}

			err := l.DeleteAuthor(ctx, tt.user, "a1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 1, *deps.changes)
		})
	}
}

func TestListAuthors(t *testing.T) {
	t.Parallel()

	ctx, deps, l := initLibraryTest(t)
	deps.catalog.EXPECT().ListAuthors(ctx).Return([]entity.Author{{ID: "a1"}, {ID: "a2"}}, nil)

	authors, err := l.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
}
