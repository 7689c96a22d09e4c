package inventory

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/repository/mocks"
)

var errInternal = errors.New("internal error")

func initInventoryTest(t *testing.T) (context.Context, *mocks.MockInventoryRepository, *Manager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInventoryRepository(ctrl)
	return context.Background(), repo, New(zap.NewNop(), repo)
}

func TestAddItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		accessionNo string
		repoErr     error
		requireErr  error
	}{
		{name: "valid copy", accessionNo: " A-1 "},
		{name: "empty accession", accessionNo: "  ", requireErr: entity.ErrValidation},
		{name: "duplicate accession", accessionNo: "A-1", repoErr: entity.ErrDuplicateAccession, requireErr: entity.ErrDuplicateAccession},
		{name: "unknown book", accessionNo: "A-1", repoErr: entity.ErrUnknownBook, requireErr: entity.ErrNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			ctx, repo, m := initInventoryTest(t)
			if !errors.Is(test.requireErr, entity.ErrValidation) {
				repo.EXPECT().AddItem(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, item entity.BookItem) (entity.BookItem, error) {
					if test.repoErr != nil {
						return entity.BookItem{}, test.repoErr
					}
					return item, nil
				})
			}

			item, err := m.AddItem(ctx, "book1", test.accessionNo)
			require.ErrorIs(t, err, test.requireErr)
			if err != nil {
				require.Empty(t, item)
				return
			}

			require.NoError(t, validation.ValidateStruct(&item, validation.Field(&item.ID, is.UUID)))
			require.Equal(t, "A-1", item.AccessionNo)
			require.Equal(t, entity.StatusAvailable, item.Status)
		})
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		next       entity.ItemStatus
		expected   entity.ItemStatus
		repoErr    error
		callsRepo  bool
		requireErr error
	}{
		{name: "reserve", next: entity.StatusReserved, expected: entity.StatusAvailable, callsRepo: true},
		{name: "lost race", next: entity.StatusReserved, expected: entity.StatusAvailable, callsRepo: true,
			repoErr: entity.ErrStatusConflict, requireErr: entity.ErrConflict},
		{name: "issued cannot be reserved", next: entity.StatusReserved, expected: entity.StatusIssued,
			requireErr: entity.ErrInvalidTransition},
		{name: "store failure", next: entity.StatusAvailable, expected: entity.StatusIssued, callsRepo: true,
			repoErr: errInternal, requireErr: errInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			ctx, repo, m := initInventoryTest(t)
			if test.callsRepo {
				repo.EXPECT().CompareAndSetStatus(ctx, "item1", test.expected, test.next).Return(test.repoErr)
			}

			err := m.SetStatus(ctx, "item1", test.next, test.expected)
			require.ErrorIs(t, err, test.requireErr)
		})
	}
}

func TestDeleteAllForBook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deleted    int
		repoErr    error
		requireErr error
	}{
		{name: "all copies on the shelf", deleted: 2},
		{name: "one copy issued", repoErr: entity.ErrItemNotAvailable, requireErr: entity.ErrItemNotAvailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			ctx, repo, m := initInventoryTest(t)
			repo.EXPECT().DeleteAllForBook(ctx, "book1").Return(test.deleted, test.repoErr)

			deleted, err := m.DeleteAllForBook(ctx, "book1")
			require.ErrorIs(t, err, test.requireErr)
			require.Equal(t, test.deleted, deleted)
		})
	}
}

func TestFindAvailable(t *testing.T) {
	t.Parallel()

	ctx, repo, m := initInventoryTest(t)
	repo.EXPECT().FindAvailable(ctx, "book1").Return(entity.BookItem{ID: "item1", AccessionNo: "A1"}, true, nil)

	item, ok, err := m.FindAvailable(ctx, "book1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A1", item.AccessionNo)
}
