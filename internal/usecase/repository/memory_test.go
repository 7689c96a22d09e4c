package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/project/circulation/internal/entity"
)

func seedBook(t *testing.T, m *MemoryStore, accessions ...string) (entity.Book, []entity.BookItem) {
	t.Helper()

	ctx := context.Background()
	book, err := m.AddBook(ctx, entity.Book{Title: "Dune", Subjects: []string{"sf", "sf", "classic"}})
	require.NoError(t, err)

	items := make([]entity.BookItem, 0, len(accessions))
	for i, acc := range accessions {
		item, err := m.AddItem(ctx, entity.BookItem{
			ID:          book.ID + "-" + string(rune('a'+i)),
			BookID:      book.ID,
			AccessionNo: acc,
			Status:      entity.StatusAvailable,
		})
		require.NoError(t, err)
		items = append(items, item)
	}

	return book, items
}

func TestMemoryStore_Catalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(1)

	author, err := m.AddAuthor(ctx, entity.Author{Name: "Herbert"})
	require.NoError(t, err)

	_, err = m.AddBook(ctx, entity.Book{Title: "x", AuthorIDs: []string{"missing"}})
	require.ErrorIs(t, err, entity.ErrAuthorNotFound)

	book, err := m.AddBook(ctx, entity.Book{Title: "Dune Messiah", AuthorIDs: []string{author.ID}, Subjects: []string{"sf", "sf"}})
	require.NoError(t, err)
	require.Equal(t, []string{"sf"}, book.Subjects)

	found, err := m.SearchBooks(ctx, "dune")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, m.DeleteAuthor(ctx, author.ID))
	book, err = m.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Empty(t, book.AuthorIDs)

	require.NoError(t, m.DeleteBook(ctx, book.ID))
	_, err = m.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, entity.ErrBookNotFound)

	subjects, err := m.ListSubjects(ctx)
	require.NoError(t, err)
	require.Empty(t, subjects)
}

func TestMemoryStore_Inventory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(1)
	book, items := seedBook(t, m, "B-2", "B-1")

	_, err := m.AddItem(ctx, entity.BookItem{ID: "dup", BookID: book.ID, AccessionNo: "B-1", Status: entity.StatusAvailable})
	require.ErrorIs(t, err, entity.ErrDuplicateAccession)

	_, err = m.AddItem(ctx, entity.BookItem{ID: "other", BookID: "nope", AccessionNo: "Z", Status: entity.StatusAvailable})
	require.ErrorIs(t, err, entity.ErrUnknownBook)

	first, ok, err := m.FindAvailable(ctx, book.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "B-1", first.AccessionNo)

	require.NoError(t, m.CompareAndSetStatus(ctx, items[0].ID, entity.StatusAvailable, entity.StatusIssued))
	err = m.CompareAndSetStatus(ctx, items[0].ID, entity.StatusAvailable, entity.StatusReserved)
	require.ErrorIs(t, err, entity.ErrStatusConflict)

	require.ErrorIs(t, m.DeleteItem(ctx, items[0].ID), entity.ErrItemNotAvailable)

	deleted, err := m.DeleteAllForBook(ctx, book.ID)
	require.ErrorIs(t, err, entity.ErrItemNotAvailable)
	require.Zero(t, deleted)

	left, err := m.ListItems(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, left, 2)
}

func TestMemoryStore_ConcurrentCAS(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(1)
	_, items := seedBook(t, m, "A1")

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)

	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.CompareAndSetStatus(ctx, items[0].ID, entity.StatusAvailable, entity.StatusReserved) == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), won.Load())
}

func TestMemoryStore_Ledger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(1)
	book, items := seedBook(t, m, "A1", "A2")
	now := time.Now()

	reservation := entity.Transaction{
		ID: "r1", BookID: book.ID, ItemID: items[0].ID, UserID: "u1",
		Kind: entity.KindReservation, CreatedAt: now,
	}
	require.NoError(t, m.AppendTransaction(ctx, reservation))

	second := reservation
	second.ID, second.ItemID = "r2", items[1].ID
	require.ErrorIs(t, m.AppendTransaction(ctx, second), entity.ErrDuplicateReservation)

	other := reservation
	other.ID, other.UserID = "r3", "u2"
	require.ErrorIs(t, m.AppendTransaction(ctx, other), entity.ErrStatusConflict)

	issue := entity.Transaction{
		ID: "i1", BookID: book.ID, ItemID: items[0].ID, UserID: "u1",
		Kind: entity.KindIssue, RelatedID: "r1", CreatedAt: now.Add(time.Second),
	}
	require.NoError(t, m.AppendTransaction(ctx, issue))
	require.NoError(t, m.CloseReservation(ctx, "r1", now))
	require.ErrorIs(t, m.CloseReservation(ctx, "r1", now), entity.ErrReservationClosed)

	require.NoError(t, m.StampReturn(ctx, "i1", now))
	require.ErrorIs(t, m.StampReturn(ctx, "i1", now), entity.ErrAlreadyReturned)
	require.ErrorIs(t, m.StampReturn(ctx, "r1", now), entity.ErrAlreadyReturned)

	all, err := m.ListTransactions(ctx, LedgerFilter{BookID: book.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"i1", "r1"}, []string{all[0].ID, all[1].ID})

	issues, err := m.ListTransactions(ctx, LedgerFilter{Kind: entity.KindIssue})
	require.NoError(t, err)
	require.Len(t, issues, 1)

	open, err := m.OpenTransactionsForItem(ctx, items[0].ID)
	require.NoError(t, err)
	require.Empty(t, open)

	counts, err := m.IssueCounts(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, map[string]int{book.ID: 1}, counts)
}

func TestMemoryStore_Outbox(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(2)

	require.NoError(t, m.SendMessage(ctx, "k1", OutboxKindReconcile, []byte(`{}`)))
	require.NoError(t, m.SendMessage(ctx, "k1", OutboxKindReconcile, []byte(`{"again":true}`)))

	batch, err := m.GetMessages(ctx, 10, time.Hour)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, []byte(`{}`), batch[0].RawData)

	empty, err := m.GetMessages(ctx, 10, time.Hour)
	require.NoError(t, err)
	require.Empty(t, empty)

	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Created))
	status, ok := m.MessageStatus("k1")
	require.True(t, ok)
	require.Equal(t, Created, status)

	_, err = m.GetMessages(ctx, 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Created))
	status, _ = m.MessageStatus("k1")
	require.Equal(t, Abandoned, status)
}

func TestMemoryStore_OutboxCountsOnlyDeliveries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore(2)

	require.NoError(t, m.SendMessage(ctx, "k1", OutboxKindReconcile, []byte(`{}`)))
	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Created))
	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Created))
	status, _ := m.MessageStatus("k1")
	require.Equal(t, Created, status)

	_, err := m.GetMessages(ctx, 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Created))
	status, _ = m.MessageStatus("k1")
	require.Equal(t, Created, status)

	_, err = m.GetMessages(ctx, 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.MarkAs(ctx, []string{"k1"}, Success))
	status, _ = m.MessageStatus("k1")
	require.Equal(t, Success, status)
}
