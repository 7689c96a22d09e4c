package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/inventory"
	"github.com/project/circulation/internal/usecase/repository"
)

type fixture struct {
	store  *repository.MemoryStore
	ledger *Ledger
	book   entity.Book
	items  []entity.BookItem
}

func newFixture(t *testing.T, attempts int, copies int, opts ...Option) fixture {
	t.Helper()

	ctx := context.Background()
	store := repository.NewMemoryStore(3)
	inv := inventory.New(zap.NewNop(), store)

	book, err := store.AddBook(ctx, entity.Book{Title: "Dune"})
	require.NoError(t, err)

	items := make([]entity.BookItem, 0, copies)
	for i := copies; i >= 1; i-- {
		item, err := inv.AddItem(ctx, book.ID, fmt.Sprintf("A%d", i))
		require.NoError(t, err)
		items = append([]entity.BookItem{item}, items...)
	}

	cfg := config.Circulation{
		LoanPeriod:     14 * 24 * time.Hour,
		RetryAttempts:  attempts,
		RetryBaseDelay: time.Millisecond,
	}

	return fixture{
		store:  store,
		ledger: New(zap.NewNop(), inv, store, store, store, cfg, opts...),
		book:   book,
		items:  items,
	}
}

func (f fixture) status(t *testing.T, itemID string) entity.ItemStatus {
	t.Helper()
	item, err := f.store.GetItem(context.Background(), itemID)
	require.NoError(t, err)
	return item.Status
}

func TestOpenReservation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 2)

	first, err := f.ledger.OpenReservation(ctx, f.book.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, f.items[0].ID, first.ItemID)
	require.Equal(t, entity.KindReservation, first.Kind)
	require.Equal(t, entity.StatusReserved, f.status(t, first.ItemID))

	_, err = f.ledger.OpenReservation(ctx, f.book.ID, "u1")
	require.ErrorIs(t, err, entity.ErrDuplicateReservation)

	second, err := f.ledger.OpenReservation(ctx, f.book.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, f.items[1].ID, second.ItemID)

	_, err = f.ledger.OpenReservation(ctx, f.book.ID, "u3")
	require.ErrorIs(t, err, entity.ErrUnavailable)
}

func TestConcurrentReservations(t *testing.T) {
	t.Parallel()

	const copies = 8
	ctx := context.Background()
	f := newFixture(t, copies+1, copies)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		won  = make(map[string]string)
		errs = make([]error, 0)
	)

	for i := 0; i < copies+1; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			reservation, err := f.ledger.OpenReservation(ctx, f.book.ID, user)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			won[reservation.ItemID] = user
		}(fmt.Sprintf("u%d", i))
	}
	wg.Wait()

	require.Len(t, won, copies)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], entity.ErrUnavailable)

	for _, item := range f.items {
		require.Equal(t, entity.StatusReserved, f.status(t, item.ID))
	}
}

func TestImmediateIssueWithoutCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 0)

	_, err := f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u1", ProcessedBy: "issuer"})
	require.ErrorIs(t, err, entity.ErrUnavailable)

	all, err := f.ledger.ListForBook(ctx, f.book.ID, "")
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestImmediateIssueSetsDueDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, 3, 1, WithClock(func() time.Time { return now }))

	issue, err := f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u1", ProcessedBy: "issuer"})
	require.NoError(t, err)
	require.Equal(t, now.Add(14*24*time.Hour), *issue.DueAt)
	require.Equal(t, "issuer", issue.ProcessedBy)
	require.Equal(t, entity.StatusIssued, f.status(t, issue.ItemID))
}

func TestReserveIssueReturn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)

	reservation, err := f.ledger.OpenReservation(ctx, f.book.ID, "u1")
	require.NoError(t, err)

	_, err = f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u2", ItemID: reservation.ItemID})
	require.ErrorIs(t, err, entity.ErrNotReserved)

	issue, err := f.ledger.OpenIssue(ctx, IssueRequest{
		BookID:      f.book.ID,
		UserID:      "u1",
		ItemID:      reservation.ItemID,
		ProcessedBy: "issuer",
	})
	require.NoError(t, err)
	require.Equal(t, reservation.ID, issue.RelatedID)
	require.Equal(t, entity.StatusIssued, f.status(t, reservation.ItemID))

	_, err = f.ledger.Promote(ctx, reservation, "issuer")
	require.ErrorIs(t, err, entity.ErrReservationClosed)

	result, err := f.ledger.CloseReturn(ctx, issue.ID, "issuer")
	require.NoError(t, err)
	require.False(t, result.Desync)
	require.Equal(t, entity.StatusAvailable, f.status(t, reservation.ItemID))

	stored, err := f.ledger.Get(ctx, issue.ID)
	require.NoError(t, err)
	require.False(t, stored.CreatedAt.IsZero())
	require.NotNil(t, stored.ReturnedAt)

	returns, err := f.ledger.ListForBook(ctx, f.book.ID, entity.KindReturn)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	require.Equal(t, issue.ID, returns[0].RelatedID)

	issues, err := f.ledger.ListForBook(ctx, f.book.ID, entity.KindIssue)
	require.NoError(t, err)
	require.Len(t, issues, 1)
}

func TestCloseReturnTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)

	issue, err := f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u1"})
	require.NoError(t, err)

	_, err = f.ledger.CloseReturn(ctx, issue.ID, "issuer")
	require.NoError(t, err)

	_, err = f.ledger.OpenReservation(ctx, f.book.ID, "u2")
	require.NoError(t, err)

	_, err = f.ledger.CloseReturn(ctx, issue.ID, "issuer")
	require.ErrorIs(t, err, entity.ErrAlreadyClosed)
	require.Equal(t, entity.StatusReserved, f.status(t, issue.ItemID))
}

func TestCloseReturnNotAnIssue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)

	reservation, err := f.ledger.OpenReservation(ctx, f.book.ID, "u1")
	require.NoError(t, err)

	_, err = f.ledger.CloseReturn(ctx, reservation.ID, "issuer")
	require.ErrorIs(t, err, entity.ErrNotAnIssue)
	require.Equal(t, entity.StatusReserved, f.status(t, reservation.ItemID))

	_, err = f.ledger.CloseReturn(ctx, "missing", "issuer")
	require.ErrorIs(t, err, entity.ErrTransactionNotFound)
}

func TestCloseReturnDesync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)

	issue, err := f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, f.store.CompareAndSetStatus(ctx, issue.ItemID, entity.StatusIssued, entity.StatusAvailable))
	require.NoError(t, f.store.CompareAndSetStatus(ctx, issue.ItemID, entity.StatusAvailable, entity.StatusReserved))

	result, err := f.ledger.CloseReturn(ctx, issue.ID, "issuer")
	require.NoError(t, err)
	require.True(t, result.Desync)
	require.NotNil(t, result.Issue.ReturnedAt)

	_, queued := f.store.MessageStatus("reconcile_" + issue.ItemID + "_" + issue.ID)
	require.True(t, queued)

	status, err := f.ledger.Reconcile(ctx, issue.ItemID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusAvailable, status)
	require.Equal(t, entity.StatusAvailable, f.status(t, issue.ItemID))
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)

	issue, err := f.ledger.OpenIssue(ctx, IssueRequest{BookID: f.book.ID, UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, f.store.CompareAndSetStatus(ctx, issue.ItemID, entity.StatusIssued, entity.StatusAvailable))

	status, err := f.ledger.Reconcile(ctx, issue.ItemID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusIssued, status)
	require.Equal(t, entity.StatusIssued, f.status(t, issue.ItemID))

	status, err = f.ledger.Reconcile(ctx, "gone")
	require.NoError(t, err)
	require.Empty(t, status)
}

func TestCancelAndExpireReservations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	f := newFixture(t, 3, 2, WithClock(func() time.Time { return *clock }))

	first, err := f.ledger.OpenReservation(ctx, f.book.ID, "u1")
	require.NoError(t, err)

	cancelled, err := f.ledger.CancelReservation(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, cancelled.ClosedAt)
	require.Equal(t, entity.StatusAvailable, f.status(t, first.ItemID))

	_, err = f.ledger.CancelReservation(ctx, first)
	require.ErrorIs(t, err, entity.ErrAlreadyClosed)

	second, err := f.ledger.OpenReservation(ctx, f.book.ID, "u2")
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	clock = &later

	expired, err := f.ledger.ExpireReservations(ctx, 24*time.Hour, 10)
	require.NoError(t, err)
	require.Equal(t, 1, expired)
	require.Equal(t, entity.StatusAvailable, f.status(t, second.ItemID))
}

func TestDerivedStatus(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.Equal(t, entity.StatusAvailable, DerivedStatus(nil))
	require.Equal(t, entity.StatusReserved, DerivedStatus([]entity.Transaction{{Kind: entity.KindReservation}}))
	require.Equal(t, entity.StatusIssued, DerivedStatus([]entity.Transaction{
		{Kind: entity.KindReservation},
		{Kind: entity.KindIssue},
	}))
	require.Equal(t, entity.StatusAvailable, DerivedStatus([]entity.Transaction{{Kind: entity.KindIssue, ReturnedAt: &now}}))
}

// txTracker records whether outbox writes happen inside WithTx.
type txTracker struct {
	*repository.MemoryStore
	inTx     bool
	sentInTx []bool
}

func (s *txTracker) WithTx(ctx context.Context, function func(ctx context.Context) error) error {
	s.inTx = true
	defer func() { s.inTx = false }()
	return s.MemoryStore.WithTx(ctx, function)
}

func (s *txTracker) SendMessage(ctx context.Context, key string, kind repository.OutboxKind, message []byte) error {
	s.sentInTx = append(s.sentInTx, s.inTx)
	return s.MemoryStore.SendMessage(ctx, key, kind, message)
}

func TestPromoteCopyChangedOutOfBand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, 3, 1)
	tracked := &txTracker{MemoryStore: f.store}
	l := New(zap.NewNop(), inventory.New(zap.NewNop(), f.store), f.store, tracked, tracked, config.Circulation{
		LoanPeriod:     time.Hour,
		RetryAttempts:  3,
		RetryBaseDelay: time.Millisecond,
	})

	reservation, err := l.OpenReservation(ctx, f.book.ID, "u1")
	require.NoError(t, err)
	require.NoError(t, f.store.CompareAndSetStatus(ctx, reservation.ItemID, entity.StatusReserved, entity.StatusAvailable))
	tracked.sentInTx = nil

	_, err = l.Promote(ctx, reservation, "issuer")
	require.ErrorIs(t, err, entity.ErrNotReserved)

	stored, err := l.Get(ctx, reservation.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ClosedAt)

	issues, err := l.ListForBook(ctx, f.book.ID, entity.KindIssue)
	require.NoError(t, err)
	require.Empty(t, issues)

	_, queued := f.store.MessageStatus("reconcile_" + reservation.ItemID + "_" + reservation.ID)
	require.True(t, queued)
	require.Equal(t, []bool{false}, tracked.sentInTx)

	status, err := l.Reconcile(ctx, reservation.ItemID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusAvailable, status)
}
