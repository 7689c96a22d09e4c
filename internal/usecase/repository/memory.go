package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/project/circulation/internal/entity"
)

var (
	_ CatalogRepository   = (*MemoryStore)(nil)
	_ InventoryRepository = (*MemoryStore)(nil)
	_ LedgerRepository    = (*MemoryStore)(nil)
	_ OutboxRepository    = (*MemoryStore)(nil)
	_ Transactor          = (*MemoryStore)(nil)
)

type memoryMessage struct {
	data      OutboxData
	status    Status
	attempts  int
	updatedAt time.Time
}

// MemoryStore keeps every table in process memory behind one mutex. It
// enforces the same uniqueness rules as the Postgres schema. WithTx gives no
// rollback, callers order their writes so that a failed step leaves nothing
// half done.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	books   map[string]entity.Book
	deleted map[string]bool
	authors map[string]entity.Author

	items      map[string]entity.BookItem
	accessions map[string]string

	transactions []entity.Transaction
	position     map[string]int

	messages      map[string]*memoryMessage
	messageOrder  []string
	attemptsRetry int
}

func NewMemoryStore(attemptsRetry int) *MemoryStore {
	return &MemoryStore{
		now:           time.Now,
		books:         make(map[string]entity.Book),
		deleted:       make(map[string]bool),
		authors:       make(map[string]entity.Author),
		items:         make(map[string]entity.BookItem),
		accessions:    make(map[string]string),
		position:      make(map[string]int),
		messages:      make(map[string]*memoryMessage),
		attemptsRetry: attemptsRetry,
	}
}

func (m *MemoryStore) WithTx(ctx context.Context, function func(ctx context.Context) error) error {
	return function(ctx)
}

func cloneBook(b entity.Book) entity.Book {
	b.AuthorIDs = slices.Clone(b.AuthorIDs)
	b.Subjects = slices.Clone(b.Subjects)
	return b
}

func normalizeLinks(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(result, v) {
			result = append(result, v)
		}
	}
	slices.Sort(result)
	return result
}

func (m *MemoryStore) checkAuthors(authorIDs []string) error {
	for _, id := range authorIDs {
		if _, ok := m.authors[id]; !ok {
			return fmt.Errorf("author with ID %s does not exist: %w", id, entity.ErrAuthorNotFound)
		}
	}
	return nil
}

func (m *MemoryStore) AddBook(_ context.Context, book entity.Book) (entity.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAuthors(book.AuthorIDs); err != nil {
		return entity.Book{}, err
	}

	now := m.now()
	book.ID = uuid.NewString()
	book.AuthorIDs = normalizeLinks(book.AuthorIDs)
	book.Subjects = normalizeLinks(book.Subjects)
	book.CreatedAt, book.UpdatedAt = now, now

	m.books[book.ID] = cloneBook(book)
	return book, nil
}

func (m *MemoryStore) UpdateBook(_ context.Context, book entity.Book) (entity.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.books[book.ID]
	if !ok || m.deleted[book.ID] {
		return entity.Book{}, entity.ErrBookNotFound
	}

	if err := m.checkAuthors(book.AuthorIDs); err != nil {
		return entity.Book{}, err
	}

	book.AuthorIDs = normalizeLinks(book.AuthorIDs)
	book.Subjects = normalizeLinks(book.Subjects)
	book.CreatedAt = current.CreatedAt
	book.UpdatedAt = m.now()

	m.books[book.ID] = cloneBook(book)
	return book, nil
}

func (m *MemoryStore) GetBook(_ context.Context, bookID string) (entity.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.books[bookID]
	if !ok || m.deleted[bookID] {
		return entity.Book{}, entity.ErrBookNotFound
	}

	return cloneBook(book), nil
}

func (m *MemoryStore) ListBooks(_ context.Context) ([]entity.Book, error) {
	return m.filterBooks(func(entity.Book) bool { return true }), nil
}

func (m *MemoryStore) SearchBooks(_ context.Context, title string) ([]entity.Book, error) {
	needle := strings.ToLower(title)
	return m.filterBooks(func(b entity.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle)
	}), nil
}

func (m *MemoryStore) filterBooks(keep func(entity.Book) bool) []entity.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entity.Book, 0)
	for id, book := range m.books {
		if !m.deleted[id] && keep(book) {
			result = append(result, cloneBook(book))
		}
	}

	slices.SortFunc(result, func(a, b entity.Book) int {
		return cmp.Or(strings.Compare(a.Title, b.Title), strings.Compare(a.ID, b.ID))
	})

	return result
}

func (m *MemoryStore) DeleteBook(_ context.Context, bookID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[bookID]; !ok || m.deleted[bookID] {
		return entity.ErrBookNotFound
	}

	m.deleted[bookID] = true
	return nil
}

func (m *MemoryStore) AddAuthor(_ context.Context, author entity.Author) (entity.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	author.ID = uuid.NewString()
	author.CreatedAt, author.UpdatedAt = now, now

	m.authors[author.ID] = author
	return author, nil
}

func (m *MemoryStore) GetAuthor(_ context.Context, authorID string) (entity.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	author, ok := m.authors[authorID]
	if !ok {
		return entity.Author{}, entity.ErrAuthorNotFound
	}

	return author, nil
}

func (m *MemoryStore) ListAuthors(_ context.Context) ([]entity.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entity.Author, 0, len(m.authors))
	for _, author := range m.authors {
		result = append(result, author)
	}

	slices.SortFunc(result, func(a, b entity.Author) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})

	return result, nil
}

func (m *MemoryStore) DeleteAuthor(_ context.Context, authorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authors[authorID]; !ok {
		return entity.ErrAuthorNotFound
	}

	delete(m.authors, authorID)
	for id, book := range m.books {
		if slices.Contains(book.AuthorIDs, authorID) {
			book.AuthorIDs = slices.DeleteFunc(slices.Clone(book.AuthorIDs), func(a string) bool { return a == authorID })
			m.books[id] = book
		}
	}

	return nil
}

func (m *MemoryStore) ListSubjects(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subjects := make([]string, 0)
	for id, book := range m.books {
		if m.deleted[id] {
			continue
		}
		subjects = append(subjects, book.Subjects...)
	}

	return normalizeLinks(subjects), nil
}

func (m *MemoryStore) AddItem(_ context.Context, item entity.BookItem) (entity.BookItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[item.BookID]; !ok || m.deleted[item.BookID] {
		return entity.BookItem{}, entity.ErrUnknownBook
	}

	if _, ok := m.accessions[item.AccessionNo]; ok {
		return entity.BookItem{}, fmt.Errorf("%s: %w", item.AccessionNo, entity.ErrDuplicateAccession)
	}

	now := m.now()
	item.CreatedAt, item.UpdatedAt = now, now

	m.items[item.ID] = item
	m.accessions[item.AccessionNo] = item.ID
	return item, nil
}

func (m *MemoryStore) GetItem(_ context.Context, itemID string) (entity.BookItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok {
		return entity.BookItem{}, entity.ErrItemNotFound
	}

	return item, nil
}

func (m *MemoryStore) ListItems(_ context.Context, bookID string) ([]entity.BookItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.itemsOf(bookID), nil
}

func (m *MemoryStore) itemsOf(bookID string) []entity.BookItem {
	result := make([]entity.BookItem, 0)
	for _, item := range m.items {
		if item.BookID == bookID {
			result = append(result, item)
		}
	}

	slices.SortFunc(result, func(a, b entity.BookItem) int {
		return strings.Compare(a.AccessionNo, b.AccessionNo)
	})

	return result
}

func (m *MemoryStore) FindAvailable(_ context.Context, bookID string) (entity.BookItem, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.itemsOf(bookID) {
		if item.Status == entity.StatusAvailable {
			return item, true, nil
		}
	}

	return entity.BookItem{}, false, nil
}

func (m *MemoryStore) CompareAndSetStatus(_ context.Context, itemID string, expected, next entity.ItemStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return entity.ErrItemNotFound
	}

	if item.Status != expected {
		return fmt.Errorf("item %s is not %s: %w", itemID, expected, entity.ErrStatusConflict)
	}

	item.Status = next
	item.UpdatedAt = m.now()
	m.items[itemID] = item
	return nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return entity.ErrItemNotFound
	}

	if item.Status != entity.StatusAvailable {
		return entity.ErrItemNotAvailable
	}

	delete(m.items, itemID)
	delete(m.accessions, item.AccessionNo)
	return nil
}

func (m *MemoryStore) DeleteAllForBook(_ context.Context, bookID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.itemsOf(bookID)

	busy := 0
	for _, item := range items {
		if item.Status != entity.StatusAvailable {
			busy++
		}
	}

	if busy > 0 {
		return 0, fmt.Errorf("%d copies are out: %w", busy, entity.ErrItemNotAvailable)
	}

	for _, item := range items {
		delete(m.items, item.ID)
		delete(m.accessions, item.AccessionNo)
	}

	return len(items), nil
}

func (m *MemoryStore) AppendTransaction(_ context.Context, t entity.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[t.BookID]; !ok {
		return entity.ErrUnknownBook
	}

	if _, ok := m.position[t.ID]; ok {
		return fmt.Errorf("transaction %s already exists: %w", t.ID, entity.ErrConflict)
	}

	if t.Open() {
		for _, other := range m.transactions {
			if !other.Open() || other.Kind != t.Kind {
				continue
			}
			if t.Kind == entity.KindReservation && other.BookID == t.BookID && other.UserID == t.UserID {
				return entity.ErrDuplicateReservation
			}
			if other.ItemID == t.ItemID {
				return fmt.Errorf("item %s already has an open %s: %w", t.ItemID, t.Kind, entity.ErrStatusConflict)
			}
		}
	}

	m.position[t.ID] = len(m.transactions)
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *MemoryStore) GetTransaction(_ context.Context, transactionID string) (entity.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.position[transactionID]
	if !ok {
		return entity.Transaction{}, entity.ErrTransactionNotFound
	}

	return m.transactions[pos], nil
}

func (m *MemoryStore) StampReturn(_ context.Context, transactionID string, at time.Time) error {
	return m.closeOnce(transactionID, entity.KindIssue, entity.ErrAlreadyReturned, func(t *entity.Transaction) {
		t.ReturnedAt = &at
	})
}

func (m *MemoryStore) CloseReservation(_ context.Context, transactionID string, at time.Time) error {
	return m.closeOnce(transactionID, entity.KindReservation, entity.ErrReservationClosed, func(t *entity.Transaction) {
		t.ClosedAt = &at
	})
}

func (m *MemoryStore) closeOnce(transactionID string, kind entity.TransactionKind, closed error, stamp func(*entity.Transaction)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.position[transactionID]
	if !ok || m.transactions[pos].Kind != kind || !m.transactions[pos].Open() {
		return closed
	}

	stamp(&m.transactions[pos])
	return nil
}

func (m *MemoryStore) ListTransactions(_ context.Context, filter LedgerFilter) ([]entity.Transaction, error) {
	return m.filterTransactions(func(t entity.Transaction) bool {
		return (filter.BookID == "" || t.BookID == filter.BookID) &&
			(filter.UserID == "" || t.UserID == filter.UserID) &&
			(filter.Kind == "" || t.Kind == filter.Kind)
	}), nil
}

func (m *MemoryStore) OpenTransactionsForItem(_ context.Context, itemID string) ([]entity.Transaction, error) {
	return m.filterTransactions(func(t entity.Transaction) bool {
		return t.ItemID == itemID && t.Open()
	}), nil
}

func (m *MemoryStore) StaleReservations(_ context.Context, before time.Time, limit int) ([]entity.Transaction, error) {
	stale := m.filterTransactions(func(t entity.Transaction) bool {
		return t.Kind == entity.KindReservation && t.Open() && t.CreatedAt.Before(before)
	})

	slices.Reverse(stale)
	if len(stale) > limit {
		stale = stale[:limit]
	}

	return stale, nil
}

// filterTransactions returns matches newest first. Entries with equal
// creation time keep reverse append order.
func (m *MemoryStore) filterTransactions(keep func(entity.Transaction) bool) []entity.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entity.Transaction, 0)
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if keep(m.transactions[i]) {
			result = append(result, m.transactions[i])
		}
	}

	slices.SortStableFunc(result, func(a, b entity.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return result
}

func (m *MemoryStore) IssueCounts(_ context.Context, since time.Time) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, t := range m.transactions {
		if t.Kind == entity.KindIssue && !t.CreatedAt.Before(since) {
			counts[t.BookID]++
		}
	}

	return counts, nil
}

func (m *MemoryStore) SendMessage(_ context.Context, idempotencyKey string, kind OutboxKind, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.messages[idempotencyKey]; ok {
		return nil
	}

	m.messages[idempotencyKey] = &memoryMessage{
		data: OutboxData{
			IdempotencyKey: idempotencyKey,
			Kind:           kind,
			RawData:        slices.Clone(message),
		},
		status:    Created,
		updatedAt: m.now(),
	}
	m.messageOrder = append(m.messageOrder, idempotencyKey)
	return nil
}

func (m *MemoryStore) GetMessages(_ context.Context, batchSize int, inProgressTTL time.Duration) ([]OutboxData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	result := make([]OutboxData, 0)

	for _, key := range m.messageOrder {
		if len(result) == batchSize {
			break
		}

		msg := m.messages[key]
		if msg.status == Created || (msg.status == InProgress && now.Sub(msg.updatedAt) > inProgressTTL) {
			msg.status = InProgress
			msg.updatedAt = now
			result = append(result, msg.data)
		}
	}

	return result, nil
}

func (m *MemoryStore) MarkAs(_ context.Context, idempotencyKeys []string, s Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range idempotencyKeys {
		msg, ok := m.messages[key]
		if !ok {
			continue
		}

		next := s
		if msg.status == InProgress {
			if s == Created && msg.attempts+1 >= m.attemptsRetry {
				next = Abandoned
			}
			msg.attempts++
		}

		msg.status = next
		msg.updatedAt = m.now()
	}

	return nil
}

// MessageStatus reports the delivery state of an outbox message.
func (m *MemoryStore) MessageStatus(idempotencyKey string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.messages[idempotencyKey]
	if !ok {
		return 0, false
	}

	return msg.status, true
}
