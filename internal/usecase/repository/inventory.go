package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5"
	"github.com/project/circulation/internal/entity"
)

var _ InventoryRepository = (*inventoryRepository)(nil)

type inventoryRepository struct {
	logger *zap.Logger
	db     DataBase
}

func NewInventory(logger *zap.Logger, db DataBase) *inventoryRepository {
	return &inventoryRepository{
		logger: logger,
		db:     db,
	}
}

func scanItem(row pgx.Row) (entity.BookItem, error) {
	var (
		item   entity.BookItem
		status string
	)
	err := row.Scan(&item.ID, &item.BookID, &item.AccessionNo, &status, &item.CreatedAt, &item.UpdatedAt)
	item.Status = entity.ItemStatus(status)
	return item, err
}

func (i *inventoryRepository) AddItem(ctx context.Context, item entity.BookItem) (entity.BookItem, error) {
	const query = `
INSERT INTO book_item (id, book_id, accession_no, status)
SELECT $1, b.id, $3, $4
FROM book b
WHERE b.id = $2 AND b.deleted_at IS NULL
RETURNING created_at, updated_at
`
	result := item

	err := conn(ctx, i.db).QueryRow(ctx, query, item.ID, item.BookID, item.AccessionNo, string(item.Status)).
		Scan(&result.CreatedAt, &result.UpdatedAt)

	switch code, _ := pgCode(err); {
	case err == nil:
		return result, nil
	case code == ErrUniqueViolation:
		return entity.BookItem{}, fmt.Errorf("%s: %w", item.AccessionNo, entity.ErrDuplicateAccession)
	default:
		return entity.BookItem{}, notFound(err, entity.ErrUnknownBook)
	}
}

func (i *inventoryRepository) GetItem(ctx context.Context, itemID string) (entity.BookItem, error) {
	const query = `
SELECT id, book_id, accession_no, status, created_at, updated_at
FROM book_item
WHERE id = $1
`
	item, err := scanItem(conn(ctx, i.db).QueryRow(ctx, query, itemID))
	if err != nil {
		return entity.BookItem{}, notFound(err, entity.ErrItemNotFound)
	}

	return item, nil
}

func (i *inventoryRepository) ListItems(ctx context.Context, bookID string) ([]entity.BookItem, error) {
	const query = `
SELECT id, book_id, accession_no, status, created_at, updated_at
FROM book_item
WHERE book_id = $1
ORDER BY accession_no
`
	rows, err := conn(ctx, i.db).Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entity.BookItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (i *inventoryRepository) FindAvailable(ctx context.Context, bookID string) (entity.BookItem, bool, error) {
	const query = `
SELECT id, book_id, accession_no, status, created_at, updated_at
FROM book_item
WHERE book_id = $1 AND status = 'AVAILABLE'
ORDER BY accession_no
LIMIT 1
`
	item, err := scanItem(conn(ctx, i.db).QueryRow(ctx, query, bookID))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.BookItem{}, false, nil
	}
	if err != nil {
		return entity.BookItem{}, false, err
	}

	return item, true, nil
}

func (i *inventoryRepository) CompareAndSetStatus(ctx context.Context, itemID string, expected, next entity.ItemStatus) error {
	const query = `
UPDATE book_item SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
`
	q := conn(ctx, i.db)

	tag, err := q.Exec(ctx, query, string(next), itemID, string(expected))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err = q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM book_item WHERE id = $1)`, itemID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return entity.ErrItemNotFound
	}

	return fmt.Errorf("item %s is not %s: %w", itemID, expected, entity.ErrStatusConflict)
}

func (i *inventoryRepository) DeleteItem(ctx context.Context, itemID string) error {
	const query = `
DELETE FROM book_item
WHERE id = $1 AND status = 'AVAILABLE'
`
	q := conn(ctx, i.db)

	tag, err := q.Exec(ctx, query, itemID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err = q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM book_item WHERE id = $1)`, itemID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return entity.ErrItemNotFound
	}

	return entity.ErrItemNotAvailable
}

// DeleteAllForBook locks every copy of the book before checking them, so a
// concurrent CAS waits until the delete commits or rolls back.
func (i *inventoryRepository) DeleteAllForBook(ctx context.Context, bookID string) (int, error) {
	const queryLock = `
SELECT status
FROM book_item
WHERE book_id = $1
FOR UPDATE
`
	var deleted int

	err := inTx(ctx, i.db, i.logger, func(q executor) error {
		rows, err := q.Query(ctx, queryLock, bookID)
		if err != nil {
			return err
		}

		busy := 0
		for rows.Next() {
			var status string
			if err = rows.Scan(&status); err != nil {
				rows.Close()
				return err
			}
			if entity.ItemStatus(status) != entity.StatusAvailable {
				busy++
			}
		}
		rows.Close()

		if err = rows.Err(); err != nil {
			return err
		}

		if busy > 0 {
			return fmt.Errorf("%d copies are out: %w", busy, entity.ErrItemNotAvailable)
		}

		tag, err := q.Exec(ctx, `DELETE FROM book_item WHERE book_id = $1`, bookID)
		if err != nil {
			return err
		}

		deleted = int(tag.RowsAffected())
		return nil
	})

	if err != nil {
		return 0, err
	}

	return deleted, nil
}
