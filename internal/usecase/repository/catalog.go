package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5"
	"github.com/project/circulation/internal/entity"
)

var _ CatalogRepository = (*catalogRepository)(nil)

type catalogRepository struct {
	logger *zap.Logger
	db     DataBase
}

func NewCatalog(logger *zap.Logger, db DataBase) *catalogRepository {
	return &catalogRepository{
		logger: logger,
		db:     db,
	}
}

const bookColumns = `
b.id, b.title, b.description, b.created_at, b.updated_at,
ARRAY(SELECT ab.author_id::text FROM author_book ab WHERE ab.book_id = b.id ORDER BY ab.author_id),
ARRAY(SELECT s.subject FROM book_subject s WHERE s.book_id = b.id ORDER BY s.subject)`

func scanBook(row pgx.Row) (entity.Book, error) {
	var book entity.Book
	err := row.Scan(&book.ID, &book.Title, &book.Description, &book.CreatedAt, &book.UpdatedAt,
		&book.AuthorIDs, &book.Subjects)
	return book, err
}

func (c *catalogRepository) AddBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	const queryBook = `
INSERT INTO book (title, description)
VALUES ($1, $2)
RETURNING id, created_at, updated_at
`
	result := book

	err := inTx(ctx, c.db, c.logger, func(q executor) error {
		err := q.QueryRow(ctx, queryBook, book.Title, book.Description).
			Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
		if err != nil {
			return err
		}

		return c.link(ctx, q, result.ID, book.AuthorIDs, book.Subjects)
	})

	if err != nil {
		return entity.Book{}, err
	}

	return result, nil
}

func (c *catalogRepository) link(ctx context.Context, q executor, bookID string, authorIDs, subjects []string) error {
	const queryAuthorBooks = `
INSERT INTO author_book (author_id, book_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	for _, authorID := range authorIDs {
		if _, err := q.Exec(ctx, queryAuthorBooks, authorID, bookID); err != nil {
			if code, _ := pgCode(err); code == ErrForeignKeyViolation {
				return fmt.Errorf("author with ID %s does not exist: %w", authorID, entity.ErrAuthorNotFound)
			}
			return err
		}
	}

	const querySubjects = `
INSERT INTO book_subject (book_id, subject)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	for _, subject := range subjects {
		if _, err := q.Exec(ctx, querySubjects, bookID, subject); err != nil {
			return err
		}
	}

	return nil
}

func (c *catalogRepository) UpdateBook(ctx context.Context, book entity.Book) (entity.Book, error) {
	const queryBook = `
UPDATE book SET title = $1, description = $2, updated_at = now()
WHERE id = $3 AND deleted_at IS NULL
RETURNING created_at, updated_at
`
	result := book

	err := inTx(ctx, c.db, c.logger, func(q executor) error {
		err := q.QueryRow(ctx, queryBook, book.Title, book.Description, book.ID).
			Scan(&result.CreatedAt, &result.UpdatedAt)
		if err != nil {
			return notFound(err, entity.ErrBookNotFound)
		}

		if _, err = q.Exec(ctx, `DELETE FROM author_book WHERE book_id = $1`, book.ID); err != nil {
			return err
		}

		if _, err = q.Exec(ctx, `DELETE FROM book_subject WHERE book_id = $1`, book.ID); err != nil {
			return err
		}

		return c.link(ctx, q, book.ID, book.AuthorIDs, book.Subjects)
	})

	if err != nil {
		return entity.Book{}, err
	}

	return result, nil
}

func (c *catalogRepository) GetBook(ctx context.Context, bookID string) (entity.Book, error) {
	query := `SELECT ` + bookColumns + `
FROM book b
WHERE b.id = $1 AND b.deleted_at IS NULL
`
	book, err := scanBook(conn(ctx, c.db).QueryRow(ctx, query, bookID))
	if err != nil {
		return entity.Book{}, notFound(err, entity.ErrBookNotFound)
	}

	return book, nil
}

func (c *catalogRepository) ListBooks(ctx context.Context) ([]entity.Book, error) {
	query := `SELECT ` + bookColumns + `
FROM book b
WHERE b.deleted_at IS NULL
ORDER BY b.title, b.id
`
	return c.queryBooks(ctx, query)
}

// SearchBooks matches a case-insensitive title substring.
func (c *catalogRepository) SearchBooks(ctx context.Context, title string) ([]entity.Book, error) {
	query := `SELECT ` + bookColumns + `
FROM book b
WHERE b.deleted_at IS NULL AND b.title ILIKE '%' || $1 || '%'
ORDER BY b.title, b.id
`
	return c.queryBooks(ctx, query, title)
}

func (c *catalogRepository) queryBooks(ctx context.Context, query string, args ...any) ([]entity.Book, error) {
	rows, err := conn(ctx, c.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]entity.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// DeleteBook is a soft delete: ledger entries keep pointing at the row.
func (c *catalogRepository) DeleteBook(ctx context.Context, bookID string) error {
	const query = `
UPDATE book SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL
`
	tag, err := conn(ctx, c.db).Exec(ctx, query, bookID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrBookNotFound
	}

	return nil
}

func (c *catalogRepository) AddAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	const query = `
INSERT INTO author (name, bio)
VALUES ($1, $2)
RETURNING id, created_at, updated_at
`
	result := author

	err := conn(ctx, c.db).QueryRow(ctx, query, author.Name, author.Bio).
		Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return entity.Author{}, err
	}

	return result, nil
}

func (c *catalogRepository) GetAuthor(ctx context.Context, authorID string) (entity.Author, error) {
	const query = `
SELECT id, name, bio, created_at, updated_at
FROM author
WHERE id = $1
`
	var author entity.Author
	err := conn(ctx, c.db).QueryRow(ctx, query, authorID).
		Scan(&author.ID, &author.Name, &author.Bio, &author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		return entity.Author{}, notFound(err, entity.ErrAuthorNotFound)
	}

	return author, nil
}

func (c *catalogRepository) ListAuthors(ctx context.Context) ([]entity.Author, error) {
	const query = `
SELECT id, name, bio, created_at, updated_at
FROM author
ORDER BY name, id
`
	rows, err := conn(ctx, c.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]entity.Author, 0)
	for rows.Next() {
		var author entity.Author
		if err = rows.Scan(&author.ID, &author.Name, &author.Bio, &author.CreatedAt, &author.UpdatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

// DeleteAuthor removes the author and, through the cascade on author_book,
// its links. Books stay.
func (c *catalogRepository) DeleteAuthor(ctx context.Context, authorID string) error {
	tag, err := conn(ctx, c.db).Exec(ctx, `DELETE FROM author WHERE id = $1`, authorID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrAuthorNotFound
	}

	return nil
}

func (c *catalogRepository) ListSubjects(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT s.subject
FROM book_subject s JOIN book b ON b.id = s.book_id
WHERE b.deleted_at IS NULL
ORDER BY s.subject
`
	rows, err := conn(ctx, c.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]string, 0)
	for rows.Next() {
		var subject string
		if err = rows.Scan(&subject); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}
