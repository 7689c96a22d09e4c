package library

import (
	"context"

	"github.com/project/circulation/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/library_mock.go -package=mocks

type (
	AuthorUseCase interface {
		AddAuthor(ctx context.Context, name, bio string) (entity.Author, error)
		ListAuthors(ctx context.Context) ([]entity.Author, error)
		DeleteAuthor(ctx context.Context, user entity.User, authorID string) error
	}

	BooksUseCase interface {
		AddBook(ctx context.Context, user entity.User, book entity.Book) (entity.Book, error)
		GetBook(ctx context.Context, bookID string) (entity.Book, error)
		ListBooks(ctx context.Context) ([]entity.Book, error)
		UpdateBook(ctx context.Context, user entity.User, book entity.Book) (entity.Book, error)
		SearchBooks(ctx context.Context, title string) ([]entity.Book, error)
		ListSubjects(ctx context.Context) ([]string, error)
	}
)
