package library

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/repository"
)

func normalizeBook(book entity.Book) (entity.Book, error) {
	book.Title = strings.TrimSpace(book.Title)
	if book.Title == "" {
		return entity.Book{}, fmt.Errorf("empty title: %w", entity.ErrValidation)
	}

	book.Description = strings.TrimSpace(book.Description)
	book.AuthorIDs = clean(book.AuthorIDs)
	book.Subjects = clean(book.Subjects)
	return book, nil
}

func (l *Library) AddBook(ctx context.Context, user entity.User, book entity.Book) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	log.InfoBook(l.logger, "start of adding book", traceID, log.AddBook, book.Title, book.AuthorIDs...)

	if err := l.policy.Check(user, entity.ActionAddBook); err != nil {
		return entity.Book{}, err
	}

	book, err := normalizeBook(book)
	if err != nil {
		return entity.Book{}, err
	}

	var added entity.Book
	err = l.transactor.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		added, txErr = l.catalog.AddBook(ctx, book)
		if txErr != nil {
			return txErr
		}

		return l.send(ctx, repository.OutboxKindBook, added.ID, Event{Type: EventCreated, Book: &added})
	})

	if log.ErrorBook(l.logger, err, "failed to add book", traceID, log.AddBook, book.Title) {
		span.RecordError(err)
		return entity.Book{}, err
	}

	l.changed()
	span.SetAttributes(attribute.String("book_id", added.ID))
	log.InfoBook(l.logger, "added the book", traceID, log.AddBook, added.ID, added.AuthorIDs...)
	return added, nil
}

func (l *Library) GetBook(ctx context.Context, bookID string) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("book_id", bookID))

	book, err := l.catalog.GetBook(ctx, bookID)
	if log.ErrorBook(l.logger, err, "failed to get book", traceID, log.GetBook, bookID) {
		span.RecordError(err)
		return entity.Book{}, err
	}

	return book, nil
}

func (l *Library) ListBooks(ctx context.Context) ([]entity.Book, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	books, err := l.catalog.ListBooks(ctx)
	if log.ErrorBook(l.logger, err, "failed to list books", traceID, log.ListBooks, "") {
		return nil, err
	}

	return books, nil
}

func (l *Library) UpdateBook(ctx context.Context, user entity.User, book entity.Book) (entity.Book, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("book_id", book.ID))
	log.InfoBook(l.logger, "start of updating book", traceID, log.UpdateBook, book.ID, book.AuthorIDs...)

	if err := l.policy.Check(user, entity.ActionUpdateBook); err != nil {
		return entity.Book{}, err
	}

	book, err := normalizeBook(book)
	if err != nil {
		return entity.Book{}, err
	}

	var updated entity.Book
	err = l.transactor.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		updated, txErr = l.catalog.UpdateBook(ctx, book)
		if txErr != nil {
			return txErr
		}

		key := updated.ID + "_" + strconv.FormatInt(updated.UpdatedAt.UnixNano(), 10)
		return l.send(ctx, repository.OutboxKindBook, key, Event{Type: EventUpdated, Book: &updated})
	})

	if log.ErrorBook(l.logger, err, "failed to update book", traceID, log.UpdateBook, book.ID) {
		span.RecordError(err)
		return entity.Book{}, err
	}

	l.changed()
	log.InfoBook(l.logger, "updated the book", traceID, log.UpdateBook, updated.ID, updated.AuthorIDs...)
	return updated, nil
}

// DeleteBook removes the book from the catalog. The caller is in charge of
// the role check, of clearing the copies first and of announcing the change
// once its own transaction commits.
func (l *Library) DeleteBook(ctx context.Context, bookID string) error {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		if txErr := l.catalog.DeleteBook(ctx, bookID); txErr != nil {
			return txErr
		}

		return l.send(ctx, repository.OutboxKindBook, bookID+"_deleted",
			Event{Type: EventDeleted, Book: &entity.Book{ID: bookID}})
	})

	if log.ErrorBook(l.logger, err, "failed to delete book", traceID, log.DeleteBook, bookID) {
		span.RecordError(err)
		return err
	}

	log.InfoBook(l.logger, "deleted the book", traceID, log.DeleteBook, bookID)
	return nil
}

func (l *Library) SearchBooks(ctx context.Context, title string) ([]entity.Book, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	title = strings.TrimSpace(title)
	if title == "" {
		return []entity.Book{}, nil
	}

	books, err := l.catalog.SearchBooks(ctx, title)
	if log.ErrorBook(l.logger, err, "failed to search books", traceID, log.SearchBooks, title) {
		return nil, err
	}

	return books, nil
}

func (l *Library) ListSubjects(ctx context.Context) ([]string, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	subjects, err := l.catalog.ListSubjects(ctx)
	if log.ErrorBook(l.logger, err, "failed to list subjects", traceID, log.ListSubjects, "") {
		return nil, err
	}

	return subjects, nil
}
