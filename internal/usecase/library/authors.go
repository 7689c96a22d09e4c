package library

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/log"
	"github.com/project/circulation/internal/usecase/repository"
)

func (l *Library) AddAuthor(ctx context.Context, name, bio string) (entity.Author, error) {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	log.InfoAuthor(l.logger, "start of adding author", traceID, log.AddAuthor, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Author{}, fmt.Errorf("empty author name: %w", entity.ErrValidation)
	}

	var author entity.Author
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		author, txErr = l.catalog.AddAuthor(ctx, entity.Author{
			Name: name,
			Bio:  strings.TrimSpace(bio),
		})
		if txErr != nil {
			return txErr
		}

		return l.send(ctx, repository.OutboxKindAuthor, author.ID, Event{Type: EventCreated, Author: &author})
	})

	if log.ErrorAuthor(l.logger, err, "failed to add author", traceID, log.AddAuthor, name) {
		span.SetAttributes(attribute.String("author_name", name))
		span.RecordError(err)
		return entity.Author{}, err
	}

	span.SetAttributes(attribute.String("author_id", author.ID))
	log.InfoAuthor(l.logger, "added the author", traceID, log.AddAuthor, author.ID)
	return author, nil
}

func (l *Library) ListAuthors(ctx context.Context) ([]entity.Author, error) {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID().String()

	authors, err := l.catalog.ListAuthors(ctx)
	if log.ErrorAuthor(l.logger, err, "failed to list authors", traceID, log.ListAuthors, "") {
		return nil, err
	}

	return authors, nil
}

// DeleteAuthor drops the author and its links. Books keep existing.
func (l *Library) DeleteAuthor(ctx context.Context, user entity.User, authorID string) error {
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()
	span.SetAttributes(attribute.String("author_id", authorID))

	if err := l.policy.Check(user, entity.ActionDeleteAuthor); err != nil {
		return err
	}

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		if txErr := l.catalog.DeleteAuthor(ctx, authorID); txErr != nil {
			return txErr
		}

		return l.send(ctx, repository.OutboxKindAuthor, authorID+"_deleted",
			Event{Type: EventDeleted, Author: &entity.Author{ID: authorID}})
	})

	if log.ErrorAuthor(l.logger, err, "failed to delete author", traceID, log.DeleteAuthor, authorID) {
		span.RecordError(err)
		return err
	}

	l.changed()
	log.InfoAuthor(l.logger, "deleted the author", traceID, log.DeleteAuthor, authorID)
	return nil
}
