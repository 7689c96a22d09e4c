package log

import (
	"go.uber.org/zap"

	"github.com/project/circulation/pkg/logger"
)

func InfoBook(l *zap.Logger, msg string, traceID string, action Action, book string, authorIDs ...string) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("book", book),
		zap.String("action", action),
	}
	if len(authorIDs) > 0 {
		fields = append(fields, zap.Strings("book_authors", authorIDs))
	}
	logger.MakeInfo(l, msg, fields...)
}

func ErrorBook(l *zap.Logger, err error, msg string, traceID string, action Action, book string) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.String("book", book),
		zap.Error(err),
		zap.String("action", action))
}

func InfoAuthor(l *zap.Logger, msg string, traceID string, action Action, author string) {
	logger.MakeInfo(l, msg,
		zap.String("trace_id", traceID),
		zap.String("author", author),
		zap.String("action", action))
}

func ErrorAuthor(l *zap.Logger, err error, msg string, traceID string, action Action, author string) bool {
	return logger.CheckError(err, l, msg,
		zap.String("trace_id", traceID),
		zap.String("author", author),
		zap.Error(err),
		zap.String("action", action))
}
