package log

import (
	"go.uber.org/zap"

	"github.com/project/circulation/pkg/logger"
)

// Copy names the ids a circulation log line can carry. Empty ids are left out.
type Copy struct {
	BookID        string
	ItemID        string
	TransactionID string
	UserID        string
}

func (c Copy) fields(traceID string, action Action) []zap.Field {
	fields := []zap.Field{zap.String("trace_id", traceID), zap.String("action", action)}

	for _, f := range []struct{ key, value string }{
		{"book_id", c.BookID},
		{"item_id", c.ItemID},
		{"transaction_id", c.TransactionID},
		{"user_id", c.UserID},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}

	return fields
}

func InfoCopy(l *zap.Logger, msg string, traceID string, action Action, c Copy) {
	logger.MakeInfo(l, msg, c.fields(traceID, action)...)
}

func ErrorCopy(l *zap.Logger, err error, msg string, traceID string, action Action, c Copy) bool {
	return logger.CheckError(err, l, msg, append(c.fields(traceID, action), zap.Error(err))...)
}

// WarnDesync reports a ledger change committed while the copy status
// disagreed with it.
func WarnDesync(l *zap.Logger, err error, msg string, traceID string, action Action, c Copy) {
	logger.MakeWarn(l, "state desync: "+msg, append(c.fields(traceID, action), zap.Error(err))...)
}
