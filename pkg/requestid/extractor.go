package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/paramguard/pkg/logger"
)

// LoggerExtractor adds the request id stored by Middleware to every record
// logged with the request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return logger.RequestID(id), true
	}
}
