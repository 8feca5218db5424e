package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/paramguard/pkg/logger"
)

// Guard runs fn and converts a panic into the generic unexpected failure for subject.
func Guard(ctx context.Context, log *slog.Logger, subject string, fn func() Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic: %v", r)
			if log == nil {
				log = slog.Default()
			}
			log.LogAttrs(ctx, slog.LevelError, "unexpected validation error",
				logger.Component(subject),
				logger.Error(cause),
			)
			out = Invalid(Unexpected(subject, cause))
		}
	}()
	return fn()
}
