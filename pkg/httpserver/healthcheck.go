package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes as JSON.
//
//   - Liveness: with no checks the handler answers 200 {"status": "alive"}.
//   - Readiness: every check runs with the request context; the handler
//     answers 200 {"status": "ready"} or 503 {"status": "not_ready"}.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			_ = core.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
			return
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("httpserver"),
					logger.Error(err),
				)
				_ = core.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
				return
			}
		}
		_ = core.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
