package requestid

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/paramguard/pkg/params"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
	idPattern   = "^[a-zA-Z0-9_-]+$"
)

// incoming validates a client supplied id. Rejections are expected traffic,
// so they are not logged.
var incoming = params.MustHeader(Header,
	validator.Required(false),
	validator.Pattern(idPattern),
	validator.MinLength(1),
	validator.MaxLength(maxIDLength),
	validator.WithLogger(slog.New(slog.DiscardHandler)),
)

// Middleware reuses a valid incoming X-Request-ID or generates a UUID, stores
// it in the request context and echoes it in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := fromRequest(r)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

func fromRequest(r *http.Request) string {
	v, err := incoming.FromRequest(r)
	if err != nil {
		return uuid.New().String()
	}
	if id, ok := v.(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
