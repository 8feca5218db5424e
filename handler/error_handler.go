package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/requestid"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Detail     string
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// classifyError maps err to the response it produces. Only core.HTTPError
// details reach the client.
func classifyError(err error) ErrorInfo {
	httpErr, _ := core.AsHTTPError(err)
	return ErrorInfo{
		StatusCode: httpErr.Code,
		Detail:     httpErr.Detail,
		LogLevel:   determineLogLevel(httpErr.Code),
	}
}

func logError(log *slog.Logger, r *http.Request, err error, info ErrorInfo) {
	log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.Status(info.StatusCode),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Component("error_handler"),
	)
}

// NewErrorHandler returns the default error handler. It logs the error and
// writes {"detail": "..."} with the classified status.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		info := classifyError(err)
		logError(log, r, err, info)

		if werr := core.WriteJSON(w, info.StatusCode, core.NewHTTPError(info.StatusCode, info.Detail)); werr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to write error response",
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Error(werr),
				logger.Event("write_error_response"),
			)
		}
	}
}
