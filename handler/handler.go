package handler

import (
	"fmt"
	"log/slog"
	"net/http"
)

// HandlerFunc is an http handler that reports failures by returning an error.
// A core.HTTPError keeps its status and detail; any other error becomes a 500.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler renders an error returned by a HandlerFunc.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// Decorators are applied in order, with the first decorator in the list
// being the outermost wrapper.
type Decorator func(HandlerFunc) HandlerFunc

// WrapOption configures the Wrap function.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	errorHandler ErrorHandler
	logger       *slog.Logger
	decorators   []Decorator
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(l *slog.Logger) WrapOption {
	return func(c *wrapConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
//
// Example:
//
//	r.Get("/items/{id}", handler.Wrap(getItem,
//		handler.WithDecorators(
//			handler.Validate(itemID, apiVersion),
//		),
//	))
func WithDecorators(decorators ...Decorator) WrapOption {
	return func(c *wrapConfig) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// Wrap converts a HandlerFunc to http.HandlerFunc. Returned errors go to the
// error handler, which by default writes {"detail": "..."} with the status
// of the error. A panic in the handler is answered with a 500.
//
//	r.Get("/items/{id}", handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//		id, err := params.As[int](itemID.FromRequest(r))
//		if err != nil {
//			return err
//		}
//		return core.WriteJSON(w, http.StatusOK, map[string]int{"id": id})
//	}))
func Wrap(h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = NewErrorHandler(cfg.logger)
	}

	// Apply decorators in reverse order so first decorator is outermost
	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				cfg.errorHandler(w, r, fmt.Errorf("%w: %v", ErrHandlerPanic, rec))
			}
		}()

		if err := final(w, r); err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}
