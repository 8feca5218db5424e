package validator

import "context"

// Observer receives every failure reported at a validator boundary, after it
// has been logged. Implementations must be safe for concurrent use and must
// not block.
type Observer interface {
	ObserveFailure(ctx context.Context, component, param string, f *Failure)
}

// WithObserver registers o to receive reported failures.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}
