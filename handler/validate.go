package handler

import "net/http"

// RequestValidator is satisfied by the header, cookie, path and query
// validators of the params package.
type RequestValidator interface {
	FromRequest(r *http.Request) (any, error)
}

// Validate returns a decorator that runs every validator against the
// request, in order, before the handler. The first failure is returned and
// the handler is not called.
func Validate(validators ...RequestValidator) Decorator {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			for _, v := range validators {
				if _, err := v.FromRequest(r); err != nil {
					return err
				}
			}
			return next(w, r)
		}
	}
}
