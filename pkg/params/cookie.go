package params

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Cookie validates a single request cookie.
//
// When any numeric bound is configured the cookie value is parsed as a
// number and the float64 is returned. An empty name is not rejected at
// construction; every invocation then fails with a 500.
type Cookie struct {
	param
}

// NewCookie builds a cookie validator.
func NewCookie(name string, opts ...validator.Option) (*Cookie, error) {
	opts = append([]validator.Option{validator.CoerceNumbers()}, opts...)
	p, err := newParam(name, "cookie", cookieText, opts)
	if err != nil {
		return nil, err
	}
	return &Cookie{param: p}, nil
}

// MustCookie is like NewCookie but panics on configuration errors.
func MustCookie(name string, opts ...validator.Option) *Cookie {
	c, err := NewCookie(name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Cookie) misconfigured() *validator.Failure {
	return validator.Misconfigured("Internal Server Error: cookie validator must be initialized with a name.")
}

// Check validates a raw cookie value. present is false when the cookie was not sent.
func (c *Cookie) Check(ctx context.Context, value string, present bool) (any, error) {
	return c.run(ctx, func() validator.Outcome {
		if c.name == "" {
			return validator.Invalid(c.misconfigured())
		}
		return c.chain.Run(value, present)
	})
}

// FromRequest reads the cookie from r and validates it.
func (c *Cookie) FromRequest(r *http.Request) (any, error) {
	return c.run(r.Context(), func() validator.Outcome {
		if c.name == "" {
			return validator.Invalid(c.misconfigured())
		}
		ck, err := r.Cookie(c.name)
		switch {
		case errors.Is(err, http.ErrNoCookie):
			return c.chain.Run(nil, false)
		case err != nil:
			return validator.Invalid(validator.Unexpected("cookie", err))
		}
		return c.chain.Run(ck.Value, true)
	})
}
