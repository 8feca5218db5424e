package params

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Header validates a single request header.
type Header struct {
	param
}

// NewHeader builds a header validator. Underscores in name are converted to
// hyphens and the result is canonicalised, so "x_api_key" reads "X-Api-Key".
func NewHeader(name string, opts ...validator.Option) (*Header, error) {
	name = HeaderName(name)
	if name == "" {
		return nil, fmt.Errorf("header: %w", ErrEmptyName)
	}
	p, err := newParam(name, "header", headerText, opts)
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", name, err)
	}
	return &Header{param: p}, nil
}

// MustHeader is like NewHeader but panics on configuration errors.
func MustHeader(name string, opts ...validator.Option) *Header {
	h, err := NewHeader(name, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// HeaderName converts underscores to hyphens and canonicalises the result.
func HeaderName(name string) string {
	return http.CanonicalHeaderKey(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
}

// Check validates a raw header value. present is false when the header was not sent.
func (h *Header) Check(ctx context.Context, value string, present bool) (any, error) {
	return h.run(ctx, func() validator.Outcome {
		return h.chain.Run(value, present)
	})
}

// FromRequest reads the first value of the header from r and validates it.
func (h *Header) FromRequest(r *http.Request) (any, error) {
	return h.run(r.Context(), func() validator.Outcome {
		values := r.Header.Values(h.name)
		if len(values) == 0 {
			return h.chain.Run(nil, false)
		}
		return h.chain.Run(values[0], true)
	})
}
