package params

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Query validates a query string parameter.
type Query struct {
	param
	typ Type
}

// NewQuery builds a query validator. Custom predicates may fail with
// validator.Reject to report their own detail; validator.Messages.Custom
// overrides the detail of every other predicate failure.
func NewQuery(name string, typ Type, opts ...validator.Option) (*Query, error) {
	if name == "" {
		return nil, fmt.Errorf("query: %w", ErrEmptyName)
	}
	p, err := newParam(name, "query parameter", validator.DefaultText, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return &Query{param: p, typ: typ}, nil
}

// MustQuery is like NewQuery but panics on configuration errors.
func MustQuery(name string, typ Type, opts ...validator.Option) *Query {
	q, err := NewQuery(name, typ, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Check validates a raw query value. present is false when the key was not sent.
func (q *Query) Check(ctx context.Context, raw string, present bool) (any, error) {
	return q.run(ctx, func() validator.Outcome {
		return q.typed(q.typ, raw, present)
	})
}

// FromRequest validates the first value of the key in r's query string.
func (q *Query) FromRequest(r *http.Request) (any, error) {
	return q.run(r.Context(), func() validator.Outcome {
		values, ok := r.URL.Query()[q.name]
		if !ok || len(values) == 0 {
			return q.typed(q.typ, "", false)
		}
		return q.typed(q.typ, values[0], true)
	})
}

// ValidateAll validates every value of a repeated key and returns them in
// order. An absent key yields the default (or nil) as a single-element slice
// when one is configured, and nil otherwise.
func (q *Query) ValidateAll(r *http.Request) ([]any, error) {
	values := r.URL.Query()[q.name]
	if len(values) == 0 {
		v, err := q.run(r.Context(), func() validator.Outcome {
			return q.typed(q.typ, "", false)
		})
		if err != nil || v == nil {
			return nil, err
		}
		return []any{v}, nil
	}

	out := make([]any, 0, len(values))
	for _, raw := range values {
		v, err := q.run(r.Context(), func() validator.Outcome {
			return q.typed(q.typ, raw, true)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
