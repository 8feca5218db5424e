package params

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Extractor returns the raw path segment bound to name.
type Extractor func(r *http.Request, name string) string

// Path validates a single path segment, optionally converting it first.
type Path struct {
	param
	typ     Type
	extract Extractor
}

// NewPath builds a path validator reading segments with chi.URLParam.
func NewPath(name string, typ Type, opts ...validator.Option) (*Path, error) {
	if name == "" {
		return nil, fmt.Errorf("path: %w", ErrEmptyName)
	}
	p, err := newParam(name, "path parameter", validator.DefaultText, opts)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", name, err)
	}
	return &Path{param: p, typ: typ, extract: chi.URLParam}, nil
}

// MustPath is like NewPath but panics on configuration errors.
func MustPath(name string, typ Type, opts ...validator.Option) *Path {
	p, err := NewPath(name, typ, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// WithExtractor returns a copy of p reading segments with fn, for routers other than chi.
func (p *Path) WithExtractor(fn Extractor) *Path {
	cp := *p
	if fn != nil {
		cp.extract = fn
	}
	return &cp
}

// Check validates a raw segment.
func (p *Path) Check(ctx context.Context, raw string) (any, error) {
	return p.run(ctx, func() validator.Outcome {
		return p.typed(p.typ, raw, raw != "")
	})
}

// FromRequest extracts the segment from r and validates it.
func (p *Path) FromRequest(r *http.Request) (any, error) {
	return p.run(r.Context(), func() validator.Outcome {
		raw := p.extract(r, p.name)
		return p.typed(p.typ, raw, raw != "")
	})
}
