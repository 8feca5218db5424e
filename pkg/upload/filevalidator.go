package upload

import (
	"context"
	"net/http"
)

// FileValidator applies the shared payload checks to an arbitrary file.
type FileValidator struct {
	checks    *Checks
	boundary  boundary
	maxMemory int64
}

// NewFileValidator builds a file validator. Without ContentTypes any media
// type is accepted.
func NewFileValidator(opts ...Option) (*FileValidator, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &FileValidator{
		checks:    newChecks(o),
		boundary:  boundary{subject: "file", logger: o.logger, observer: o.observer},
		maxMemory: o.maxMemory,
	}, nil
}

// MustFileValidator is like NewFileValidator but panics on configuration errors.
func MustFileValidator(opts ...Option) *FileValidator {
	v, err := NewFileValidator(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks f. On return f is rewound, or closed when the error is a 500.
func (v *FileValidator) Validate(ctx context.Context, f *File) (*File, error) {
	return v.boundary.run(ctx, f, v.checks.Run)
}

// FromRequest opens the multipart file field and validates it.
func (v *FileValidator) FromRequest(r *http.Request, field string) (*File, error) {
	b := v.boundary.forField(field)
	f, err := open(r, field, v.maxMemory, b)
	if err != nil {
		return nil, err
	}
	return b.run(r.Context(), f, v.checks.Run)
}
