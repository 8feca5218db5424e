package upload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	// decoders registered for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// DefaultImageContentTypes is used when an ImageValidator has no ContentTypes option.
var DefaultImageContentTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff",
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width, Height int
}

func (r Resolution) String() string {
	return strconv.Itoa(r.Width) + "x" + strconv.Itoa(r.Height)
}

// AspectRatio is a parsed "W:H" ratio.
type AspectRatio struct {
	W, H int
}

// ParseAspectRatio parses "W:H" with positive integers.
func ParseAspectRatio(s string) (AspectRatio, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return AspectRatio{}, fmt.Errorf("%w: %q, expected 'W:H' (e.g. '16:9')", ErrInvalidAspectRatio, s)
	}
	wn, werr := strconv.Atoi(strings.TrimSpace(w))
	hn, herr := strconv.Atoi(strings.TrimSpace(h))
	switch {
	case werr != nil || herr != nil:
		return AspectRatio{}, fmt.Errorf("%w: %q, expected 'W:H' (e.g. '16:9')", ErrInvalidAspectRatio, s)
	case hn == 0:
		return AspectRatio{}, fmt.Errorf("%w: %q, height cannot be zero", ErrInvalidAspectRatio, s)
	case wn <= 0 || hn < 0:
		return AspectRatio{}, fmt.Errorf("%w: %q, values must be positive", ErrInvalidAspectRatio, s)
	}
	return AspectRatio{W: wn, H: hn}, nil
}

// Value returns W/H.
func (a AspectRatio) Value() float64 { return float64(a.W) / float64(a.H) }

func (a AspectRatio) String() string { return strconv.Itoa(a.W) + ":" + strconv.Itoa(a.H) }

// ImageValidator runs the shared payload checks and then decodes the image
// header to check format, resolution and aspect ratio. Only the image
// configuration is decoded, never the pixel data.
type ImageValidator struct {
	checks    *Checks
	boundary  boundary
	maxMemory int64

	formats   []string
	minRes    *Resolution
	maxRes    *Resolution
	exactRes  *Resolution
	ratios    []AspectRatio
	tolerance float64

	onFormat validator.ErrorDetail
	onRes    validator.ErrorDetail
	onRatio  validator.ErrorDetail
}

// NewImageValidator builds an image validator.
func NewImageValidator(opts ...Option) (*ImageValidator, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(o.contentTypes) == 0 {
		o.contentTypes = slices.Clone(DefaultImageContentTypes)
	}
	return &ImageValidator{
		checks:    newChecks(o),
		boundary:  boundary{subject: "image", logger: o.logger, observer: o.observer},
		maxMemory: o.maxMemory,
		formats:   o.formats,
		minRes:    o.minRes,
		maxRes:    o.maxRes,
		exactRes:  o.exactRes,
		ratios:    o.ratios,
		tolerance: o.tolerance,
		onFormat:  o.onFormat,
		onRes:     o.onRes,
		onRatio:   o.onRatio,
	}, nil
}

// MustImageValidator is like NewImageValidator but panics on configuration errors.
func MustImageValidator(opts ...Option) *ImageValidator {
	v, err := NewImageValidator(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks f. On return f is rewound, or closed when the error is a 500.
func (v *ImageValidator) Validate(ctx context.Context, f *File) (*File, error) {
	return v.boundary.run(ctx, f, v.checks.Run, v.checkImage)
}

// FromRequest opens the multipart file field and validates it.
func (v *ImageValidator) FromRequest(r *http.Request, field string) (*File, error) {
	b := v.boundary.forField(field)
	f, err := open(r, field, v.maxMemory, b)
	if err != nil {
		return nil, err
	}
	return b.run(r.Context(), f, v.checks.Run, v.checkImage)
}

func (v *ImageValidator) checkImage(f *File) *validator.Failure {
	src := &readTracker{r: f}
	cfg, format, err := image.DecodeConfig(src)
	if src.err != nil {
		return validator.Unexpected("image", src.err)
	}
	if err != nil {
		return &validator.Failure{
			Kind:    validator.KindResource,
			Rule:    validator.RuleDecode,
			Status:  http.StatusUnsupportedMediaType,
			Message: resolve(v.onFormat, f, "File is not a valid image or is corrupted. Error: "+err.Error()),
			Cause:   err,
		}
	}
	if fl := v.checkFormat(f, normalizeFormat(format)); fl != nil {
		return fl
	}
	if fl := v.checkResolution(f, cfg.Width, cfg.Height); fl != nil {
		return fl
	}
	return v.checkAspectRatio(f, cfg.Width, cfg.Height)
}

func (v *ImageValidator) checkFormat(f *File, format string) *validator.Failure {
	if len(v.formats) == 0 || slices.Contains(v.formats, format) {
		return nil
	}
	return &validator.Failure{
		Kind:   validator.KindRuleViolation,
		Rule:   validator.RuleImageFormat,
		Status: http.StatusUnsupportedMediaType,
		Message: resolve(v.onFormat, f, fmt.Sprintf("Unsupported image format: '%s'. Allowed formats are: %s",
			format, strings.Join(v.formats, ", "))),
	}
}

func (v *ImageValidator) checkResolution(f *File, w, h int) *validator.Failure {
	var msg string
	switch {
	case v.exactRes != nil && (w != v.exactRes.Width || h != v.exactRes.Height):
		msg = fmt.Sprintf("Image resolution must be exactly %s. Got %dx%d.", v.exactRes, w, h)
	case v.minRes != nil && (w < v.minRes.Width || h < v.minRes.Height):
		msg = fmt.Sprintf("Image resolution (%dx%d) is below the minimum of %s.", w, h, v.minRes)
	case v.maxRes != nil && (w > v.maxRes.Width || h > v.maxRes.Height):
		msg = fmt.Sprintf("Image resolution (%dx%d) exceeds the maximum of %s.", w, h, v.maxRes)
	default:
		return nil
	}
	return &validator.Failure{
		Kind:    validator.KindRuleViolation,
		Rule:    validator.RuleResolution,
		Status:  http.StatusBadRequest,
		Message: resolve(v.onRes, f, msg),
	}
}

func (v *ImageValidator) checkAspectRatio(f *File, w, h int) *validator.Failure {
	if len(v.ratios) == 0 {
		return nil
	}
	if h == 0 {
		return validator.NewFailure(validator.KindRuleViolation, validator.RuleAspectRatio, http.StatusBadRequest,
			"Image has zero height and aspect ratio cannot be calculated.")
	}

	actual := float64(w) / float64(h)
	names := make([]string, 0, len(v.ratios))
	for _, r := range v.ratios {
		if math.Abs(actual-r.Value()) <= v.tolerance {
			return nil
		}
		names = append(names, r.String())
	}
	return &validator.Failure{
		Kind:   validator.KindRuleViolation,
		Rule:   validator.RuleAspectRatio,
		Status: http.StatusBadRequest,
		Message: resolve(v.onRatio, f, fmt.Sprintf("Image aspect ratio (%d:%d ≈ %.2f) is not allowed. Allowed ratios are: %s",
			w, h, actual, strings.Join(names, ", "))),
	}
}

// readTracker records the first non-EOF read error so a broken stream can
// be told apart from undecodable content.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

// normalizeFormat upper-cases a format name and maps JPG to JPEG.
func normalizeFormat(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "JPG" {
		return "JPEG"
	}
	return n
}
