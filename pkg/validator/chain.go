package validator

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/dmitrymomot/paramguard/pkg/logger"
)

// Chain runs the configured rules against a single value in a fixed order:
// required, allowed values, pattern, length, numeric bounds, custom predicates.
// The first failure stops the chain.
//
// A Chain is immutable after New and safe for concurrent use.
type Chain struct {
	name         string
	subject      string
	required     bool
	defaultValue any
	allowed      []any
	pattern      *regexp.Regexp
	patternText  string
	format       string
	minLength    int
	maxLength    int
	bounds       Bounds
	coerce       bool
	predicates   []Predicate
	messages     Messages
	detail       ErrorDetail
	texts        TextFunc
	logger       *slog.Logger
	observer     Observer
}

// New builds a chain. Configuration errors wrap ErrConfiguration.
func New(opts ...Option) (*Chain, error) {
	s := &settings{
		subject:   "value",
		minLength: -1,
		maxLength: -1,
		texts:     DefaultText,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	c := &Chain{
		name:         s.name,
		subject:      s.subject,
		required:     RequiredPolicy{Explicit: s.required, HasDefault: s.hasDefault}.IsRequired(),
		defaultValue: s.defaultVal,
		allowed:      s.allowed,
		format:       s.format,
		minLength:    s.minLength,
		maxLength:    s.maxLength,
		bounds:       s.bounds,
		coerce:       s.coerce,
		predicates:   s.predicates,
		messages:     s.messages,
		detail:       s.detail,
		texts:        s.texts,
		logger:       s.logger,
		observer:     s.observer,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	switch {
	case s.format != "":
		f, _ := LookupFormat(s.format)
		c.pattern = f.Regexp()
		c.patternText = f.Pattern
	case s.pattern != "":
		re, err := CompilePattern(s.pattern)
		if err != nil {
			return nil, configError(err, "")
		}
		c.pattern = re
		c.patternText = s.pattern
	}

	return c, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew(opts ...Option) *Chain {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the configured parameter name.
func (c *Chain) Name() string { return c.name }

// IsRequired reports the resolved required policy.
func (c *Chain) IsRequired() bool { return c.required }

// Logger returns the logger used for failure reporting.
func (c *Chain) Logger() *slog.Logger { return c.logger }

// Subject returns the noun used in unexpected-error messages.
func (c *Chain) Subject() string { return c.subject }

// DefaultValue returns the value used for absent optional input.
func (c *Chain) DefaultValue() any { return c.defaultValue }

// Run evaluates the rules. present is false when the input was not supplied at all.
func (c *Chain) Run(value any, present bool) Outcome {
	if !present || IsAbsent(value) {
		if f := checkRequired(c, value); f != nil {
			return Invalid(f)
		}
		return Valid(c.defaultValue)
	}

	if f := checkAllowed(c, value); f != nil {
		return Invalid(f)
	}
	if f := checkPattern(c, value); f != nil {
		return Invalid(f)
	}
	if f := checkLength(c, value); f != nil {
		return Invalid(f)
	}
	coerced, f := checkNumeric(c, value)
	if f != nil {
		return Invalid(f)
	}
	// Predicates see the value as supplied; coercion only shapes the result.
	if f := checkCustom(c, value); f != nil {
		return Invalid(f)
	}
	return Valid(coerced)
}

// Validate runs the chain and converts a failure into a core.HTTPError.
// ctx is handed to Report, so request-scoped log attributes and the observer
// see the failure in the caller's context.
func (c *Chain) Validate(ctx context.Context, value any, present bool) (any, error) {
	out := c.Run(value, present)
	if !out.OK() {
		c.Report(ctx, out.Failure())
		return nil, out.Err()
	}
	return out.Value(), nil
}

// Report logs a failure, rule failures at debug and server-side failures at
// error, then hands it to the observer if one is set.
func (c *Chain) Report(ctx context.Context, f *Failure) {
	if f == nil {
		return
	}
	level := slog.LevelDebug
	if f.Status >= 500 {
		level = slog.LevelError
	}
	c.logger.LogAttrs(ctx, level, "parameter validation failed",
		logger.Component(c.subject),
		logger.Param(c.name),
		logger.Rule(f.Rule),
		logger.Kind(f.Kind.String()),
		logger.Status(f.Status),
		logger.Error(f.Cause),
	)
	if c.observer != nil {
		c.observer.ObserveFailure(ctx, c.subject, c.name, f)
	}
}

// Fail builds a failure using the chain's message precedence. Variants use it
// for their own rules.
func (c *Chain) Fail(kind Kind, status int, override ErrorDetail, info Info) *Failure {
	return &Failure{
		Kind:    kind,
		Rule:    info.Rule,
		Status:  status,
		Message: c.message(override, info),
		Cause:   info.Err,
	}
}

// message resolves the detail for a failed rule: per-rule override, then the
// chain-level detail, then the built-in text.
func (c *Chain) message(override ErrorDetail, info Info) string {
	if !override.IsZero() {
		return override.Resolve(info.Value)
	}
	if !c.detail.IsZero() {
		return c.detail.Resolve(info.Value)
	}
	return c.texts(info)
}
