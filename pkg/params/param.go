package params

import (
	"context"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// param is the part shared by every scalar validator.
type param struct {
	name  string
	chain *validator.Chain
}

func newParam(name, subject string, texts validator.TextFunc, opts []validator.Option) (param, error) {
	base := []validator.Option{
		validator.Name(name),
		validator.Subject(subject),
		validator.WithTexts(texts),
	}
	chain, err := validator.New(append(base, opts...)...)
	if err != nil {
		return param{}, err
	}
	return param{name: name, chain: chain}, nil
}

// Name returns the parameter name.
func (p param) Name() string { return p.name }

// Chain exposes the underlying rule chain.
func (p param) Chain() *validator.Chain { return p.chain }

// run evaluates fn at the variant boundary: panics become a generic 500 and
// failures are logged and converted to core.HTTPError.
func (p param) run(ctx context.Context, fn func() validator.Outcome) (any, error) {
	out := validator.Guard(ctx, p.chain.Logger(), p.chain.Subject(), fn)
	if !out.OK() {
		p.chain.Report(ctx, out.Failure())
		return nil, out.Err()
	}
	return out.Value(), nil
}

// typed converts a present raw value and runs the chain on the result.
func (p param) typed(t Type, raw string, present bool) validator.Outcome {
	if !present || raw == "" {
		return p.chain.Run(nil, false)
	}
	v, f := convert(p.chain, t, raw)
	if f != nil {
		return validator.Invalid(f)
	}
	return p.chain.Run(v, true)
}
