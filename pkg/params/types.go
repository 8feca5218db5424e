package params

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Type selects the conversion applied to a raw path or query string before
// the rules run.
type Type int

const (
	String Type = iota
	Int
	Float
	Bool
)

func (t Type) String() string {
	switch t {
	case Int:
		return "integer"
	case Float:
		return "number"
	case Bool:
		return "boolean"
	default:
		return "string"
	}
}

// Convert parses raw into the Go type for t: string, int, float64 or bool.
func (t Type) Convert(raw string) (any, error) {
	switch t {
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 0)
		if err != nil {
			return nil, err
		}
		return int(n), nil
	case Float:
		return validator.ParseNumber(raw)
	case Bool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", raw)
	default:
		return raw, nil
	}
}

// convert runs Type.Convert and maps a parse error to a conversion failure.
func convert(c *validator.Chain, t Type, raw string) (any, *validator.Failure) {
	v, err := t.Convert(raw)
	if err != nil {
		return nil, c.Fail(validator.KindConversion, http.StatusBadRequest, validator.ErrorDetail{}, validator.Info{
			Rule:     validator.RuleConversion,
			Value:    raw,
			Expected: t.String(),
			Err:      err,
		})
	}
	return v, nil
}

// As asserts the validated value to T. A nil value (absent optional
// parameter without default) yields the zero T. A type mismatch is a
// programming error and is reported as a 500.
func As[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, core.InternalServerError("")
	}
	return t, nil
}
