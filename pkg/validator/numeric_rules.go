package validator

import (
	"net/http"
	"strconv"
	"strings"
)

// Bounds holds the optional numeric comparison limits. Every configured bound
// is checked; the first violation in gt, lt, ge, le order wins.
type Bounds struct {
	Gt, Lt, Ge, Le *float64
}

// IsZero reports whether no bound is configured.
func (b Bounds) IsZero() bool {
	return b.Gt == nil && b.Lt == nil && b.Ge == nil && b.Le == nil
}

// Violated returns the key and limit of the first violated bound.
func (b Bounds) Violated(n float64) (string, float64, bool) {
	switch {
	case b.Gt != nil && !(n > *b.Gt):
		return "gt", *b.Gt, true
	case b.Lt != nil && !(n < *b.Lt):
		return "lt", *b.Lt, true
	case b.Ge != nil && !(n >= *b.Ge):
		return "ge", *b.Ge, true
	case b.Le != nil && !(n <= *b.Le):
		return "le", *b.Le, true
	}
	return "", 0, false
}

// AsNumber converts Go numeric kinds to float64.
func AsNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// ParseNumber parses a decimal string such as "10", "-3.5" or "1e3".
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// checkNumeric returns the value the chain yields. A string is replaced by its
// float64 form when the chain coerces numbers.
func checkNumeric(c *Chain, value any) (any, *Failure) {
	if c.bounds.IsZero() {
		return value, nil
	}

	n, ok := AsNumber(value)
	if !ok {
		s, isText := value.(string)
		if !isText || !c.coerce {
			return value, nil
		}
		parsed, err := ParseNumber(s)
		if err != nil {
			return value, &Failure{
				Kind:    KindConversion,
				Rule:    RuleNumeric,
				Status:  http.StatusBadRequest,
				Message: c.message(c.messages.Numeric, Info{Rule: RuleNumeric, Value: value}),
				Cause:   err,
			}
		}
		n, value = parsed, parsed
	}

	bound, limit, violated := c.bounds.Violated(n)
	if !violated {
		return value, nil
	}
	return value, &Failure{
		Kind:   KindRuleViolation,
		Rule:   RuleComparison,
		Status: http.StatusBadRequest,
		Message: c.message(c.messages.Comparison, Info{
			Rule:  RuleComparison,
			Value: value,
			Bound: bound,
			Limit: limit,
		}),
	}
}
