package validator

import (
	"fmt"
	"strconv"
	"strings"
)

// Messages holds per-rule error detail overrides. Unset fields fall back to
// the chain-level detail and then to the variant's built-in text.
type Messages struct {
	Required   ErrorDetail
	Allowed    ErrorDetail
	Pattern    ErrorDetail
	Length     ErrorDetail
	Numeric    ErrorDetail
	Comparison ErrorDetail
	Custom     ErrorDetail
}

// Info describes a failed rule for built-in text rendering.
type Info struct {
	Rule    string
	Value   any
	Allowed []any
	Pattern string
	Format  string
	// Bound names the violated limit: "min"/"max" for length,
	// "gt"/"lt"/"ge"/"le" for comparisons.
	Bound string
	Limit float64
	// Expected names the target type of a failed conversion.
	Expected string
	// Err is the error raised by a custom predicate or a conversion, if any.
	Err error
}

// TextFunc renders the built-in message for a failed rule.
type TextFunc func(Info) string

// DefaultText is the built-in wording used when a variant does not provide its own.
func DefaultText(info Info) string {
	switch info.Rule {
	case RuleRequired:
		return "Value is required."
	case RuleAllowed:
		return fmt.Sprintf("Value '%s' is not allowed. Allowed values are: %s",
			Display(info.Value), JoinValues(info.Allowed))
	case RulePattern:
		if info.Format != "" {
			return fmt.Sprintf("Value does not match the required format: '%s'", info.Format)
		}
		return fmt.Sprintf("Value '%s' does not match the required pattern: %s",
			Display(info.Value), info.Pattern)
	case RuleLength:
		if info.Bound == "min" {
			return fmt.Sprintf("Value '%s' is too short. Minimum length is %d characters.",
				Display(info.Value), int(info.Limit))
		}
		return fmt.Sprintf("Value '%s' is too long. Maximum length is %d characters.",
			Display(info.Value), int(info.Limit))
	case RuleNumeric:
		return "Value must be a valid number."
	case RuleConversion:
		return fmt.Sprintf("Value '%s' is not a valid %s.", Display(info.Value), info.Expected)
	case RuleComparison:
		return fmt.Sprintf("Value must be %s %s", BoundPhrase(info.Bound), FormatNumber(info.Limit))
	case RuleCustom:
		if info.Err != nil {
			return "Custom validation error: " + info.Err.Error()
		}
		return fmt.Sprintf("Custom validation failed for value '%s'", Display(info.Value))
	default:
		return "Validation failed."
	}
}

// BoundPhrase turns a comparison key into words.
func BoundPhrase(bound string) string {
	switch bound {
	case "gt":
		return "greater than"
	case "lt":
		return "less than"
	case "ge":
		return "greater than or equal to"
	case "le":
		return "less than or equal to"
	default:
		return bound
	}
}

// FormatNumber renders a float without trailing zeros: 10 -> "10", 10.5 -> "10.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// JoinValues renders allowed values as a comma-separated list.
func JoinValues(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, Display(v))
	}
	return strings.Join(parts, ", ")
}
