package params

import (
	"fmt"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func headerText(info validator.Info) string {
	v := validator.Display(info.Value)
	switch info.Rule {
	case validator.RuleRequired:
		return "Required header is missing."
	case validator.RuleAllowed:
		return fmt.Sprintf("Header value '%s' is not allowed. Allowed values are: %s", v, validator.JoinValues(info.Allowed))
	case validator.RulePattern:
		if info.Format != "" {
			return fmt.Sprintf("Header value does not match the required format: '%s'", info.Format)
		}
		return fmt.Sprintf("Header value '%s' does not match the required pattern: %s", v, info.Pattern)
	case validator.RuleLength:
		if info.Bound == "min" {
			return fmt.Sprintf("Header value '%s' is too short. Minimum length is %d characters.", v, int(info.Limit))
		}
		return fmt.Sprintf("Header value '%s' is too long. Maximum length is %d characters.", v, int(info.Limit))
	case validator.RuleCustom:
		if info.Err != nil {
			return "Custom validation error: " + info.Err.Error()
		}
		return fmt.Sprintf("Custom validation failed for header value '%s'", v)
	default:
		return validator.DefaultText(info)
	}
}

const (
	cookieRequired   = "Cookie is required."
	cookieNumeric    = "Cookie value must be a valid number."
	cookieComparison = "Cookie value is not in the allowed range."
	cookieLength     = "Cookie value has an invalid length."
	cookiePattern    = "Cookie value has an invalid format."
	cookieCustom     = "Cookie failed custom validation."
)

func cookieText(info validator.Info) string {
	switch info.Rule {
	case validator.RuleRequired:
		return cookieRequired
	case validator.RuleNumeric:
		return cookieNumeric
	case validator.RuleComparison:
		return cookieComparison
	case validator.RuleLength:
		return cookieLength
	case validator.RulePattern:
		return cookiePattern
	case validator.RuleCustom:
		if info.Err != nil {
			return cookieCustom + ": " + info.Err.Error()
		}
		return cookieCustom
	case validator.RuleAllowed:
		return fmt.Sprintf("Cookie value '%s' is not allowed. Allowed values are: %s",
			validator.Display(info.Value), validator.JoinValues(info.Allowed))
	default:
		return validator.DefaultText(info)
	}
}
