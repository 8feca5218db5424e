package validator

import "fmt"

// ErrorDetail is either a literal message or a function computing the message
// from the rejected value. The zero value means "not configured".
type ErrorDetail struct {
	text     string
	computed func(value any) string
}

// Literal returns a fixed error detail. An empty string yields an unset detail.
func Literal(text string) ErrorDetail {
	return ErrorDetail{text: text}
}

// Computed returns an error detail resolved from the rejected value at failure time.
func Computed(fn func(value any) string) ErrorDetail {
	return ErrorDetail{computed: fn}
}

// Detailf is a shorthand for a Computed detail that formats the rejected value
// with a single %v verb.
func Detailf(format string) ErrorDetail {
	return Computed(func(value any) string {
		return fmt.Sprintf(format, Display(value))
	})
}

// IsZero reports whether the detail is unset.
func (d ErrorDetail) IsZero() bool {
	return d.text == "" && d.computed == nil
}

// Resolve renders the detail for value.
func (d ErrorDetail) Resolve(value any) string {
	if d.computed != nil {
		return d.computed(value)
	}
	return d.text
}

// Display renders a value for use inside messages; nil renders as "".
func Display(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
