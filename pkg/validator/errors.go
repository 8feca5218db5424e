package validator

import "errors"

// Configuration errors. They are returned by New and never reach request
// handling.
var (
	// ErrConfiguration wraps every construction-time error.
	ErrConfiguration = errors.New("invalid validator configuration")

	// ErrPatternAndFormat is returned when both a pattern and a named format are set.
	ErrPatternAndFormat = errors.New("cannot specify both pattern and format")

	// ErrUnknownFormat is returned for a format name missing from the registry.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidPattern is returned when a pattern does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidLength is returned when min length exceeds max length or either is negative.
	ErrInvalidLength = errors.New("invalid length bounds")

	// ErrNilPredicate is returned when a nil custom predicate is registered.
	ErrNilPredicate = errors.New("custom predicate is nil")
)

func configError(err error, detail string) error {
	if detail == "" {
		return errors.Join(ErrConfiguration, err)
	}
	return errors.Join(ErrConfiguration, err, errors.New(detail))
}
