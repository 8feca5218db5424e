package params

import "errors"

// ErrEmptyName is returned when a header, path or query validator is built without a name.
var ErrEmptyName = errors.New("parameter name is empty")
