package upload

import "errors"

// Construction errors. Constructors wrap them together with validator.ErrConfiguration.
var (
	ErrInvalidSize        = errors.New("invalid size expression")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	ErrInvalidResolution  = errors.New("invalid resolution")
	ErrUnknownEncoding    = errors.New("unknown encoding")
	ErrInvalidDelimiter   = errors.New("invalid delimiter")
	ErrInvalidPattern     = errors.New("invalid filename pattern")
	ErrInvalidRowBounds   = errors.New("invalid row bounds")
	ErrInvalidChunkSize   = errors.New("chunk size must be positive")
)

// Runtime errors.
var (
	// ErrNilBody is returned by NewFile when no body is supplied.
	ErrNilBody = errors.New("file body is nil")
	// ErrFileClosed is returned when reading or seeking a closed File.
	ErrFileClosed = errors.New("file is closed")
)
