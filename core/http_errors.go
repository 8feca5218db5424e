package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError is the transport-level error produced by every validator.
// It is the only failure type that crosses the validator boundary: the status
// code is written as the HTTP status and Detail becomes the JSON body
// {"detail": "..."}.
type HTTPError struct {
	Code   int    // HTTP status code
	Detail string // Human-readable message sent to the client
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Detail
}

// StatusCode returns the HTTP status carried by the error.
func (e HTTPError) StatusCode() int {
	return e.Code
}

// MarshalJSON renders the error in the {"detail": "..."} wire shape.
func (e HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Detail: e.Detail})
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Default details used when a status has no more specific message.
const (
	DetailInternalServerError = "Internal Server Error"
	DetailValidationFailed    = "Validation failed."
)

// NewHTTPError creates a transport error with the given status code and detail.
//
// Example:
//
//	err := core.NewHTTPError(http.StatusUnsupportedMediaType, "Only PNG images are accepted.")
func NewHTTPError(code int, detail string) HTTPError {
	return HTTPError{Code: code, Detail: detail}
}

// BadRequest creates a 400 error.
func BadRequest(detail string) HTTPError {
	return HTTPError{Code: http.StatusBadRequest, Detail: detail}
}

// PayloadTooLarge creates a 413 error.
func PayloadTooLarge(detail string) HTTPError {
	return HTTPError{Code: http.StatusRequestEntityTooLarge, Detail: detail}
}

// UnsupportedMediaType creates a 415 error.
func UnsupportedMediaType(detail string) HTTPError {
	return HTTPError{Code: http.StatusUnsupportedMediaType, Detail: detail}
}

// InternalServerError creates a 500 error.
func InternalServerError(detail string) HTTPError {
	if detail == "" {
		detail = DetailInternalServerError
	}
	return HTTPError{Code: http.StatusInternalServerError, Detail: detail}
}

// AsHTTPError extracts an HTTPError from err. Errors that are not transport
// errors are reported as a generic 500 so internal text never reaches clients.
func AsHTTPError(err error) (HTTPError, bool) {
	if err == nil {
		return HTTPError{}, false
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	var ptr *HTTPError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return InternalServerError(""), false
}

// StatusOf returns the HTTP status code for err, 200 for nil.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	httpErr, _ := AsHTTPError(err)
	return httpErr.Code
}
