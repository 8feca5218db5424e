package handler

import "errors"

// ErrHandlerPanic is the cause logged when a wrapped handler panics.
var ErrHandlerPanic = errors.New("handler panicked")
