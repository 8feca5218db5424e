package core

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError renders err in the {"detail": "..."} shape. Transport errors keep
// their status and detail; anything else becomes a generic 500.
func WriteError(w http.ResponseWriter, err error) error {
	httpErr, _ := AsHTTPError(err)
	return WriteJSON(w, httpErr.Code, httpErr)
}
