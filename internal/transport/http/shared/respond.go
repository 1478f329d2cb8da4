// Package shared holds the JSON response helpers used by every handler.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates domain errors to the JSON error envelope. Messages
// stay out of the body; the code is the whole answer.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}
