// Package httpx provides the JSON request/response utilities shared by
// every HTTP handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the minimal body used for error responses and simple acks.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends a bare `{message}` body with the given status code.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageEnvelope{Message: message})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
