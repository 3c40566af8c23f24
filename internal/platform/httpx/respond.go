// Package httpx is the transport-layer glue shared by every handler:
// JSON responses, RFC7807 problem documents, and the single mapping
// from the domain error taxonomy to HTTP status codes.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ProblemDetail is the RFC7807 document returned for every failed request.
// The taxonomy keeps Detail deliberately generic; nothing request-specific
// leaks through it.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem writes an RFC7807 problem document with its media type.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// DecodeJSON decodes the request body into target. Unknown fields fail the
// decode so a misspelled field surfaces as a 400 instead of being silently
// dropped.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
