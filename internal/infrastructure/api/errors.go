package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNetwork marks a request that produced no response at all (connectivity
// loss, DNS failure, timeout).
var ErrNetwork = errors.New("network failure")

// ErrMalformedResponse marks a response body that could not be decoded as the
// expected JSON shape.
var ErrMalformedResponse = errors.New("malformed response")

// HTTPError is a non-2xx response. Message carries the backend's
// user-visible reason when the error payload provides one.
type HTTPError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// extractMessage pulls the human-readable reason out of an error payload.
// The backend uses {"message": ...}; the stub API's framework errors use
// {"error": ...}.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
