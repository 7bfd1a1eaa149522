package titan

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoRoutesAvailable is returned when the service has no route for the
// pair and amount, or when the selected route cannot be turned into a swap.
var ErrNoRoutesAvailable = errors.New("no routes available")

var errEmptyBody = errors.New("empty response body")

// noRoutesMarker is the body text the service uses on a 404 for an
// unroutable pair.
const noRoutesMarker = "No routes"

// RequestFailedError is a non-2xx response that is not a "no routes" reply.
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	b := strings.TrimSpace(e.Body)
	if b == "" {
		return fmt.Sprintf("titan request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("titan request failed with status %d: %s", e.StatusCode, b)
}

// TransportError wraps a failure of the underlying HTTP client.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "titan http client: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that does not match the wire schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "titan decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// classifyResponse maps a status and body to an error, or nil for 2xx.
// This is the only place the "No routes" body heuristic lives.
func classifyResponse(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	text := string(body)
	if status == http.StatusNotFound && strings.Contains(text, noRoutesMarker) {
		return ErrNoRoutesAvailable
	}
	return &RequestFailedError{StatusCode: status, Body: text}
}
