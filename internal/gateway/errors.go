package gateway

import (
	"encoding/json" // Error bodies
	"fmt"           // Error formatting
)

// ErrorKind classifies why a ledger call failed
type ErrorKind string

const (
	// KindTransport covers connection, DNS, timeout and request-building failures
	KindTransport ErrorKind = "transport"
	// KindServer is a non-2xx JSON response
	KindServer ErrorKind = "server"
	// KindMalformed is a body that is not JSON or does not match the expected shape
	KindMalformed ErrorKind = "malformed"
)

// excerptLimit caps how much of a non-JSON body is kept, in runes
const excerptLimit = 50

// Error is the failure variant of a Result
type Error struct {
	Kind   ErrorKind       // transport, server or malformed
	Status int             // HTTP status, 0 when no response arrived
	Detail string          // short user-facing text
	Body   json.RawMessage // structured error body, when the server sent one
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return "ledger unreachable: " + e.Detail
	case KindMalformed:
		return "server returned non-JSON response: " + e.Detail
	default:
		return fmt.Sprintf("ledger returned %d: %s", e.Status, e.Detail)
	}
}

// Notice is the short message shown to the user for this failure
func (e *Error) Notice() string {
	if e.Kind == KindTransport {
		return "Network error: could not reach the ledger"
	}
	if e.Detail == "" {
		return "An error occurred"
	}
	return e.Detail
}

// logDetail is what the session log keeps for this failure
func (e *Error) logDetail() any {
	if len(e.Body) > 0 {
		return e.Body
	}
	return map[string]any{
		"kind":   e.Kind,
		"status": e.Status,
		"detail": e.Detail,
	}
}

// excerpt keeps at most excerptLimit runes of text and marks the cut
func excerpt(text string) string {
	r := []rune(text) // Cut on rune boundaries
	if len(r) > excerptLimit {
		r = r[:excerptLimit]
	}
	return string(r) + "..."
}

// serverDetail pulls the user-facing text out of a JSON error body
func serverDetail(body []byte) string {
	var shape struct {
		Detail  json.RawMessage `json:"detail"`  // FastAPI style
		Message string          `json:"message"` // Fallback key
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return "An error occurred"
	}
	if len(shape.Detail) > 0 && string(shape.Detail) != "null" {
		var s string
		if err := json.Unmarshal(shape.Detail, &s); err == nil {
			return s // Plain string detail
		}
		return string(shape.Detail) // Structured detail, e.g. validation errors
	}
	if shape.Message != "" {
		return shape.Message
	}
	return "An error occurred"
}
