package feedback

import (
	"encoding/json" // Pretty-printing details
	"fmt"           // Entry rendering
	"strings"       // Class names
	"time"          // Entry timestamps
)

// Status is the outcome tag of a logged call
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Entry is one durable log record
type Entry struct {
	At        time.Time // When the call finished
	Action    string    // e.g. "POST http://host/api/v1/transfer/"
	Status    Status    // SUCCESS or ERROR
	Detail    string    // pretty-printed payload or error
	RequestID string    // X-Request-Id sent with the call
}

// String renders the entry as "[15:04:05] action" followed by the detail
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s\n%s", e.At.Format("15:04:05"), e.Action, e.Detail)
}

// CSSClass mirrors the status for renderers that style by class name
func (e Entry) CSSClass() string {
	return "log-entry " + strings.ToLower(string(e.Status))
}

// prettyDetail indents any JSON-encodable value; invalid raw JSON is kept verbatim
func prettyDetail(v any) string {
	if raw, ok := v.(json.RawMessage); ok && !json.Valid(raw) {
		return string(raw) // e.g. an HTML error page
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
