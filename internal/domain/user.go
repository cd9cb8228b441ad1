package domain

import "encoding/json" // JSON encoding for the create payload

// User Model
type User struct {
	ID       int64  `json:"id"`       // Server-assigned identifier
	Username string `json:"username"` // Display name
	Email    string `json:"email"`    // Contact email
}

// CreateUserRequest is the payload for POST /users/.
// Extra carries any additional form fields and is flattened next to username and email.
type CreateUserRequest struct {
	Username string            // Username (required by the server)
	Email    string            // Email
	Extra    map[string]string // Additional form fields
}

// MarshalJSON flattens Extra into the top-level object
func (r CreateUserRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v // Copy extra form fields first
	}
	out["username"] = r.Username // Named fields win over extras
	out["email"] = r.Email
	return json.Marshal(out)
}
