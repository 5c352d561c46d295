// Package domain contains entity without logic, just meta-data
package domain

// ConnID identifies one live transport connection. Assigned at connect
// time and never reused.
type ConnID string

// Role is an open set of caller-declared tags ("student", "mentor", ...).
// The coordinator stores it verbatim and attaches no meaning to it.
type Role string

// Connection is per-link metadata. No transport or lifecycle logic here.
type Connection struct {
	ID   ConnID `json:"id"`
	Role Role   `json:"role,omitempty"`

	// Identity is an opaque display identity read from the session
	// cookie by the HTTP layer. May be empty for anonymous links.
	Identity string `json:"identity,omitempty"`
}

// NewConnection avoids raw literals in adapters and keeps construction obvious.
func NewConnection(id ConnID, identity string) *Connection {
	return &Connection{ID: id, Identity: identity}
}
