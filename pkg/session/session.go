// Package session provides the process-wide identity state for the client:
// who is logged in, with what role and bearer credential, and the operations
// that obtain or clear that identity against the remote authentication API.
package session

import (
	"github.com/Aditya3403/feedbackcentral/pkg/api"
)

// PersistKey is the durable-storage slot holding the serialized session.
const PersistKey = "app-storage"

// Role is the principal's capability class.
type Role string

// Role values. An empty Role means signed out.
const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Session is the authoritative identity record for this client instance.
// Token, User and Role are set and cleared together; a session is either
// fully populated or fully empty.
type Session struct {
	// User identifies the signed-in principal; nil when signed out.
	User *api.User

	// Token is the opaque bearer credential; empty when signed out.
	// It is never parsed or mutated, only stored and replayed as a header.
	Token string

	// Role determines which protected views and API calls are valid.
	Role Role
}

// Authenticated reports whether the session holds a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// persistedSession is the durable layout: exactly the identity fields,
// never in-flight flags.
type persistedSession struct {
	Token    string    `json:"token"`
	User     *api.User `json:"user"`
	UserType string    `json:"userType"`
}
