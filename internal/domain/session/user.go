// Package session contains the logged-in operator model. The session value
// is explicit state: initialized on login, cleared on logout, and passed
// through the store boundary rather than read as a global.
package session

import "errors"

// Role of the logged-in operator.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleReception Role = "RECEPTION"
	RoleTeacher   Role = "TEACHER"
)

// IsValid checks that the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleReception || r == RoleTeacher
}

// User is the operator currently logged into this device.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// ErrInvalidCredentials - the static credential check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Validate checks the user shape.
func (u User) Validate() error {
	if u.ID == "" || u.Email == "" {
		return errors.New("user id and email are required")
	}
	if !u.Role.IsValid() {
		return errors.New("invalid user role")
	}
	return nil
}
