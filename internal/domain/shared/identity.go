package shared

import "github.com/google/uuid"

// Role is the coarse authorization role carried by an authenticated caller
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the authenticated caller of an operation. It is always passed
// explicitly; services never read it from ambient state.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RequireAdmin returns ErrForbidden unless the caller is an admin
func (i Identity) RequireAdmin() error {
	if i.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	if !i.IsAdmin() {
		return NewDomainError(CodeForbidden, "Admin role required")
	}
	return nil
}

// RequireUser returns ErrUnauthorized when no caller is attached
func (i Identity) RequireUser() error {
	if i.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return nil
}
