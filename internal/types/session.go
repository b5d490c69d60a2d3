// Package types provides the DTOs mirrored from the job-board backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Role identifies which part of the job board a session may use.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleCompanyAdmin Role = "companyadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleCompanyAdmin:
		return true
	}
	return false
}

// SessionUser is the identity returned by the "who am I" endpoint.
type SessionUser struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	ProfileComplete bool   `json:"isProfileComplete"`
}

// AdminUser is a user row as seen from the admin user list.
type AdminUser struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Blocked bool   `json:"isBlocked"`
}
