package domain

import "time"

const (
	RoleAdmin       = "Admin"
	RoleScrumMaster = "ScrumMaster"
	RoleDeveloper   = "Developer"
)

// ValidRole reports whether role is one of the recognised user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleScrumMaster, RoleDeveloper:
		return true
	}
	return false
}

// User models an actor in the system. Users are never hard-deleted while
// referenced by a project or task; the Active flag is cleared instead.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"full_name" bson:"full_name"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	Active       bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
