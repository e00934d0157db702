package model

import "time"

// Role names accepted by the API.  They match the values of the
// users.role enum column.
const (
	RoleAdmin          = "ADMIN"
	RoleUser           = "USER"
	RoleServiceManager = "SERVICE_MANAGER"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleServiceManager:
		return true
	}
	return false
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of ADMIN, USER, SERVICE_MANAGER.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
