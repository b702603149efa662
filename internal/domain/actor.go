package domain

import "github.com/google/uuid"

// Role of the caller, resolved by the upstream identity layer.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Actor is the opaque capability every engine operation receives instead
// of touching authentication directly. For teachers and students ID is
// the teacher/student entity id, not a user id.
type Actor struct {
	Role Role
	ID   uuid.UUID
}

// IsAdmin reports whether the actor has administrative rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
