package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a recurring roster of teachers and students with a capacity
// limit. Group lessons belong to exactly one group.
type Group struct {
	ID          uuid.UUID
	Name        string
	Description *string
	MaxCapacity int
	Terminated  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the group can be booked and joined.
func (g *Group) IsActive() bool {
	return !g.Terminated
}

// TeacherGroup links a teacher to a group roster.
type TeacherGroup struct {
	TeacherID uuid.UUID
	GroupID   uuid.UUID
}

// StudentGroup links a student to a group roster.
type StudentGroup struct {
	StudentID uuid.UUID
	GroupID   uuid.UUID
}
