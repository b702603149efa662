package domain

import (
	"time"

	"github.com/google/uuid"
)

// LessonCategory is a reference-catalog entry describing a kind of
// lesson: a dance style taught either individually or in groups.
// The catalog itself is maintained elsewhere; the engine only reads it.
type LessonCategory struct {
	ID         uuid.UUID
	Name       string
	IsGroup    bool
	Terminated bool
}

// IsActive reports whether lessons of this category may still be created.
func (c *LessonCategory) IsActive() bool {
	return !c.Terminated
}

// Classroom is a bookable room.
type Classroom struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Terminated  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the classroom accepts new bookings.
func (c *Classroom) IsActive() bool {
	return !c.Terminated
}

// Teacher as the scheduling engine sees it: an identity, an activation
// flag and the set of categories the teacher may teach.
type Teacher struct {
	ID          uuid.UUID
	Name        string
	Terminated  bool
	CategoryIDs []uuid.UUID
	CreatedAt   time.Time
}

// IsActive reports whether the teacher may be booked.
func (t *Teacher) IsActive() bool {
	return !t.Terminated
}

// Teaches reports whether the teacher's taught-category list includes
// the category.
func (t *Teacher) Teaches(categoryID uuid.UUID) bool {
	for _, id := range t.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Student as the scheduling engine sees it.
type Student struct {
	ID         uuid.UUID
	Name       string
	Terminated bool
	CreatedAt  time.Time
}

// IsActive reports whether the student may book lessons.
func (s *Student) IsActive() bool {
	return !s.Terminated
}
