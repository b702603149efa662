package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is the central scheduling entity: a time-bounded teaching
// session in a classroom, optionally belonging to a group.
// A lesson with is_confirmed=false is a pending student request.
// Termination is a soft flag; terminated lessons never come back.
type Lesson struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CategoryID  uuid.UUID
	StartTime   time.Time
	FinishTime  time.Time
	ClassroomID *uuid.UUID
	GroupID     *uuid.UUID
	IsConfirmed bool
	// AllowAdjacent permits another lesson to share the classroom at the
	// same time. Co-occupancy requires BOTH lessons to allow it.
	AllowAdjacent bool
	Terminated    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the lesson still occupies its participants'
// calendars.
func (l *Lesson) IsActive() bool {
	return !l.Terminated
}

// IsRequest reports whether the lesson is a pending student request.
func (l *Lesson) IsRequest() bool {
	return !l.IsConfirmed && !l.Terminated
}

// IsGroupLesson reports whether the lesson belongs to a group.
func (l *Lesson) IsGroupLesson() bool {
	return l.GroupID != nil
}

// OverlapsWindow reports whether the lesson intersects [start, finish).
func (l *Lesson) OverlapsWindow(start, finish time.Time) bool {
	return Overlaps(l.StartTime, l.FinishTime, start, finish)
}

// Overlaps reports whether [aStart, aFinish) and [bStart, bFinish)
// intersect. Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aFinish, bStart, bFinish time.Time) bool {
	return aStart.Before(bFinish) && bStart.Before(aFinish)
}

// Contains reports whether [innerStart, innerFinish) lies entirely
// within [outerStart, outerFinish). Matching boundaries count as inside.
func Contains(outerStart, outerFinish, innerStart, innerFinish time.Time) bool {
	return !innerStart.Before(outerStart) && !innerFinish.After(outerFinish)
}

// TeacherLesson links an assigned teacher to a lesson.
type TeacherLesson struct {
	TeacherID uuid.UUID
	LessonID  uuid.UUID
}

// ParticipantKind identifies whose calendar a conflict check runs against.
type ParticipantKind string

const (
	ParticipantTeacher   ParticipantKind = "teacher"
	ParticipantStudent   ParticipantKind = "student"
	ParticipantClassroom ParticipantKind = "classroom"
)
