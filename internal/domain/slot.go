package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotDefinition is a teacher's recurring weekly availability rule.
// Times are wall-clock minutes from midnight in the business time zone,
// day of week is 0 (Monday) through 6 (Sunday).
type SlotDefinition struct {
	ID           uuid.UUID
	TeacherID    uuid.UUID
	DayOfWeek    int
	StartMinutes int
	EndMinutes   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Duration returns the slot length.
func (s *SlotDefinition) Duration() time.Duration {
	return time.Duration(s.EndMinutes-s.StartMinutes) * time.Minute
}

// OverlapsOnSameDay reports whether two definitions intersect.
// Definitions on different weekdays never overlap.
func (s *SlotDefinition) OverlapsOnSameDay(other *SlotDefinition) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartMinutes < other.EndMinutes && other.StartMinutes < s.EndMinutes
}

// MaterializeOn combines the definition's wall-clock times with a
// concrete date in the given location.
func (s *SlotDefinition) MaterializeOn(date time.Time, loc *time.Location) (start, finish time.Time) {
	y, m, d := date.In(loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	start = midnight.Add(time.Duration(s.StartMinutes) * time.Minute)
	finish = midnight.Add(time.Duration(s.EndMinutes) * time.Minute)
	return start, finish
}

// Window is a concrete, dated [Start, Finish) interval a teacher can be
// booked for.
type Window struct {
	TeacherID uuid.UUID
	Start     time.Time
	Finish    time.Time
}

// ISOWeekday converts Go's Sunday-based weekday to the 0=Monday..6=Sunday
// numbering used by slot definitions.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
