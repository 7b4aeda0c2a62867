package domain

import "github.com/google/uuid"

// Section is one schedulable offering of a course. Sections are immutable
// once fetched from the catalog; nothing in this module mutates one in place.
type Section struct {
	ID          uuid.UUID
	ClassID     int
	Department  string
	Code        string
	Title       string
	Component   string
	Days        string
	StartTime   string
	EndTime     string
	Instructor  string
	Room        string
	CreditHours float64
	Seats       int
}

// SameCourseSlot reports whether two sections occupy the same slot of the
// same course (one lecture and one lab per course may coexist, two lectures
// may not).
func (s Section) SameCourseSlot(other Section) bool {
	return s.Department == other.Department &&
		s.Code == other.Code &&
		s.Component == other.Component
}

// CourseLabel is the human-facing course identity, e.g. "EECS 168".
func (s Section) CourseLabel() string {
	return s.Department + " " + s.Code
}
