package draft

import (
	"fmt"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/schedule"
)

// Outcome reports what a mutation did. Rejections (Duplicate, TimeConflict)
// are ordinary values, not errors; the caller decides how to present them.
type Outcome struct {
	Classification schedule.Classification
	// Applied is true when the draft changed (New or Replace).
	Applied bool
	// Sequence is the store's mutation counter after this change; zero
	// when nothing was applied.
	Sequence uint64
}

// Message renders the outcome for a user: it distinguishes an add from a
// swap and names the section a rejected candidate collided with.
func (o Outcome) Message() string {
	c := o.Classification
	switch c.Kind {
	case schedule.New:
		return "added to schedule"
	case schedule.Replace:
		return fmt.Sprintf("replaced %s %s", c.With.CourseLabel(), c.With.Component)
	case schedule.Duplicate:
		return "already in schedule"
	case schedule.TimeConflict:
		return fmt.Sprintf("time conflict with %s (%s %s-%s)",
			c.With.CourseLabel(), c.With.Days, c.With.StartTime, c.With.EndTime)
	default:
		return "unknown outcome"
	}
}
