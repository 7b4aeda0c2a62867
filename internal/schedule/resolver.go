package schedule

import (
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
)

// Kind is the resolver's verdict on a candidate insertion.
type Kind int

const (
	// New means the candidate joins the draft as an additional section.
	New Kind = iota
	// Replace means the candidate supersedes an existing section of the
	// same course and component (e.g. switching lecture sections).
	Replace
	// Duplicate means the exact section is already in the draft.
	Duplicate
	// TimeConflict means the candidate overlaps a section of a different
	// course slot and must be rejected.
	TimeConflict
)

func (k Kind) String() string {
	switch k {
	case New:
		return "new"
	case Replace:
		return "replace"
	case Duplicate:
		return "duplicate"
	case TimeConflict:
		return "time_conflict"
	default:
		return "unknown"
	}
}

// Classification carries the verdict plus the existing section it refers
// to: the section being replaced (Replace), the prior copy (Duplicate), or
// the section the candidate collides with (TimeConflict). With is nil for
// New. ReplaceIndex is the position of the replaced section, -1 otherwise.
type Classification struct {
	Kind         Kind
	With         *domain.Section
	ReplaceIndex int
}

// Overlaps reports whether two sections collide: they share at least one
// meeting day and their time windows overlap. Windows are half-open, so a
// 9:00-9:50 section and a 9:50-10:40 section on the same day do not
// overlap.
func Overlaps(a, b domain.Section) bool {
	if !daysIntersect(ParseDays(a.Days), ParseDays(b.Days)) {
		return false
	}
	startA, endA := TimeToDecimal(a.StartTime), TimeToDecimal(a.EndTime)
	startB, endB := TimeToDecimal(b.StartTime), TimeToDecimal(b.EndTime)
	return startA < endB && startB < endA
}

// Classify decides how a candidate section may join the existing list.
//
// The checks run in a fixed order. An id duplicate always wins. A section
// holding the candidate's course slot is remembered but excluded from the
// conflict scan, so swapping lecture sections is never blocked by the very
// lecture being swapped out; a collision with any other section still
// rejects the swap. Only the first colliding section is reported, in list
// order.
func Classify(candidate domain.Section, existing []domain.Section) Classification {
	for _, section := range existing {
		if section.ID == candidate.ID {
			held := section
			return Classification{Kind: Duplicate, With: &held, ReplaceIndex: -1}
		}
	}

	sameSlotIndex := -1
	for i, section := range existing {
		if section.SameCourseSlot(candidate) {
			sameSlotIndex = i
			break
		}
	}

	for i, section := range existing {
		if i == sameSlotIndex {
			continue
		}
		if Overlaps(candidate, section) {
			held := section
			return Classification{Kind: TimeConflict, With: &held, ReplaceIndex: -1}
		}
	}

	if sameSlotIndex >= 0 {
		held := existing[sameSlotIndex]
		return Classification{Kind: Replace, With: &held, ReplaceIndex: sameSlotIndex}
	}

	return Classification{Kind: New, ReplaceIndex: -1}
}
