package schedule

import (
	"testing"

	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
)

func section(id string, dept, code, component, days, start, end string) domain.Section {
	return domain.Section{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)),
		Department: dept,
		Code:       code,
		Component:  component,
		Days:       days,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Section
		b    domain.Section
		want bool
	}{
		{
			"positive overlap on shared day",
			section("a", "CS", "101", "LEC", "MWF", "9:00", "10:00"),
			section("b", "MATH", "50", "LEC", "M", "9:59", "10:30"),
			true,
		},
		{
			"touching endpoints do not overlap",
			section("a", "CS", "101", "LEC", "MWF", "9:00", "9:50"),
			section("b", "MATH", "50", "LEC", "MWF", "9:50", "10:40"),
			false,
		},
		{
			"identical windows on disjoint days",
			section("a", "CS", "101", "LEC", "MWF", "9:00", "9:50"),
			section("b", "MATH", "50", "LEC", "TuTh", "9:00", "9:50"),
			false,
		},
		{
			"containment",
			section("a", "CS", "101", "LEC", "W", "9:00", "12:00"),
			section("b", "MATH", "50", "LEC", "W", "10:00", "10:50"),
			true,
		},
		{
			"12h against 24h notation",
			section("a", "CS", "101", "LEC", "F", "1:00 PM", "2:00 PM"),
			section("b", "MATH", "50", "LEC", "F", "13:30", "14:30"),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDuplicateWins(t *testing.T) {
	existing := section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50")
	// Same id, even with every other attribute changed, is a duplicate.
	candidate := existing
	candidate.Days = "TuTh"
	candidate.Component = "LAB"

	c := Classify(candidate, []domain.Section{existing})
	if c.Kind != Duplicate {
		t.Fatalf("Kind = %s, want duplicate", c.Kind)
	}
	if c.With == nil || c.With.ID != existing.ID {
		t.Errorf("With should name the held copy")
	}
}

func TestClassifyNew(t *testing.T) {
	existing := []domain.Section{
		section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50"),
	}
	candidate := section("u3", "MATH", "101", "LEC", "TuTh", "09:00", "09:50")

	c := Classify(candidate, existing)
	if c.Kind != New {
		t.Fatalf("Kind = %s, want new", c.Kind)
	}
}

func TestClassifySameCourseSwap(t *testing.T) {
	existing := []domain.Section{
		section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50"),
	}
	candidate := section("u2", "EECS", "168", "LEC", "MWF", "10:00", "10:50")

	c := Classify(candidate, existing)
	if c.Kind != Replace {
		t.Fatalf("Kind = %s, want replace", c.Kind)
	}
	if c.ReplaceIndex != 0 {
		t.Errorf("ReplaceIndex = %d, want 0", c.ReplaceIndex)
	}
}

func TestClassifySelfSwapNotConflict(t *testing.T) {
	// Candidate occupies the identical slot it is replacing; that must
	// classify as a swap, not a conflict with itself.
	existing := []domain.Section{
		section("a", "CS", "101", "LEC", "M", "9:00", "9:50"),
	}
	candidate := section("b", "CS", "101", "LEC", "M", "9:00", "9:50")

	c := Classify(candidate, existing)
	if c.Kind != Replace {
		t.Fatalf("Kind = %s, want replace", c.Kind)
	}
}

func TestClassifyGenuineConflictBlocksSwap(t *testing.T) {
	a := section("a", "CS", "101", "LEC", "M", "9:00", "9:50")
	z := section("z", "MATH", "50", "LEC", "M", "9:30", "10:20")
	candidate := section("b", "CS", "101", "LEC", "M", "9:30", "10:20")

	c := Classify(candidate, []domain.Section{a, z})
	if c.Kind != TimeConflict {
		t.Fatalf("Kind = %s, want time_conflict", c.Kind)
	}
	if c.With == nil || c.With.ID != z.ID {
		t.Errorf("conflict should be reported against the other course, not the slot being swapped")
	}
}

func TestClassifyLabAndLectureCoexist(t *testing.T) {
	existing := []domain.Section{
		section("lec", "EECS", "168", "LEC", "MWF", "09:00", "09:50"),
	}
	candidate := section("lab", "EECS", "168", "LAB", "Tu", "13:00", "14:50")

	c := Classify(candidate, existing)
	if c.Kind != New {
		t.Fatalf("Kind = %s, want new (different component is a different slot)", c.Kind)
	}
}

func TestClassifyReportsFirstConflictInOrder(t *testing.T) {
	first := section("f", "MATH", "50", "LEC", "M", "9:00", "10:00")
	second := section("s", "PHSX", "114", "LEC", "M", "9:00", "10:00")
	candidate := section("c", "CS", "101", "LEC", "M", "9:30", "10:30")

	c := Classify(candidate, []domain.Section{first, second})
	if c.Kind != TimeConflict {
		t.Fatalf("Kind = %s, want time_conflict", c.Kind)
	}
	if c.With.ID != first.ID {
		t.Errorf("expected the first colliding section in list order")
	}
}

func TestClassifyEmptyExisting(t *testing.T) {
	candidate := section("a", "CS", "101", "LEC", "MWF", "9:00", "9:50")
	if c := Classify(candidate, nil); c.Kind != New {
		t.Fatalf("Kind = %s, want new", c.Kind)
	}
}
