package draft

import (
	"testing"

	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/schedule"
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

type recordingSink struct {
	snaps []Snapshot
}

func (r *recordingSink) DraftChanged(snap Snapshot) {
	r.snaps = append(r.snaps, snap)
}

func TestAddSectionNew(t *testing.T) {
	store := NewStore(nil)
	s := section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50")

	outcome := store.AddSection(s)
	if outcome.Classification.Kind != schedule.New {
		t.Fatalf("kind = %s, want new", outcome.Classification.Kind)
	}
	if !outcome.Applied {
		t.Error("new section should be applied")
	}
	if got := store.Snapshot().Sections; len(got) != 1 || got[0].ID != s.ID {
		t.Errorf("sections = %v", got)
	}
	if store.State() != StatePopulatedNew {
		t.Errorf("state = %s, want %s", store.State(), StatePopulatedNew)
	}
}

func TestAddSectionDuplicateIdempotent(t *testing.T) {
	store := NewStore(nil)
	s := section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50")

	store.AddSection(s)
	outcome := store.AddSection(s)

	if outcome.Classification.Kind != schedule.Duplicate {
		t.Fatalf("kind = %s, want duplicate", outcome.Classification.Kind)
	}
	if outcome.Applied {
		t.Error("duplicate must not be applied")
	}
	if got := len(store.Snapshot().Sections); got != 1 {
		t.Errorf("section count = %d, want 1", got)
	}
}

func TestAddSectionReplaceKeepsCardinalityAndPosition(t *testing.T) {
	store := NewStore(nil)
	lec := section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50")
	other := section("o1", "MATH", "101", "LEC", "TuTh", "09:00", "09:50")
	swap := section("u2", "EECS", "168", "LEC", "MWF", "10:00", "10:50")

	store.AddSection(lec)
	store.AddSection(other)
	outcome := store.AddSection(swap)

	if outcome.Classification.Kind != schedule.Replace {
		t.Fatalf("kind = %s, want replace", outcome.Classification.Kind)
	}
	sections := store.Snapshot().Sections
	if len(sections) != 2 {
		t.Fatalf("section count = %d, want 2", len(sections))
	}
	if sections[0].ID != swap.ID {
		t.Errorf("replacement should hold the outgoing section's position")
	}
	withTuple := 0
	for _, s := range sections {
		if s.SameCourseSlot(lec) {
			withTuple++
		}
	}
	if withTuple != 1 {
		t.Errorf("sections with the course slot = %d, want exactly 1", withTuple)
	}
}

func TestAddSectionConflictRejected(t *testing.T) {
	store := NewStore(nil)
	store.AddSection(section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50"))

	outcome := store.AddSection(section("u2", "MATH", "101", "LEC", "MWF", "09:30", "10:20"))
	if outcome.Classification.Kind != schedule.TimeConflict {
		t.Fatalf("kind = %s, want time_conflict", outcome.Classification.Kind)
	}
	if got := len(store.Snapshot().Sections); got != 1 {
		t.Errorf("section count = %d, want 1", got)
	}
}

func TestEECS168Scenarios(t *testing.T) {
	u1 := section("u1", "EECS", "168", "LEC", "MWF", "09:00", "09:50")
	u2 := section("u2", "EECS", "168", "LEC", "MWF", "10:00", "10:50")
	u3 := section("u3", "MATH", "101", "LEC", "TuTh", "09:00", "09:50")

	t.Run("same course swap", func(t *testing.T) {
		store := NewStore(nil)
		store.AddSection(u1)
		outcome := store.AddSection(u2)
		if outcome.Classification.Kind != schedule.Replace {
			t.Fatalf("kind = %s, want replace", outcome.Classification.Kind)
		}
		sections := store.Snapshot().Sections
		if len(sections) != 1 || sections[0].ID != u2.ID {
			t.Errorf("draft should hold only u2, got %v", sections)
		}
	})

	t.Run("day disjoint add", func(t *testing.T) {
		store := NewStore(nil)
		store.AddSection(u1)
		outcome := store.AddSection(u3)
		if outcome.Classification.Kind != schedule.New {
			t.Fatalf("kind = %s, want new", outcome.Classification.Kind)
		}
		sections := store.Snapshot().Sections
		if len(sections) != 2 || sections[0].ID != u1.ID || sections[1].ID != u3.ID {
			t.Errorf("draft should hold [u1, u3], got %v", sections)
		}
	})
}

func TestRemoveSection(t *testing.T) {
	store := NewStore(nil)
	a := section("a", "CS", "101", "LEC", "M", "9:00", "9:50")
	b := section("b", "MATH", "50", "LEC", "Tu", "9:00", "9:50")
	store.AddSection(a)
	store.AddSection(b)

	store.RemoveSection(0)
	sections := store.Snapshot().Sections
	if len(sections) != 1 || sections[0].ID != b.ID {
		t.Fatalf("sections = %v, want [b]", sections)
	}

	// Out of range is a silent no-op.
	store.RemoveSection(5)
	store.RemoveSection(-1)
	if got := len(store.Snapshot().Sections); got != 1 {
		t.Errorf("section count = %d, want 1", got)
	}

	store.RemoveSection(0)
	if store.State() != StateEmpty {
		t.Errorf("state = %s, want %s after removing the last section", store.State(), StateEmpty)
	}
}

func TestRemoveSectionByID(t *testing.T) {
	store := NewStore(nil)
	a := section("a", "CS", "101", "LEC", "M", "9:00", "9:50")
	b := section("b", "MATH", "50", "LEC", "Tu", "9:00", "9:50")
	store.AddSection(a)
	store.AddSection(b)

	store.RemoveSectionByID(a.ID)
	sections := store.Snapshot().Sections
	if len(sections) != 1 || sections[0].ID != b.ID {
		t.Fatalf("sections = %v, want [b]", sections)
	}

	store.RemoveSectionByID(uuid.New())
	if got := len(store.Snapshot().Sections); got != 1 {
		t.Errorf("unknown id should be a no-op")
	}
}

func TestClearResetsEverythingAtOnce(t *testing.T) {
	store := NewStore(nil)
	store.AddSection(section("a", "CS", "101", "LEC", "M", "9:00", "9:50"))
	store.SetName("fall plan")
	store.SetTerm("Fall", 2026)
	store.LinkSaved(uuid.New())

	store.Clear()

	snap := store.Snapshot()
	if len(snap.Sections) != 0 || snap.Name != "" || snap.Term != "" || snap.Year != 0 ||
		snap.EditingExisting || snap.ExistingID != uuid.Nil {
		t.Errorf("clear left residue: %+v", snap)
	}
	if store.State() != StateEmpty {
		t.Errorf("state = %s, want %s", store.State(), StateEmpty)
	}
}

func TestLoadExisting(t *testing.T) {
	store := NewStore(nil)
	saved := domain.SavedSchedule{
		ID:   uuid.New(),
		Name: "spring",
		Term: "Spring",
		Year: 2026,
		Sections: []domain.Section{
			section("a", "CS", "101", "LEC", "M", "9:00", "9:50"),
			section("b", "MATH", "50", "LEC", "Tu", "9:00", "9:50"),
		},
	}

	store.LoadExisting(saved)

	snap := store.Snapshot()
	if !snap.EditingExisting || snap.ExistingID != saved.ID {
		t.Fatalf("draft should be editing the loaded schedule")
	}
	if snap.Name != "spring" || snap.Term != "Spring" || snap.Year != 2026 {
		t.Errorf("metadata not hydrated: %+v", snap)
	}
	if len(snap.Sections) != 2 {
		t.Errorf("section count = %d, want 2", len(snap.Sections))
	}
	if store.State() != StateEditingExisting {
		t.Errorf("state = %s, want %s", store.State(), StateEditingExisting)
	}
}

func TestLoadExistingIdempotent(t *testing.T) {
	sink := &recordingSink{}
	store := NewStore(sink)
	saved := domain.SavedSchedule{
		ID:       uuid.New(),
		Name:     "spring",
		Sections: []domain.Section{section("a", "CS", "101", "LEC", "M", "9:00", "9:50")},
	}

	store.LoadExisting(saved)
	notified := len(sink.snaps)
	seq := store.Snapshot().Sequence

	store.LoadExisting(saved)

	if store.Snapshot().Sequence != seq {
		t.Error("re-loading the same schedule must not advance the sequence")
	}
	if len(sink.snaps) != notified {
		t.Error("re-loading the same schedule must not notify the sink")
	}
}

func TestLoadExistingRoundTrip(t *testing.T) {
	store := NewStore(nil)
	saved := domain.SavedSchedule{
		ID: uuid.New(),
		Sections: []domain.Section{
			section("a", "CS", "101", "LEC", "M", "9:00", "9:50"),
			section("b", "MATH", "50", "LEC", "Tu", "9:00", "9:50"),
			section("c", "CS", "101", "LAB", "W", "13:00", "14:50"),
		},
	}

	store.LoadExisting(saved)
	snap := store.Snapshot()

	if len(snap.Sections) != len(saved.Sections) {
		t.Fatalf("round trip changed section count: %d != %d", len(snap.Sections), len(saved.Sections))
	}
	ids := make(map[uuid.UUID]bool)
	for _, s := range snap.Sections {
		ids[s.ID] = true
	}
	for _, s := range saved.Sections {
		if !ids[s.ID] {
			t.Errorf("section %s dropped through load", s.ID)
		}
	}
}

func TestSinkNotifiedInMutationOrder(t *testing.T) {
	sink := &recordingSink{}
	store := NewStore(sink)

	store.AddSection(section("a", "CS", "101", "LEC", "M", "9:00", "9:50"))
	store.AddSection(section("b", "MATH", "50", "LEC", "Tu", "9:00", "9:50"))
	// Rejected adds must not notify.
	store.AddSection(section("a", "CS", "101", "LEC", "M", "9:00", "9:50"))
	store.RemoveSection(0)

	if len(sink.snaps) != 3 {
		t.Fatalf("notifications = %d, want 3", len(sink.snaps))
	}
	for i := 1; i < len(sink.snaps); i++ {
		if sink.snaps[i].Sequence <= sink.snaps[i-1].Sequence {
			t.Errorf("sequence not monotonic: %d then %d", sink.snaps[i-1].Sequence, sink.snaps[i].Sequence)
		}
	}
	if got := len(sink.snaps[2].Sections); got != 1 {
		t.Errorf("final snapshot sections = %d, want 1", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore(nil)
	store.AddSection(section("a", "CS", "101", "LEC", "M", "9:00", "9:50"))

	snap := store.Snapshot()
	snap.Sections[0].Department = "MUTATED"

	if store.Snapshot().Sections[0].Department != "CS" {
		t.Error("snapshot mutation leaked into the store")
	}
}
