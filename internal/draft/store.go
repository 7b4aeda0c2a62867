// Package draft owns the in-progress schedule: an ordered section list plus
// naming metadata, mutated only through methods that run the conflict
// resolver first. One store exists per editing session.
package draft

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/schedule"
)

// Lifecycle states.
const (
	StateEmpty           = "empty"
	StatePopulatedNew    = "populated_new"
	StateEditingExisting = "editing_existing"
)

const (
	eventSectionAdded   = "section_added"
	eventSectionRemoved = "section_removed"
	eventEmptied        = "emptied"
	eventLoaded         = "loaded"
	eventCleared        = "cleared"
)

// Snapshot is an immutable copy of the draft, safe to hand to persistence
// or transport code without holding the store's lock.
type Snapshot struct {
	Sections        []domain.Section
	Name            string
	Term            string
	Year            int
	EditingExisting bool
	ExistingID      uuid.UUID
	Sequence        uint64
}

// Sink receives a snapshot after every accepted mutation. Snapshots are
// delivered in mutation order; implementations must not block.
type Sink interface {
	DraftChanged(snap Snapshot)
}

// Store is the single authoritative holder of one draft schedule. Every
// mutator takes the store mutex for the whole classify-then-apply sequence,
// so concurrent callers are serialized and each call observes the result of
// the previous one.
type Store struct {
	mu        sync.Mutex
	sections  []domain.Section
	name      string
	term      string
	year      int
	editing   bool
	savedID   uuid.UUID
	sequence  uint64
	lifecycle *fsm.FSM
	sink      Sink
}

// NewStore builds an empty draft. sink may be nil when nothing downstream
// cares about mutations (tests, anonymous throwaway drafts).
func NewStore(sink Sink) *Store {
	s := &Store{sink: sink}
	s.lifecycle = fsm.NewFSM(
		StateEmpty,
		fsm.Events{
			{Name: eventSectionAdded, Src: []string{StateEmpty}, Dst: StatePopulatedNew},
			{Name: eventSectionAdded, Src: []string{StatePopulatedNew}, Dst: StatePopulatedNew},
			{Name: eventSectionAdded, Src: []string{StateEditingExisting}, Dst: StateEditingExisting},
			{Name: eventSectionRemoved, Src: []string{StatePopulatedNew}, Dst: StatePopulatedNew},
			{Name: eventSectionRemoved, Src: []string{StateEditingExisting}, Dst: StateEditingExisting},
			{Name: eventEmptied, Src: []string{StatePopulatedNew}, Dst: StateEmpty},
			{Name: eventLoaded, Src: []string{StateEmpty, StatePopulatedNew, StateEditingExisting}, Dst: StateEditingExisting},
			{Name: eventCleared, Src: []string{StateEmpty, StatePopulatedNew, StateEditingExisting}, Dst: StateEmpty},
		},
		fsm.Callbacks{},
	)
	return s
}

// State returns the current lifecycle state.
func (s *Store) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Current()
}

// AddSection classifies the candidate against the current draft and applies
// the result: New appends, Replace swaps in place at the outgoing section's
// position, Duplicate and TimeConflict leave the draft untouched. The sink
// is notified only when the draft changed.
func (s *Store) AddSection(candidate domain.Section) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := schedule.Classify(candidate, s.sections)
	switch c.Kind {
	case schedule.New:
		s.assertSlotFree(candidate)
		s.sections = append(s.sections, candidate)
	case schedule.Replace:
		s.sections[c.ReplaceIndex] = candidate
	default:
		return Outcome{Classification: c}
	}

	s.sequence++
	s.fire(eventSectionAdded)
	s.notify()
	return Outcome{Classification: c, Applied: true, Sequence: s.sequence}
}

// RemoveSection drops the section at the given position. An out-of-range
// index is a no-op: the UI is the only caller and a stale index from a
// concurrent re-render is expected, not an error.
func (s *Store) RemoveSection(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sections) {
		return
	}
	s.sections = append(s.sections[:index], s.sections[index+1:]...)
	s.afterRemoval()
}

// RemoveSectionByID drops the section with the given id, if present.
func (s *Store) RemoveSectionByID(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, section := range s.sections {
		if section.ID == id {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			s.afterRemoval()
			return
		}
	}
}

func (s *Store) afterRemoval() {
	s.sequence++
	if len(s.sections) == 0 && !s.editing {
		s.fire(eventEmptied)
	} else {
		s.fire(eventSectionRemoved)
	}
	s.notify()
}

// Clear resets the sequence and every metadata field in one step; a caller
// can never observe a draft with some fields cleared and others not.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = nil
	s.name = ""
	s.term = ""
	s.year = 0
	s.editing = false
	s.savedID = uuid.Nil
	s.sequence++
	s.fire(eventCleared)
	s.notify()
}

// LoadExisting replaces the whole draft with a saved schedule's contents
// and marks it as editing that schedule. Loading the schedule that is
// already loaded is a no-op, which keeps observers that re-trigger loads
// from feeding back into themselves.
func (s *Store) LoadExisting(saved domain.SavedSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing && s.savedID == saved.ID {
		return
	}

	s.sections = append([]domain.Section(nil), saved.Sections...)
	s.name = saved.Name
	s.term = saved.Term
	s.year = saved.Year
	s.editing = true
	s.savedID = saved.ID
	s.sequence++
	s.fire(eventLoaded)
	s.notify()
}

// LinkSaved records the durable id a save returned, flipping a new draft
// into editing mode without touching its sections.
func (s *Store) LinkSaved(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editing = true
	s.savedID = id
	s.fire(eventLoaded)
}

// SetName names the draft.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// SetTerm sets the term label and year.
func (s *Store) SetTerm(term string, year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term = term
	s.year = year
}

// Snapshot returns a copy of the current draft state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Sections:        append([]domain.Section(nil), s.sections...),
		Name:            s.name,
		Term:            s.term,
		Year:            s.year,
		EditingExisting: s.editing,
		ExistingID:      s.savedID,
		Sequence:        s.sequence,
	}
}

func (s *Store) notify() {
	if s.sink == nil {
		return
	}
	s.sink.DraftChanged(s.snapshotLocked())
}

func (s *Store) fire(event string) {
	// Transitions are total over the states each event is fired from, so
	// an error here is a lifecycle-table bug, not a runtime condition.
	if err := s.lifecycle.Event(context.Background(), event); err != nil {
		if _, ok := err.(fsm.NoTransitionError); ok {
			return
		}
		panic(fmt.Sprintf("draft: lifecycle event %s from %s: %v", event, s.lifecycle.Current(), err))
	}
}

// assertSlotFree guards the one-section-per-course-slot invariant. A
// violation means some caller mutated the sequence without going through
// AddSection, which is a programmer error, not a recoverable state.
func (s *Store) assertSlotFree(candidate domain.Section) {
	for _, section := range s.sections {
		if section.SameCourseSlot(candidate) {
			panic(fmt.Sprintf("draft: slot %s %s already held by %s",
				candidate.CourseLabel(), candidate.Component, section.ID))
		}
	}
}
