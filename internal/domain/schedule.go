package domain

import "github.com/google/uuid"

// SavedSchedule is the durable counterpart of a draft. Durable storage owns
// the record; the draft store only works on a copy of it.
type SavedSchedule struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Term     string
	Year     int
	Sections []Section
}
