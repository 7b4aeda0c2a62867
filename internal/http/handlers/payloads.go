package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/draft"
)

type sectionPayload struct {
	ID          uuid.UUID `json:"id"`
	ClassID     int       `json:"class_id"`
	Department  string    `json:"department"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Component   string    `json:"component"`
	Days        string    `json:"days"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Instructor  string    `json:"instructor"`
	Room        string    `json:"room"`
	CreditHours float64   `json:"credit_hours"`
	Seats       int       `json:"seats"`
}

func sectionToPayload(section domain.Section) sectionPayload {
	return sectionPayload{
		ID:          section.ID,
		ClassID:     section.ClassID,
		Department:  section.Department,
		Code:        section.Code,
		Title:       section.Title,
		Component:   section.Component,
		Days:        section.Days,
		StartTime:   section.StartTime,
		EndTime:     section.EndTime,
		Instructor:  section.Instructor,
		Room:        section.Room,
		CreditHours: section.CreditHours,
		Seats:       section.Seats,
	}
}

func sectionsToPayloads(sections []domain.Section) []sectionPayload {
	result := make([]sectionPayload, 0, len(sections))
	for _, section := range sections {
		result = append(result, sectionToPayload(section))
	}
	return result
}

func payloadToSection(payload sectionPayload) domain.Section {
	return domain.Section{
		ID:          payload.ID,
		ClassID:     payload.ClassID,
		Department:  payload.Department,
		Code:        payload.Code,
		Title:       payload.Title,
		Component:   payload.Component,
		Days:        payload.Days,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		Instructor:  payload.Instructor,
		Room:        payload.Room,
		CreditHours: payload.CreditHours,
		Seats:       payload.Seats,
	}
}

type draftPayload struct {
	Sections        []sectionPayload `json:"sections"`
	Name            string           `json:"name"`
	Term            string           `json:"term"`
	Year            int              `json:"year"`
	EditingExisting bool             `json:"editing_existing"`
	ExistingID      *uuid.UUID       `json:"existing_id,omitempty"`
	State           string           `json:"state"`
}

func snapshotToPayload(snap draft.Snapshot, state string) draftPayload {
	payload := draftPayload{
		Sections:        sectionsToPayloads(snap.Sections),
		Name:            snap.Name,
		Term:            snap.Term,
		Year:            snap.Year,
		EditingExisting: snap.EditingExisting,
		State:           state,
	}
	if snap.ExistingID != uuid.Nil {
		id := snap.ExistingID
		payload.ExistingID = &id
	}
	return payload
}

// sessionKey identifies the draft session: an explicit session header when
// present, otherwise the caller's user id. Empty means the caller gave us
// nothing to key a draft on.
func sessionKey(r *http.Request) string {
	if key := r.Header.Get("X-Session-ID"); key != "" {
		return key
	}
	return r.Header.Get("X-User-ID")
}

// callerID parses the optional X-User-ID header; uuid.Nil means anonymous.
func callerID(r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("X-User-ID")
	if header == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
