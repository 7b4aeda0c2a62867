package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/service"
)

type DraftHandler struct {
	service *service.PlannerService
}

func NewDraftHandler(svc *service.PlannerService) *DraftHandler {
	return &DraftHandler{service: svc}
}

func (h *DraftHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/draft", h.handleDraft)
	mux.HandleFunc("/draft/sections", h.handleSections)
	mux.HandleFunc("/draft/clear", h.handleClear)
	mux.HandleFunc("/session/end", h.handleEndSession)
}

func (h *DraftHandler) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(r)
	if key == "" {
		writeError(w, http.StatusBadRequest)
		return
	}

	snap := h.service.DraftSnapshot(key)
	state := h.service.DraftState(key)
	writeJSON(w, http.StatusOK, snapshotToPayload(snap, state))
}

type addSectionRequest struct {
	Section sectionPayload `json:"section"`
}

type removeSectionRequest struct {
	Index     *int       `json:"index"`
	SectionID *uuid.UUID `json:"section_id"`
}

type outcomeResponse struct {
	Classification string       `json:"classification"`
	Message        string       `json:"message"`
	Applied        bool         `json:"applied"`
	Draft          draftPayload `json:"draft"`
}

func (h *DraftHandler) handleSections(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	if key == "" {
		writeError(w, http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req addSectionRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		if req.Section.ID == uuid.Nil {
			writeError(w, http.StatusBadRequest)
			return
		}

		outcome := h.service.AddToDraft(key, payloadToSection(req.Section))
		snap := h.service.DraftSnapshot(key)
		writeJSON(w, http.StatusOK, outcomeResponse{
			Classification: outcome.Classification.Kind.String(),
			Message:        outcome.Message(),
			Applied:        outcome.Applied,
			Draft:          snapshotToPayload(snap, h.service.DraftState(key)),
		})

	case http.MethodDelete:
		var req removeSectionRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}

		switch {
		case req.SectionID != nil:
			h.service.RemoveFromDraftByID(key, *req.SectionID)
		case req.Index != nil:
			h.service.RemoveFromDraft(key, *req.Index)
		default:
			writeError(w, http.StatusBadRequest)
			return
		}

		snap := h.service.DraftSnapshot(key)
		writeJSON(w, http.StatusOK, snapshotToPayload(snap, h.service.DraftState(key)))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *DraftHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(r)
	if key == "" {
		writeError(w, http.StatusBadRequest)
		return
	}

	h.service.ClearDraft(key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DraftHandler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(r)
	if key == "" {
		writeError(w, http.StatusBadRequest)
		return
	}

	h.service.EndSession(key)
	w.WriteHeader(http.StatusNoContent)
}
