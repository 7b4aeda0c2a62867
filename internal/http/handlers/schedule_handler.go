package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/service"
)

type ScheduleHandler struct {
	service  *service.PlannerService
	validate *validator.Validate
}

func NewScheduleHandler(svc *service.PlannerService) *ScheduleHandler {
	return &ScheduleHandler{
		service:  svc,
		validate: validator.New(),
	}
}

func (h *ScheduleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/schedules", h.handleSchedules)
	mux.HandleFunc("/schedules/load", h.handleLoad)
}

type saveScheduleRequest struct {
	Name string `json:"name" validate:"required"`
	Term string `json:"term" validate:"required"`
	Year int    `json:"year" validate:"gte=2000,lte=2100"`
}

type deleteScheduleRequest struct {
	ID uuid.UUID `json:"id"`
}

type loadScheduleRequest struct {
	ID uuid.UUID `json:"id"`
}

type rejectionResponse struct {
	Classification string `json:"classification"`
	Message        string `json:"message"`
}

func (h *ScheduleHandler) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleSave(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ScheduleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest)
		return
	}

	schedules, err := h.service.ListSchedules(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type schedulePayload struct {
		ID       uuid.UUID        `json:"id"`
		Name     string           `json:"name"`
		Term     string           `json:"term"`
		Year     int              `json:"year"`
		Sections []sectionPayload `json:"sections"`
	}
	payloads := make([]schedulePayload, 0, len(schedules))
	for _, sched := range schedules {
		payloads = append(payloads, schedulePayload{
			ID:       sched.ID,
			Name:     sched.Name,
			Term:     sched.Term,
			Year:     sched.Year,
			Sections: sectionsToPayloads(sched.Sections),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": payloads})
}

func (h *ScheduleHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	userID, ok := callerID(r)
	if key == "" || !ok {
		writeError(w, http.StatusBadRequest)
		return
	}

	var req saveScheduleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Classification: "invalid_name",
			Message:        "schedule needs a name, term and year",
		})
		return
	}

	savedID, err := h.service.SaveDraft(r.Context(), key, userID, req.Name, req.Term, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
				Classification: "invalid_name",
				Message:        "schedule needs a name, term and year",
			})
		case errors.Is(err, service.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, rejectionResponse{
				Classification: "not_authenticated",
				Message:        "sign in to save a schedule",
			})
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound)
		default:
			writeError(w, http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": savedID})
}

func (h *ScheduleHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	userID, ok := callerID(r)
	if key == "" || !ok {
		writeError(w, http.StatusBadRequest)
		return
	}

	var req deleteScheduleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil || req.ID == uuid.Nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteSchedule(r.Context(), key, userID, req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(r)
	userID, ok := callerID(r)
	if key == "" || !ok {
		writeError(w, http.StatusBadRequest)
		return
	}

	var req loadScheduleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil || req.ID == uuid.Nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	if err := h.service.LoadSchedule(r.Context(), key, userID, req.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	snap := h.service.DraftSnapshot(key)
	writeJSON(w, http.StatusOK, snapshotToPayload(snap, h.service.DraftState(key)))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound)
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict)
	default:
		writeError(w, http.StatusInternalServerError)
	}
}
