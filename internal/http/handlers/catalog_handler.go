package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/service"
)

type CatalogHandler struct {
	service *service.PlannerService
}

func NewCatalogHandler(svc *service.PlannerService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/sections", h.handleSections)
}

func (h *CatalogHandler) handleSections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	department := r.URL.Query().Get("department")
	code := r.URL.Query().Get("code")

	sections, err := h.service.Sections(r.Context(), department, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest)
		default:
			writeError(w, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sections": sectionsToPayloads(sections)})
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte("{}"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
