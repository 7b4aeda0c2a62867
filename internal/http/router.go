package http

import (
	"net/http"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/http/handlers"
)

type Router struct {
	mux *http.ServeMux
}

func NewRouter(
	catalogHandler *handlers.CatalogHandler,
	draftHandler *handlers.DraftHandler,
	scheduleHandler *handlers.ScheduleHandler,
	eventHub *handlers.DraftEventHub,
) *Router {
	mux := http.NewServeMux()
	catalogHandler.Register(mux)
	draftHandler.Register(mux)
	scheduleHandler.Register(mux)
	eventHub.Register(mux)

	return &Router{mux: mux}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}
