package app

import (
	"database/sql"
	"log"
	"net/http"

	transport "github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/http"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/http/handlers"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/repository"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/service"
)

type App struct {
	handler        http.Handler
	plannerService *service.PlannerService
}

func New(db *sql.DB, identityBaseURL string, logger *log.Logger) *App {
	txManager := repository.NewPostgresTxManager(db)
	identityClient := service.NewIdentityHTTPClient(identityBaseURL, service.DefaultIdentityHTTPClient())
	plannerService := service.NewPlannerService(txManager, identityClient, logger)

	eventHub := handlers.NewDraftEventHub(logger)
	plannerService.SetListener(eventHub)

	catalogHandler := handlers.NewCatalogHandler(plannerService)
	draftHandler := handlers.NewDraftHandler(plannerService)
	scheduleHandler := handlers.NewScheduleHandler(plannerService)
	router := transport.NewRouter(catalogHandler, draftHandler, scheduleHandler, eventHub)

	return &App{handler: router.Handler(), plannerService: plannerService}
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Close() {
	a.plannerService.Close()
}
