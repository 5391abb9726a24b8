package routes

import (
	"mockmate/internal/config"
	"mockmate/internal/database"
	"mockmate/internal/delivery/http/handler"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg     config.Config
	health  *handler.HealthHandler
	queueUC usecase.QueueUsecase
	matchUC usecase.MatchUsecase
}

func NewRegistry(cfg config.Config, db database.DB, queueUC usecase.QueueUsecase, matchUC usecase.MatchUsecase) *Registry {
	return &Registry{
		cfg:     cfg,
		health:  handler.NewHealthHandler(db),
		queueUC: queueUC,
		matchUC: matchUC,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.cfg, r.queueUC, r.matchUC)
}
