package v1

import (
	"mockmate/internal/config"
	"mockmate/internal/delivery/http/handler"
	"mockmate/internal/delivery/http/middleware"
	"mockmate/internal/pkg/jwt"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, queueUC usecase.QueueUsecase, matchUC usecase.MatchUsecase) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(cfg.JWT.AccessSecret)
	authMw := middleware.NewAuthMiddleware(jwtSvc)
	joinLimiter := middleware.NewRateLimiter(cfg.Matching.JoinRatePerSecond, cfg.Matching.JoinBurst)

	queueHandler := handler.NewQueueHandler(queueUC)
	matchHandler := handler.NewMatchHandler(matchUC)
	slotsHandler := handler.NewSlotsHandler(queueUC)

	// Slot browsing is read-only and needs no identity.
	slotsHandler.RegisterRoutes(r)

	protected := r.Group("", authMw.RequireAuth())

	// Joins are the only write path clients can hammer; the limiter sits
	// on the whole queue group.
	queueGroup := protected.Group("", joinLimiter.Middleware())
	queueHandler.RegisterRoutes(queueGroup)

	matchHandler.RegisterRoutes(protected)
}
