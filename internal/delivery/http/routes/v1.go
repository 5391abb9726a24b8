package routes

import (
	"mockmate/internal/config"
	v1 "mockmate/internal/delivery/http/routes/v1"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, queueUC usecase.QueueUsecase, matchUC usecase.MatchUsecase) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, queueUC, matchUC)
}
