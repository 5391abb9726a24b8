package handler

import (
	"errors"
	"time"

	"mockmate/internal/delivery/http/dto"
	"mockmate/internal/delivery/http/middleware"
	"mockmate/internal/pkg/response"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

type requestMatchRequest struct {
	Profession string    `json:"profession"`
	Language   string    `json:"language"`
	SlotUTC    time.Time `json:"slot_utc"`
	Strictness string    `json:"strictness"`
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/matches", h.Request)
}

// Request runs one pairing attempt for a bucket. Finding no eligible
// pair is a normal outcome and answers 200 with a null match.
func (h *MatchHandler) Request(c fiber.Ctx) error {
	if middleware.UserID(c) == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req requestMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	match, err := h.uc.RequestMatch(c.Context(), usecase.RequestMatchParams{
		Profession: req.Profession,
		Language:   req.Language,
		SlotUTC:    req.SlotUTC,
		Strictness: req.Strictness,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNoEligiblePair) {
			return response.Success(c, fiber.StatusOK, response.MessageWaiting, dto.MatchAttemptResponse{Match: nil})
		}
		return mapMatchUsecaseError(err)
	}

	res := dto.NewMatchResponse(match)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchAttemptResponse{Match: &res})
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidTimeInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid slot time", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Service unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
