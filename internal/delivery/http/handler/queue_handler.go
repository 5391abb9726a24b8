package handler

import (
	"errors"
	"time"

	"mockmate/internal/delivery/http/dto"
	"mockmate/internal/delivery/http/middleware"
	"mockmate/internal/pkg/response"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type QueueHandler struct {
	uc usecase.QueueUsecase
}

type joinQueueRequest struct {
	Role       string   `json:"role"`
	Profession string   `json:"profession"`
	Language   string   `json:"language"`
	Date       string   `json:"date"`
	Hour       int      `json:"hour"`
	Minute     int      `json:"minute"`
	Timezone   string   `json:"timezone"`
	Tools      []string `json:"tools"`
}

func NewQueueHandler(uc usecase.QueueUsecase) *QueueHandler {
	return &QueueHandler{uc: uc}
}

func (h *QueueHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/queue")
	grp.Post("/", h.Join)
	grp.Get("/:entry_id", h.Status)
	grp.Delete("/:entry_id", h.Withdraw)
}

func (h *QueueHandler) Join(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req joinQueueRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err)
	}

	result, err := h.uc.Join(c.Context(), usecase.JoinParams{
		UserID:     userID,
		Role:       req.Role,
		Profession: req.Profession,
		Language:   req.Language,
		Date:       date,
		Hour:       req.Hour,
		Minute:     req.Minute,
		Timezone:   req.Timezone,
		Tools:      req.Tools,
	})
	if err != nil {
		return mapQueueUsecaseError(err)
	}

	res := dto.JoinQueueResponse{
		Entry: dto.NewQueueEntryResponse(result.Entry),
		Match: dto.NewMatchResponsePtr(result.Match),
	}
	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, response.MessageOK, res)
}

func (h *QueueHandler) Status(c fiber.Ctx) error {
	if middleware.UserID(c) == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("entry_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid entry id", nil, err)
	}

	st, err := h.uc.Status(c.Context(), entryID)
	if err != nil {
		return mapQueueUsecaseError(err)
	}

	res := dto.QueueStatusResponse{
		Entry: dto.NewQueueEntryResponse(st.Entry),
		Match: dto.NewMatchResponsePtr(st.Match),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// Withdraw succeeds even when the entry is gone or already matched, so
// retried deletes stay harmless.
func (h *QueueHandler) Withdraw(c fiber.Ctx) error {
	if middleware.UserID(c) == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("entry_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid entry id", nil, err)
	}

	if err := h.uc.Withdraw(c.Context(), entryID); err != nil {
		return mapQueueUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapQueueUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidTimeInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid time or timezone", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrExpiredSlot):
		return middleware.NewAppError(fiber.StatusConflict, "Slot is in the past", nil, err)
	case errors.Is(err, usecase.ErrEntryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Entry not found", nil, err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Service unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
