package handler

import (
	"strings"

	"mockmate/internal/delivery/http/dto"
	"mockmate/internal/pkg/response"
	"mockmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SlotsHandler struct {
	uc usecase.QueueUsecase
}

func NewSlotsHandler(uc usecase.QueueUsecase) *SlotsHandler {
	return &SlotsHandler{uc: uc}
}

func (h *SlotsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/slots", h.List)
}

// List aggregates waiting entries per slot. Filters arrive as query
// params; tools is a comma-separated list.
func (h *SlotsHandler) List(c fiber.Ctx) error {
	var tools []string
	if raw := c.Query("tools"); raw != "" {
		tools = strings.Split(raw, ",")
	}

	counts, err := h.uc.ListAvailableSlots(c.Context(), usecase.ListSlotsParams{
		Role:       c.Query("role"),
		Profession: c.Query("profession"),
		Language:   c.Query("language"),
		Tools:      tools,
	})
	if err != nil {
		return mapQueueUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSlotListResponse(counts))
}
