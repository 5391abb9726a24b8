package dto

import (
	"time"

	"mockmate/internal/domain/queue"
)

type SlotResponse struct {
	SlotUTC   time.Time `json:"slot_utc"`
	Count     int       `json:"count"`
	BestScore int       `json:"best_score"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func NewSlotListResponse(counts []queue.SlotCount) SlotListResponse {
	slots := make([]SlotResponse, 0, len(counts))
	for _, c := range counts {
		slots = append(slots, SlotResponse{SlotUTC: c.SlotUTC, Count: c.Count, BestScore: c.BestScore})
	}
	return SlotListResponse{Slots: slots}
}
