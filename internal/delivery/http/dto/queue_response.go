package dto

import (
	"time"

	"mockmate/internal/domain/queue"

	"github.com/google/uuid"
)

type QueueEntryResponse struct {
	EntryID    uuid.UUID `json:"entry_id"`
	Role       string    `json:"role"`
	Profession string    `json:"profession"`
	Language   string    `json:"language"`
	SlotUTC    time.Time `json:"slot_utc"`
	Tools      []string  `json:"tools"`
	Status     string    `json:"status"`
	JoinedAt   time.Time `json:"joined_at"`
}

type JoinQueueResponse struct {
	Entry QueueEntryResponse `json:"entry"`
	Match *MatchResponse     `json:"match"`
}

type QueueStatusResponse struct {
	Entry QueueEntryResponse `json:"entry"`
	Match *MatchResponse     `json:"match"`
}

func NewQueueEntryResponse(e queue.Entry) QueueEntryResponse {
	return QueueEntryResponse{
		EntryID:    e.ID,
		Role:       string(e.Role),
		Profession: e.Profession,
		Language:   e.Language,
		SlotUTC:    e.SlotUTC,
		Tools:      e.Tools,
		Status:     string(e.Status),
		JoinedAt:   e.JoinedAt,
	}
}
