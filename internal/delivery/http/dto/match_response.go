package dto

import (
	"time"

	"mockmate/internal/domain/queue"

	"github.com/google/uuid"
)

type MatchResponse struct {
	MatchID       uuid.UUID `json:"match_id"`
	CandidateID   uuid.UUID `json:"candidate_entry_id"`
	InterviewerID uuid.UUID `json:"interviewer_entry_id"`
	Profession    string    `json:"profession"`
	Language      string    `json:"language"`
	SlotUTC       time.Time `json:"slot_utc"`
	ToolOverlap   []string  `json:"tool_overlap"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

type MatchAttemptResponse struct {
	Match *MatchResponse `json:"match"`
}

func NewMatchResponse(m queue.Match) MatchResponse {
	return MatchResponse{
		MatchID:       m.ID,
		CandidateID:   m.CandidateID,
		InterviewerID: m.InterviewerID,
		Profession:    m.Profession,
		Language:      m.Language,
		SlotUTC:       m.SlotUTC,
		ToolOverlap:   m.ToolOverlap,
		Score:         m.Score,
		CreatedAt:     m.CreatedAt,
	}
}

func NewMatchResponsePtr(m *queue.Match) *MatchResponse {
	if m == nil {
		return nil
	}
	res := NewMatchResponse(*m)
	return &res
}
