package repository

import (
	"context"
	"errors"
	"time"

	"mockmate/internal/database"
	"mockmate/internal/domain/matching"
	"mockmate/internal/domain/queue"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MatchRepository interface {
	// CommitPair transitions both entries waiting -> matched and inserts
	// the match record, all in one transaction. Losing either transition
	// to a concurrent withdraw or match returns ErrPairConflict with no
	// partial writes.
	CommitPair(ctx context.Context, pair matching.Pair) (queue.Match, error)

	// FindByEntry returns the match an entry participates in, if any.
	FindByEntry(ctx context.Context, entryID uuid.UUID) (queue.Match, bool, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, candidate_entry_id, interviewer_entry_id, profession, language, slot_utc, tool_overlap, score, created_at`

func (r *PostgresMatchRepository) CommitPair(ctx context.Context, pair matching.Pair) (queue.Match, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return queue.Match{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, entryID := range []uuid.UUID{pair.Candidate.ID, pair.Interviewer.ID} {
		n, err := tx.Exec(ctx,
			`UPDATE queue_entries SET status = 'matched' WHERE id = $1 AND status = 'waiting'`,
			entryID,
		)
		if err != nil {
			return queue.Match{}, err
		}
		if n != 1 {
			// The entry was withdrawn or matched by a racing attempt.
			return queue.Match{}, ErrPairConflict
		}
	}

	m := queue.Match{
		ID:            uuid.New(),
		CandidateID:   pair.Candidate.ID,
		InterviewerID: pair.Interviewer.ID,
		Profession:    pair.Candidate.Profession,
		Language:      pair.Candidate.Language,
		SlotUTC:       pair.Candidate.SlotUTC,
		ToolOverlap:   pair.Overlap,
		Score:         pair.Score,
		CreatedAt:     time.Now().UTC(),
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO matches (`+matchColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.CandidateID, m.InterviewerID, m.Profession, m.Language, m.SlotUTC, m.ToolOverlap, m.Score, m.CreatedAt,
	)
	if err != nil {
		return queue.Match{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return queue.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) (queue.Match, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches
		 WHERE candidate_entry_id = $1 OR interviewer_entry_id = $1`,
		entryID,
	)

	var m queue.Match
	err := row.Scan(&m.ID, &m.CandidateID, &m.InterviewerID, &m.Profession, &m.Language, &m.SlotUTC, &m.ToolOverlap, &m.Score, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return queue.Match{}, false, nil
	}
	if err != nil {
		return queue.Match{}, false, err
	}
	m.SlotUTC = m.SlotUTC.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	return m, true, nil
}
