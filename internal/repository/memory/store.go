// Package memory holds an in-process implementation of the queue and match
// repositories. It backs unit tests and the DB-less development mode; the
// locking discipline mirrors what the Postgres transactions guarantee.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"mockmate/internal/domain/matching"
	"mockmate/internal/domain/queue"
	"mockmate/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*queue.Entry
	matches map[uuid.UUID]queue.Match
	// byEntry indexes matches by participating entry id, both sides.
	byEntry map[uuid.UUID]uuid.UUID

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[uuid.UUID]*queue.Entry),
		matches: make(map[uuid.UUID]queue.Match),
		byEntry: make(map[uuid.UUID]uuid.UUID),
		now:     time.Now,
	}
}

var (
	_ repository.QueueRepository = (*Store)(nil)
	_ repository.MatchRepository = (*Store)(nil)
)

func (s *Store) Join(_ context.Context, e queue.Entry) (queue.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ex := range s.entries {
		if ex.Status != queue.StatusWaiting {
			continue
		}
		if ex.UserID == e.UserID && ex.Role == e.Role &&
			ex.Profession == e.Profession && ex.Language == e.Language &&
			ex.SlotUTC.Equal(e.SlotUTC) {
			return *ex, false, nil
		}
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.JoinedAt.IsZero() {
		e.JoinedAt = s.now().UTC()
	}
	e.Status = queue.StatusWaiting
	stored := e
	s.entries[e.ID] = &stored
	return e, true, nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (queue.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return queue.Entry{}, repository.ErrEntryNotFound
	}
	return *e, nil
}

func (s *Store) Withdraw(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.Status != queue.StatusWaiting {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

func (s *Store) ListWaiting(_ context.Context, role queue.Role, bucket queue.BucketKey) ([]queue.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []queue.Entry
	for _, e := range s.entries {
		if e.Status != queue.StatusWaiting || e.Role != role {
			continue
		}
		if e.Profession != bucket.Profession || e.Language != bucket.Language || !e.SlotUTC.Equal(bucket.SlotUTC) {
			continue
		}
		out = append(out, *e)
	}
	sortByJoin(out)
	return out, nil
}

func (s *Store) ListSlots(_ context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.SlotCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[time.Time]int)
	for _, e := range s.entries {
		if !s.openMatches(e, role, profession, language, after) {
			continue
		}
		counts[e.SlotUTC]++
	}

	out := make([]queue.SlotCount, 0, len(counts))
	for slot, n := range counts {
		out = append(out, queue.SlotCount{SlotUTC: slot, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotUTC.Before(out[j].SlotUTC) })
	return out, nil
}

func (s *Store) ListOpenEntries(_ context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []queue.Entry
	for _, e := range s.entries {
		if !s.openMatches(e, role, profession, language, after) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SlotUTC.Equal(out[j].SlotUTC) {
			return out[i].SlotUTC.Before(out[j].SlotUTC)
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (s *Store) openMatches(e *queue.Entry, role queue.Role, profession, language string, after time.Time) bool {
	if e.Status != queue.StatusWaiting || e.Role != role {
		return false
	}
	if e.SlotUTC.Before(after) {
		return false
	}
	if profession != "" && e.Profession != profession {
		return false
	}
	if language != "" && e.Language != language {
		return false
	}
	return true
}

func (s *Store) ExpireBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, e := range s.entries {
		if e.Status == queue.StatusWaiting && e.SlotUTC.Before(cutoff) {
			e.Status = queue.StatusExpired
			n++
		}
	}
	return n, nil
}

func (s *Store) LiveBuckets(_ context.Context, after time.Time) ([]queue.BucketKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[queue.BucketKey]struct{})
	var out []queue.BucketKey
	for _, e := range s.entries {
		if e.Status != queue.StatusWaiting || e.SlotUTC.Before(after) {
			continue
		}
		k := e.Bucket()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SlotUTC.Equal(out[j].SlotUTC) {
			return out[i].SlotUTC.Before(out[j].SlotUTC)
		}
		if out[i].Profession != out[j].Profession {
			return out[i].Profession < out[j].Profession
		}
		return out[i].Language < out[j].Language
	})
	return out, nil
}

// CommitPair performs both waiting -> matched transitions and the match
// insert under one lock acquisition, the in-memory analogue of the Postgres
// transaction.
func (s *Store) CommitPair(_ context.Context, pair matching.Pair) (queue.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cand, ok := s.entries[pair.Candidate.ID]
	if !ok || cand.Status != queue.StatusWaiting {
		return queue.Match{}, repository.ErrPairConflict
	}
	ivr, ok := s.entries[pair.Interviewer.ID]
	if !ok || ivr.Status != queue.StatusWaiting {
		return queue.Match{}, repository.ErrPairConflict
	}

	cand.Status = queue.StatusMatched
	ivr.Status = queue.StatusMatched

	m := queue.Match{
		ID:            uuid.New(),
		CandidateID:   cand.ID,
		InterviewerID: ivr.ID,
		Profession:    cand.Profession,
		Language:      cand.Language,
		SlotUTC:       cand.SlotUTC,
		ToolOverlap:   pair.Overlap,
		Score:         pair.Score,
		CreatedAt:     s.now().UTC(),
	}
	s.matches[m.ID] = m
	s.byEntry[cand.ID] = m.ID
	s.byEntry[ivr.ID] = m.ID
	return m, nil
}

func (s *Store) FindByEntry(_ context.Context, entryID uuid.UUID) (queue.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mid, ok := s.byEntry[entryID]
	if !ok {
		return queue.Match{}, false, nil
	}
	return s.matches[mid], true, nil
}

// Matches returns a snapshot of all committed matches, for tests.
func (s *Store) Matches() []queue.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]queue.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func sortByJoin(entries []queue.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].JoinedAt.Equal(entries[j].JoinedAt) {
			return entries[i].JoinedAt.Before(entries[j].JoinedAt)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}
