package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mockmate/internal/domain/matching"
	"mockmate/internal/domain/queue"
	"mockmate/internal/repository"

	"github.com/google/uuid"
)

var slotA = time.Date(2025, 8, 22, 4, 0, 0, 0, time.UTC)

func waiting(userID string, role queue.Role, tools ...string) queue.Entry {
	return queue.Entry{
		UserID:     userID,
		Role:       role,
		Profession: "frontend",
		Language:   "ru",
		SlotUTC:    slotA,
		Tools:      tools,
	}
}

func TestJoin_Idempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, created, err := s.Join(ctx, waiting("u1", queue.RoleCandidate, "react"))
	if err != nil || !created {
		t.Fatalf("first join: created=%v err=%v", created, err)
	}

	second, created, err := s.Join(ctx, waiting("u1", queue.RoleCandidate, "react"))
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if created {
		t.Fatal("second join must not create a new entry")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same entry id, got %s vs %s", second.ID, first.ID)
	}

	// A different slot is a separate entry.
	other := waiting("u1", queue.RoleCandidate, "react")
	other.SlotUTC = slotA.Add(time.Hour)
	_, created, err = s.Join(ctx, other)
	if err != nil || !created {
		t.Fatalf("different-slot join: created=%v err=%v", created, err)
	}
}

func TestWithdraw_Benign(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	e, _, err := s.Join(ctx, waiting("u1", queue.RoleCandidate))
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	removed, err := s.Withdraw(ctx, e.ID)
	if err != nil || !removed {
		t.Fatalf("withdraw: removed=%v err=%v", removed, err)
	}

	removed, err = s.Withdraw(ctx, e.ID)
	if err != nil {
		t.Fatalf("second withdraw: %v", err)
	}
	if removed {
		t.Fatal("withdrawing an absent entry must be a no-op")
	}

	removed, err = s.Withdraw(ctx, uuid.New())
	if err != nil || removed {
		t.Fatalf("unknown id: removed=%v err=%v", removed, err)
	}
}

func TestListWaiting_OrderedByJoin(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	base := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	for i, user := range []string{"late", "early", "middle"} {
		e := waiting(user, queue.RoleCandidate)
		switch i {
		case 0:
			e.JoinedAt = base.Add(2 * time.Minute)
		case 1:
			e.JoinedAt = base
		case 2:
			e.JoinedAt = base.Add(time.Minute)
		}
		if _, _, err := s.Join(ctx, e); err != nil {
			t.Fatalf("join %s: %v", user, err)
		}
	}

	got, err := s.ListWaiting(ctx, queue.RoleCandidate, queue.BucketKey{Profession: "frontend", Language: "ru", SlotUTC: slotA})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"early", "middle", "late"} {
		if got[i].UserID != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].UserID, want)
		}
	}
}

func TestCommitPair_ConflictOnReuse(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	cand, _, _ := s.Join(ctx, waiting("c1", queue.RoleCandidate, "react"))
	ivr, _, _ := s.Join(ctx, waiting("i1", queue.RoleInterviewer, "react"))
	pair := matching.Pair{Candidate: cand, Interviewer: ivr, Overlap: []string{"react"}, Score: 1}

	if _, err := s.CommitPair(ctx, pair); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if _, err := s.CommitPair(ctx, pair); !errors.Is(err, repository.ErrPairConflict) {
		t.Fatalf("second commit: expected ErrPairConflict, got %v", err)
	}

	got, err := s.Get(ctx, cand.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != queue.StatusMatched {
		t.Fatalf("candidate status: got %s", got.Status)
	}
}

func TestCommitPair_ConflictAfterWithdraw(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	cand, _, _ := s.Join(ctx, waiting("c1", queue.RoleCandidate, "react"))
	ivr, _, _ := s.Join(ctx, waiting("i1", queue.RoleInterviewer, "react"))

	if _, err := s.Withdraw(ctx, cand.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	pair := matching.Pair{Candidate: cand, Interviewer: ivr}
	if _, err := s.CommitPair(ctx, pair); !errors.Is(err, repository.ErrPairConflict) {
		t.Fatalf("expected ErrPairConflict, got %v", err)
	}

	// The interviewer side must be untouched.
	got, err := s.Get(ctx, ivr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != queue.StatusWaiting {
		t.Fatalf("interviewer status: got %s, want waiting", got.Status)
	}
}

// Many goroutines racing CommitPair over the same two entries must produce
// exactly one match.
func TestCommitPair_AtMostOnceUnderRace(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	cand, _, _ := s.Join(ctx, waiting("c1", queue.RoleCandidate, "react"))
	ivr, _, _ := s.Join(ctx, waiting("i1", queue.RoleInterviewer, "react"))
	pair := matching.Pair{Candidate: cand, Interviewer: ivr, Overlap: []string{"react"}, Score: 1}

	const attempts = 64
	var wg sync.WaitGroup
	committed := make(chan queue.Match, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m, err := s.CommitPair(ctx, pair); err == nil {
				committed <- m
			}
		}()
	}
	wg.Wait()
	close(committed)

	var n int
	for range committed {
		n++
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 committed match, got %d", n)
	}
	if len(s.Matches()) != 1 {
		t.Fatalf("store holds %d matches, want 1", len(s.Matches()))
	}
}

func TestExpireBefore(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	past := waiting("u1", queue.RoleCandidate)
	past.SlotUTC = slotA.Add(-48 * time.Hour)
	pastEntry, _, _ := s.Join(ctx, past)
	future, _, _ := s.Join(ctx, waiting("u2", queue.RoleCandidate))

	n, err := s.ExpireBefore(ctx, slotA.Add(-time.Hour))
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}

	got, _ := s.Get(ctx, pastEntry.ID)
	if got.Status != queue.StatusExpired {
		t.Fatalf("past entry status: got %s", got.Status)
	}
	got, _ = s.Get(ctx, future.ID)
	if got.Status != queue.StatusWaiting {
		t.Fatalf("future entry status: got %s", got.Status)
	}

	// Expired entries no longer appear in slot listings.
	slots, err := s.ListSlots(ctx, queue.RoleCandidate, "", "", slotA.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if len(slots) != 1 || !slots[0].SlotUTC.Equal(slotA) {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestFindByEntry(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	cand, _, _ := s.Join(ctx, waiting("c1", queue.RoleCandidate, "react"))
	ivr, _, _ := s.Join(ctx, waiting("i1", queue.RoleInterviewer, "react"))

	if _, found, err := s.FindByEntry(ctx, cand.ID); err != nil || found {
		t.Fatalf("before commit: found=%v err=%v", found, err)
	}

	m, err := s.CommitPair(ctx, matching.Pair{Candidate: cand, Interviewer: ivr, Overlap: []string{"react"}, Score: 1})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	for _, id := range []uuid.UUID{cand.ID, ivr.ID} {
		got, found, err := s.FindByEntry(ctx, id)
		if err != nil || !found {
			t.Fatalf("after commit: found=%v err=%v", found, err)
		}
		if got.ID != m.ID {
			t.Fatalf("match id mismatch: got %s, want %s", got.ID, m.ID)
		}
	}
}
