package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"mockmate/internal/delivery/http/dto"
	"mockmate/internal/domain/queue"
	"mockmate/internal/pkg/response"

	"github.com/google/uuid"
)

func matchBody(t *testing.T, strictness string) []byte {
	t.Helper()

	slotUTC := time.Now().UTC().AddDate(0, 0, 2).Truncate(24 * time.Hour).Add(10 * time.Hour)
	body, err := json.Marshal(map[string]any{
		"profession": "frontend",
		"language":   "en",
		"slot_utc":   slotUTC.Format(time.RFC3339),
		"strictness": strictness,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestRequestMatch_AfterEagerPairing(t *testing.T) {
	app, _ := testApp(t, "user-1")

	doJSON(t, app, http.MethodPost, "/api/v1/queue/", joinBody("candidate", 10))
	// Same slot from a different user on the other side. The eager join
	// trigger already pairs them, so the explicit request finds the
	// bucket empty and reports waiting; that is the idempotent path.
	doJSON(t, app, http.MethodPost, "/api/v1/queue/", joinBody("interviewer", 10), "X-Test-User", "user-2")

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/v1/matches", matchBody(t, "any"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var res dto.MatchAttemptResponse
	decodeData(t, envelope, &res)
	if res.Match != nil {
		t.Fatal("bucket was already drained by the eager trigger")
	}
	if envelope.Message != response.MessageWaiting {
		t.Fatalf("expected waiting message, got %q", envelope.Message)
	}
}

func TestRequestMatch_ExplicitTrigger(t *testing.T) {
	app, store := testApp(t, "user-1")

	// Seed both sides straight into the store so no eager join trigger
	// ran; the explicit request must do the pairing itself.
	slotUTC := time.Now().UTC().AddDate(0, 0, 2).Truncate(24 * time.Hour).Add(10 * time.Hour)
	for i, role := range []queue.Role{queue.RoleCandidate, queue.RoleInterviewer} {
		_, _, err := store.Join(context.Background(), queue.Entry{
			ID:         uuid.New(),
			UserID:     "seed-" + string(role),
			Role:       role,
			Profession: "frontend",
			Language:   "en",
			SlotUTC:    slotUTC,
			Tools:      []string{"react"},
			Status:     queue.StatusWaiting,
			JoinedAt:   time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed %s: %v", string(role), err)
		}
	}

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/v1/matches", matchBody(t, "any"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var res dto.MatchAttemptResponse
	decodeData(t, envelope, &res)
	if res.Match == nil {
		t.Fatal("expected the explicit request to pair the bucket")
	}
	if res.Match.Score != 1 || len(res.Match.ToolOverlap) != 1 {
		t.Fatalf("expected overlap [react], got %+v", res.Match)
	}
}

func TestRequestMatch_LoneEntry(t *testing.T) {
	app, _ := testApp(t, "user-1")

	doJSON(t, app, http.MethodPost, "/api/v1/queue/", joinBody("candidate", 10))

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/v1/matches", matchBody(t, "any"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var res dto.MatchAttemptResponse
	decodeData(t, envelope, &res)
	if res.Match != nil {
		t.Fatal("expected null match for a lone candidate")
	}
}

func TestRequestMatch_Validation(t *testing.T) {
	app, _ := testApp(t, "user-1")

	body, _ := json.Marshal(map[string]any{
		"profession": "astronaut",
		"language":   "en",
		"slot_utc":   time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
	})
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/matches", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown profession, got %d", resp.StatusCode)
	}

	body, _ = json.Marshal(map[string]any{
		"profession": "frontend",
		"language":   "en",
		"slot_utc":   time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
		"strictness": "telepathic",
	})
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/matches", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown strictness, got %d", resp.StatusCode)
	}
}
