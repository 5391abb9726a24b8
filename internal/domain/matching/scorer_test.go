package matching

import (
	"reflect"
	"testing"
	"time"

	"mockmate/internal/domain/queue"

	"github.com/google/uuid"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		a, b    []string
		overlap []string
		score   int
	}{
		{"single shared", []string{"css", "react"}, []string{"react", "vue"}, []string{"react"}, 1},
		{"disjoint", []string{"react", "css"}, []string{"java", "spring"}, []string{}, 0},
		{"identical", []string{"go", "postgres"}, []string{"go", "postgres"}, []string{"go", "postgres"}, 2},
		{"empty left", nil, []string{"go"}, []string{}, 0},
		{"empty both", nil, nil, []string{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			overlap, score := Score(tc.a, tc.b)
			if score != tc.score {
				t.Fatalf("score: got %d, want %d", score, tc.score)
			}
			if !reflect.DeepEqual(overlap, tc.overlap) {
				t.Fatalf("overlap: got %v, want %v", overlap, tc.overlap)
			}

			// Symmetry.
			revOverlap, revScore := Score(tc.b, tc.a)
			if revScore != score || !reflect.DeepEqual(revOverlap, overlap) {
				t.Fatalf("asymmetric: (%v,%d) vs (%v,%d)", overlap, score, revOverlap, revScore)
			}
		})
	}
}

func TestStrictness_Eligible(t *testing.T) {
	cases := []struct {
		name       string
		policy     Strictness
		a, b       []string
		minPartial int
		want       bool
	}{
		{"any with no overlap", StrictnessAny, []string{"react"}, []string{"java"}, 2, true},
		{"any with empty sets", StrictnessAny, nil, nil, 2, true},
		{"partial below minimum", StrictnessPartial, []string{"react", "css"}, []string{"react", "vue"}, 2, false},
		{"partial at minimum", StrictnessPartial, []string{"react", "css"}, []string{"react", "css", "vue"}, 2, true},
		{"partial min 1", StrictnessPartial, []string{"react", "css"}, []string{"react", "vue"}, 1, true},
		{"exact subset", StrictnessExact, []string{"react"}, []string{"react", "css"}, 2, true},
		{"exact superset", StrictnessExact, []string{"react", "css"}, []string{"react"}, 2, true},
		{"exact identical", StrictnessExact, []string{"go"}, []string{"go"}, 2, true},
		{"exact partial overlap only", StrictnessExact, []string{"react", "css"}, []string{"react", "vue"}, 2, false},
		{"exact disjoint", StrictnessExact, []string{"react", "css"}, []string{"java", "spring"}, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.Eligible(tc.a, tc.b, tc.minPartial); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// Eligibility under exact implies eligibility under partial and any, for any
// non-empty pair whose containment meets the partial minimum.
func TestStrictness_Monotonic(t *testing.T) {
	pairs := [][2][]string{
		{{"react", "css"}, {"react", "css", "vue"}},
		{{"go", "postgres"}, {"go", "postgres"}},
		{{"java", "spring", "kafka"}, {"java", "spring", "kafka", "redis"}},
	}
	for _, p := range pairs {
		if !StrictnessExact.Eligible(p[0], p[1], 2) {
			t.Fatalf("pair %v/%v should be exact-eligible", p[0], p[1])
		}
		if !StrictnessPartial.Eligible(p[0], p[1], 2) {
			t.Fatalf("pair %v/%v exact-eligible but not partial-eligible", p[0], p[1])
		}
		if !StrictnessAny.Eligible(p[0], p[1], 2) {
			t.Fatalf("pair %v/%v exact-eligible but not any-eligible", p[0], p[1])
		}
	}
}

func TestParseStrictness(t *testing.T) {
	for in, want := range map[string]Strictness{
		"any":      StrictnessAny,
		"PARTIAL":  StrictnessPartial,
		" exact ":  StrictnessExact,
	} {
		got, err := ParseStrictness(in)
		if err != nil {
			t.Fatalf("%q: unexpected err %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
	}
	if _, err := ParseStrictness("loose"); err == nil {
		t.Fatal("expected error for unknown strictness")
	}
}

func entry(userID string, role queue.Role, joined time.Time, tools ...string) queue.Entry {
	return queue.Entry{
		ID:       uuid.New(),
		UserID:   userID,
		Role:     role,
		Tools:    tools,
		Status:   queue.StatusWaiting,
		JoinedAt: joined,
	}
}

func TestSelectPair_HighestScoreWins(t *testing.T) {
	base := time.Date(2025, 8, 22, 3, 0, 0, 0, time.UTC)

	candidates := []queue.Entry{
		entry("c1", queue.RoleCandidate, base, "react", "css"),
		entry("c2", queue.RoleCandidate, base.Add(time.Minute), "react", "css", "vue"),
	}
	interviewers := []queue.Entry{
		entry("i1", queue.RoleInterviewer, base, "react", "vue"),
	}

	pair, ok := SelectPair(candidates, interviewers, StrictnessAny, 0)
	if !ok {
		t.Fatal("expected a pair")
	}
	if pair.Candidate.UserID != "c2" {
		t.Fatalf("expected c2 (score 2), got %s (score %d)", pair.Candidate.UserID, pair.Score)
	}
	if pair.Score != 2 {
		t.Fatalf("expected score 2, got %d", pair.Score)
	}
}

func TestSelectPair_FIFOTieBreak(t *testing.T) {
	base := time.Date(2025, 8, 22, 3, 0, 0, 0, time.UTC)

	// Equal scores everywhere; the oldest candidate plus the oldest
	// interviewer must win.
	candidates := []queue.Entry{
		entry("c-old", queue.RoleCandidate, base, "react"),
		entry("c-new", queue.RoleCandidate, base.Add(time.Minute), "react"),
	}
	interviewers := []queue.Entry{
		entry("i-old", queue.RoleInterviewer, base.Add(2*time.Second), "react"),
		entry("i-new", queue.RoleInterviewer, base.Add(time.Hour), "react"),
	}

	pair, ok := SelectPair(candidates, interviewers, StrictnessAny, 0)
	if !ok {
		t.Fatal("expected a pair")
	}
	if pair.Candidate.UserID != "c-old" || pair.Interviewer.UserID != "i-old" {
		t.Fatalf("expected c-old/i-old, got %s/%s", pair.Candidate.UserID, pair.Interviewer.UserID)
	}
}

func TestSelectPair_NoEligible(t *testing.T) {
	base := time.Date(2025, 8, 22, 3, 0, 0, 0, time.UTC)

	candidates := []queue.Entry{entry("c1", queue.RoleCandidate, base, "react", "css")}
	interviewers := []queue.Entry{entry("i1", queue.RoleInterviewer, base, "java", "spring")}

	if _, ok := SelectPair(candidates, interviewers, StrictnessExact, 0); ok {
		t.Fatal("disjoint tool sets must not pair under exact")
	}
	if _, ok := SelectPair(candidates, nil, StrictnessAny, 0); ok {
		t.Fatal("empty interviewer side must not pair")
	}
}

func TestSelectPair_SkipsSelfPairing(t *testing.T) {
	base := time.Date(2025, 8, 22, 3, 0, 0, 0, time.UTC)

	candidates := []queue.Entry{entry("u1", queue.RoleCandidate, base, "react")}
	interviewers := []queue.Entry{entry("u1", queue.RoleInterviewer, base, "react")}

	if _, ok := SelectPair(candidates, interviewers, StrictnessAny, 0); ok {
		t.Fatal("a user must not be matched with themselves")
	}
}
