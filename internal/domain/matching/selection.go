package matching

import (
	"mockmate/internal/domain/queue"
)

// Pair is a candidate/interviewer pairing proposed by SelectPair. It carries
// the score so the commit step does not have to recompute it.
type Pair struct {
	Candidate   queue.Entry
	Interviewer queue.Entry
	Overlap     []string
	Score       int
}

// SelectPair picks the best eligible pair from a bucket's waiting entries.
// Highest score wins; ties break on the earliest candidate JoinedAt, then the
// earliest interviewer JoinedAt, so the result is deterministic and FIFO-fair.
// Callers must pass slices already ordered by JoinedAt ascending (the store's
// ListWaiting contract); the second return is false when no pair is eligible.
func SelectPair(candidates, interviewers []queue.Entry, policy Strictness, minPartial int) (Pair, bool) {
	var best Pair
	found := false

	for _, cand := range candidates {
		for _, ivr := range interviewers {
			if cand.UserID == ivr.UserID {
				continue
			}
			if !policy.Eligible(cand.Tools, ivr.Tools, minPartial) {
				continue
			}

			overlap, score := Score(cand.Tools, ivr.Tools)
			p := Pair{Candidate: cand, Interviewer: ivr, Overlap: overlap, Score: score}
			if !found || better(p, best) {
				best = p
				found = true
			}
		}
	}

	return best, found
}

func better(a, b Pair) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Candidate.JoinedAt.Equal(b.Candidate.JoinedAt) {
		return a.Candidate.JoinedAt.Before(b.Candidate.JoinedAt)
	}
	return a.Interviewer.JoinedAt.Before(b.Interviewer.JoinedAt)
}
