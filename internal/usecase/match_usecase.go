package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mockmate/internal/config"
	"mockmate/internal/domain/matching"
	"mockmate/internal/domain/queue"
	"mockmate/internal/domain/slot"
	"mockmate/internal/repository"
)

type RequestMatchParams struct {
	Profession string
	Language   string
	SlotUTC    time.Time
	Strictness string
}

type MatchUsecase interface {
	RequestMatch(ctx context.Context, p RequestMatchParams) (queue.Match, error)
	// TryMatchBucket is the internal trigger used after joins and by the
	// sweep; it applies the configured default strictness and treats
	// "no pair" as a quiet success.
	TryMatchBucket(ctx context.Context, bucket queue.BucketKey) (queue.Match, bool, error)
}

type Matcher struct {
	entries repository.QueueRepository
	matches repository.MatchRepository
	tags    queue.TagSet
	grid    slot.Grid

	defaultPolicy matching.Strictness
	minPartial    int
	retries       int

	logger *log.Logger
	now    func() time.Time
}

func NewMatcher(entries repository.QueueRepository, matches repository.MatchRepository, tags queue.TagSet, grid slot.Grid, cfg config.MatchingConfig, logger *log.Logger) *Matcher {
	policy, err := matching.ParseStrictness(cfg.DefaultStrictness)
	if err != nil {
		policy = matching.StrictnessAny
	}
	retries := cfg.CommitRetries
	if retries < 1 {
		retries = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{
		entries:       entries,
		matches:       matches,
		tags:          tags,
		grid:          grid,
		defaultPolicy: policy,
		minPartial:    cfg.MinPartialOverlap,
		retries:       retries,
		logger:        logger,
		now:           time.Now,
	}
}

func (m *Matcher) RequestMatch(ctx context.Context, p RequestMatchParams) (queue.Match, error) {
	profession, err := m.tags.Profession(p.Profession)
	if err != nil {
		return queue.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	language, err := m.tags.Language(p.Language)
	if err != nil {
		return queue.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	policy, err := matching.ParseStrictness(p.Strictness)
	if err != nil {
		return queue.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if p.SlotUTC.IsZero() {
		return queue.Match{}, fmt.Errorf("%w: missing slot", ErrInvalidInput)
	}

	bucket := queue.BucketKey{
		Profession: profession,
		Language:   language,
		SlotUTC:    m.grid.Align(p.SlotUTC),
	}
	if bucket.SlotUTC.Before(m.now().UTC()) {
		// Entries in a past bucket are expired or about to be; there is
		// nothing left to pair.
		return queue.Match{}, ErrNoEligiblePair
	}

	return m.attempt(ctx, bucket, policy)
}

func (m *Matcher) TryMatchBucket(ctx context.Context, bucket queue.BucketKey) (queue.Match, bool, error) {
	if bucket.SlotUTC.Before(m.now().UTC()) {
		return queue.Match{}, false, nil
	}

	match, err := m.attempt(ctx, bucket, m.defaultPolicy)
	if errors.Is(err, ErrNoEligiblePair) {
		return queue.Match{}, false, nil
	}
	if err != nil {
		return queue.Match{}, false, err
	}
	return match, true, nil
}

// attempt runs the select-then-commit loop. The commit is a compare-and-swap
// over both entry statuses: losing it means the bucket changed under us, so
// selection re-runs against fresh state, up to the configured retry count.
func (m *Matcher) attempt(ctx context.Context, bucket queue.BucketKey, policy matching.Strictness) (queue.Match, error) {
	for i := 0; i < m.retries; i++ {
		candidates, err := m.entries.ListWaiting(ctx, queue.RoleCandidate, bucket)
		if err != nil {
			return queue.Match{}, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
		}
		interviewers, err := m.entries.ListWaiting(ctx, queue.RoleInterviewer, bucket)
		if err != nil {
			return queue.Match{}, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
		}

		pair, ok := matching.SelectPair(candidates, interviewers, policy, m.minPartial)
		if !ok {
			return queue.Match{}, ErrNoEligiblePair
		}

		match, err := m.matches.CommitPair(ctx, pair)
		if errors.Is(err, repository.ErrPairConflict) {
			m.logger.Printf("match retry | bucket=%s attempt=%d", bucket, i+1)
			continue
		}
		if err != nil {
			return queue.Match{}, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
		}

		m.logger.Printf("match commit | bucket=%s score=%d candidate=%s interviewer=%s",
			bucket, match.Score, match.CandidateID, match.InterviewerID)
		return match, nil
	}

	return queue.Match{}, fmt.Errorf("%w: pairing contention in bucket %s", ErrStoreUnavailable, bucket)
}
