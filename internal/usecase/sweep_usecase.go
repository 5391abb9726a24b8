package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"mockmate/internal/repository"
)

// Sweeper is the periodic maintenance pass: it expires waiting entries whose
// slot has passed, then re-attempts pairing in every bucket that still holds
// waiting entries. Both steps are idempotent, so overlapping runs and the
// eager join-time trigger are safe together.
type Sweeper struct {
	entries repository.QueueRepository
	matcher MatchUsecase
	logger  *log.Logger
	now     func() time.Time
}

func NewSweeper(entries repository.QueueRepository, matcher MatchUsecase, logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = log.Default()
	}
	return &Sweeper{entries: entries, matcher: matcher, logger: logger, now: time.Now}
}

func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now().UTC()

	expired, err := s.entries.ExpireBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}
	if expired > 0 {
		s.logger.Printf("sweep expire | entries=%d", expired)
	}

	buckets, err := s.entries.LiveBuckets(ctx, now)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	var matched int
	for _, bucket := range buckets {
		// Keep pairing inside a bucket until it runs dry; every commit
		// may unlock nothing further, but a deep bucket can yield
		// several matches per sweep.
		for {
			_, ok, err := s.matcher.TryMatchBucket(ctx, bucket)
			if err != nil {
				s.logger.Printf("sweep match failed | bucket=%s err=%v", bucket, err)
				break
			}
			if !ok {
				break
			}
			matched++
		}
	}

	if matched > 0 {
		s.logger.Printf("sweep match | matches=%d buckets=%d", matched, len(buckets))
	}
	return nil
}
