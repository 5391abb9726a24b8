package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mockmate/internal/domain/matching"
	"mockmate/internal/domain/queue"
	"mockmate/internal/domain/slot"
	"mockmate/internal/infrastructure/cache"
	"mockmate/internal/repository"

	"github.com/google/uuid"
)

type JoinParams struct {
	UserID     string
	Role       string
	Profession string
	Language   string
	// Date carries the calendar day the wall-clock refers to; Hour and
	// Minute are the user's local time; Timezone is an IANA name.
	Date     time.Time
	Hour     int
	Minute   int
	Timezone string
	Tools    []string
}

type JoinResult struct {
	Entry   queue.Entry
	Created bool
	// Match is set when the eager post-join attempt paired this bucket.
	Match *queue.Match
}

type ListSlotsParams struct {
	Role       string
	Profession string
	Language   string
	// Tools is the caller's own tool set; when present each slot carries
	// the best score it could achieve against the listed entries.
	Tools []string
}

type EntryStatus struct {
	Entry queue.Entry
	Match *queue.Match
}

type QueueUsecase interface {
	Join(ctx context.Context, p JoinParams) (JoinResult, error)
	Withdraw(ctx context.Context, entryID uuid.UUID) error
	Status(ctx context.Context, entryID uuid.UUID) (EntryStatus, error)
	ListAvailableSlots(ctx context.Context, p ListSlotsParams) ([]queue.SlotCount, error)
}

type Queue struct {
	entries repository.QueueRepository
	matches repository.MatchRepository
	matcher MatchUsecase
	tags    queue.TagSet
	grid    slot.Grid
	cache   *cache.Redis
	logger  *log.Logger
	now     func() time.Time
}

func NewQueueUsecase(entries repository.QueueRepository, matches repository.MatchRepository, matcher MatchUsecase, tags queue.TagSet, grid slot.Grid, c *cache.Redis, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{
		entries: entries,
		matches: matches,
		matcher: matcher,
		tags:    tags,
		grid:    grid,
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

func (u *Queue) Join(ctx context.Context, p JoinParams) (JoinResult, error) {
	if p.UserID == "" {
		return JoinResult{}, fmt.Errorf("%w: missing user", ErrInvalidInput)
	}
	role, err := queue.ParseRole(p.Role)
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	profession, err := u.tags.Profession(p.Profession)
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	language, err := u.tags.Language(p.Language)
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	tools, err := u.tags.Tools(p.Tools)
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	date := p.Date
	if date.IsZero() {
		return JoinResult{}, fmt.Errorf("%w: missing date", ErrInvalidTimeInput)
	}
	slotUTC, err := u.grid.Normalize(p.Hour, p.Minute, p.Timezone, date)
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrInvalidTimeInput, err)
	}
	if slotUTC.Before(u.now().UTC()) {
		return JoinResult{}, ErrExpiredSlot
	}

	entry, created, err := u.entries.Join(ctx, queue.Entry{
		UserID:     p.UserID,
		Role:       role,
		Profession: profession,
		Language:   language,
		SlotUTC:    slotUTC,
		Tools:      tools,
	})
	if err != nil {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	if created {
		u.logger.Printf("queue join | user=%s role=%s bucket=%s tools=%d",
			entry.UserID, entry.Role, entry.Bucket(), len(entry.Tools))
		u.invalidateSlots(ctx)
	}

	res := JoinResult{Entry: entry, Created: created}

	// Eager pairing attempt. Failures here never fail the join: the sweep
	// and explicit RequestMatch calls will try again.
	if u.matcher != nil {
		if match, ok, err := u.matcher.TryMatchBucket(ctx, entry.Bucket()); err != nil {
			u.logger.Printf("eager match failed | bucket=%s err=%v", entry.Bucket(), err)
		} else if ok {
			res.Match = &match
			u.invalidateSlots(ctx)
		}
	}

	return res, nil
}

func (u *Queue) Withdraw(ctx context.Context, entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return fmt.Errorf("%w: missing entry id", ErrInvalidInput)
	}

	removed, err := u.entries.Withdraw(ctx, entryID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}
	if removed {
		u.logger.Printf("queue withdraw | entry=%s", entryID)
		u.invalidateSlots(ctx)
	}
	// Unknown or already-resolved entries are a successful no-op.
	return nil
}

func (u *Queue) Status(ctx context.Context, entryID uuid.UUID) (EntryStatus, error) {
	entry, err := u.entries.Get(ctx, entryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return EntryStatus{}, ErrEntryNotFound
	}
	if err != nil {
		return EntryStatus{}, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	st := EntryStatus{Entry: entry}
	if entry.Status == queue.StatusMatched {
		if match, found, err := u.matches.FindByEntry(ctx, entryID); err == nil && found {
			st.Match = &match
		}
	}
	return st, nil
}

func (u *Queue) ListAvailableSlots(ctx context.Context, p ListSlotsParams) ([]queue.SlotCount, error) {
	role, err := queue.ParseRole(p.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	profession := ""
	if p.Profession != "" {
		if profession, err = u.tags.Profession(p.Profession); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	}
	language := ""
	if p.Language != "" {
		if language, err = u.tags.Language(p.Language); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	}
	tools, err := u.tags.Tools(p.Tools)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	key := cache.SlotKey(string(role), profession, language, tools)
	var cached []queue.SlotCount
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	slots, err := u.aggregate(ctx, role, profession, language, tools)
	if err != nil {
		return nil, err
	}

	_ = u.cache.SetJSON(ctx, key, slots, 0)
	return slots, nil
}

// aggregate is the slot aggregator: per-slot waiting counts of the requested
// role, annotated with the best score the caller's tools reach against the
// entries in that slot. Read-only.
func (u *Queue) aggregate(ctx context.Context, role queue.Role, profession, language string, tools []string) ([]queue.SlotCount, error) {
	after := u.grid.Align(u.now().UTC())

	if len(tools) == 0 {
		slots, err := u.entries.ListSlots(ctx, role, profession, language, after)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
		}
		return slots, nil
	}

	open, err := u.entries.ListOpenEntries(ctx, role, profession, language, after)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	var out []queue.SlotCount
	for _, e := range open {
		if len(out) == 0 || !out[len(out)-1].SlotUTC.Equal(e.SlotUTC) {
			out = append(out, queue.SlotCount{SlotUTC: e.SlotUTC})
		}
		sc := &out[len(out)-1]
		sc.Count++
		if _, score := matching.Score(tools, e.Tools); score > sc.BestScore {
			sc.BestScore = score
		}
	}
	return out, nil
}

func (u *Queue) invalidateSlots(ctx context.Context) {
	if err := u.cache.InvalidateSlots(ctx); err != nil {
		u.logger.Printf("slot cache invalidate failed | err=%v", err)
	}
}
