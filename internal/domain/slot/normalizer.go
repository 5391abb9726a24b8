package slot

import (
	"errors"
	"time"
)

var ErrInvalidTimeInput = errors.New("invalid time input")

// Grid is the bucket width used for slot-key equality. Two availability
// submissions that land in the same bucket after UTC conversion are the same
// slot, regardless of the timezone they were expressed in.
type Grid struct {
	step time.Duration
}

const DefaultGridMinutes = 30

func NewGrid(minutes int) (Grid, error) {
	if minutes <= 0 || minutes > 24*60 || (24*60)%minutes != 0 {
		return Grid{}, ErrInvalidTimeInput
	}
	return Grid{step: time.Duration(minutes) * time.Minute}, nil
}

func (g Grid) Step() time.Duration {
	if g.step <= 0 {
		return DefaultGridMinutes * time.Minute
	}
	return g.step
}

// Normalize converts a local wall-clock time on a reference date into the
// grid-aligned UTC instant used as a slot key. The reference date's year,
// month and day are interpreted in the supplied timezone.
func (g Grid) Normalize(hour, minute int, tzName string, refDate time.Time) (time.Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, ErrInvalidTimeInput
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		return time.Time{}, ErrInvalidTimeInput
	}

	local := time.Date(refDate.Year(), refDate.Month(), refDate.Day(), hour, minute, 0, 0, loc)
	return local.UTC().Truncate(g.Step()), nil
}

// Align snaps an already-UTC instant onto the grid. Used when callers pass a
// slot key back in (RequestMatch, slot queries) so that a non-aligned input
// still addresses the bucket it falls in.
func (g Grid) Align(t time.Time) time.Time {
	return t.UTC().Truncate(g.Step())
}
