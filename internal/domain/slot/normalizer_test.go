package slot

import (
	"errors"
	"testing"
	"time"
)

func mustGrid(t *testing.T, minutes int) Grid {
	t.Helper()
	g, err := NewGrid(minutes)
	if err != nil {
		t.Fatalf("NewGrid(%d): %v", minutes, err)
	}
	return g
}

func TestNewGrid_RejectsNonDivisors(t *testing.T) {
	for _, minutes := range []int{0, -1, 7, 1441} {
		if _, err := NewGrid(minutes); !errors.Is(err, ErrInvalidTimeInput) {
			t.Fatalf("NewGrid(%d): expected ErrInvalidTimeInput, got %v", minutes, err)
		}
	}
	for _, minutes := range []int{1, 15, 30, 60} {
		if _, err := NewGrid(minutes); err != nil {
			t.Fatalf("NewGrid(%d): unexpected err %v", minutes, err)
		}
	}
}

func TestNormalize_ConvertsToUTC(t *testing.T) {
	g := mustGrid(t, 30)
	ref := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)

	// 07:00 in Moscow (UTC+3) is 04:00 UTC.
	got, err := g.Normalize(7, 0, "Europe/Moscow", ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := time.Date(2025, 8, 22, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalize_GridCollision(t *testing.T) {
	g := mustGrid(t, 30)
	ref := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)

	a, err := g.Normalize(10, 0, "UTC", ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := g.Normalize(10, 20, "UTC", ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("10:00 and 10:20 should share a 30-minute bucket: %v vs %v", a, b)
	}

	c, err := g.Normalize(10, 30, "UTC", ref)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Equal(c) {
		t.Fatalf("10:00 and 10:30 should not share a bucket")
	}
}

func TestNormalize_RoundTripIdempotent(t *testing.T) {
	g := mustGrid(t, 30)
	ref := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)

	zones := []string{"UTC", "Europe/Moscow", "America/New_York", "Asia/Tokyo", "Australia/Eucla"}
	for _, tz := range zones {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			t.Fatalf("load %s: %v", tz, err)
		}
		for hour := 0; hour < 24; hour += 3 {
			key, err := g.Normalize(hour, 0, tz, ref)
			if err != nil {
				t.Fatalf("%s %02d:00: %v", tz, hour, err)
			}

			// Read the slot back in the original timezone, re-submit the
			// wall-clock it shows, and expect the same key.
			back := key.In(loc)
			again, err := g.Normalize(back.Hour(), back.Minute(), tz, back)
			if err != nil {
				t.Fatalf("%s re-normalize: %v", tz, err)
			}
			if !key.Equal(again) {
				t.Fatalf("%s %02d:00: round trip changed key %v -> %v", tz, hour, key, again)
			}
		}
	}
}

func TestNormalize_Invalid(t *testing.T) {
	g := mustGrid(t, 30)
	ref := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		hour   int
		minute int
		tz     string
	}{
		{"hour high", 24, 0, "UTC"},
		{"hour negative", -1, 0, "UTC"},
		{"minute high", 10, 60, "UTC"},
		{"minute negative", 10, -5, "UTC"},
		{"unknown tz", 10, 0, "Mars/Olympus_Mons"},
		{"empty tz", 10, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.Normalize(tc.hour, tc.minute, tc.tz, ref); !errors.Is(err, ErrInvalidTimeInput) {
				t.Fatalf("expected ErrInvalidTimeInput, got %v", err)
			}
		})
	}
}

func TestAlign_SnapsToBucket(t *testing.T) {
	g := mustGrid(t, 30)
	in := time.Date(2025, 8, 22, 4, 17, 42, 0, time.UTC)
	want := time.Date(2025, 8, 22, 4, 0, 0, 0, time.UTC)
	if got := g.Align(in); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
