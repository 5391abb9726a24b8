package usecase

import "errors"

var (
	// ErrInvalidInput covers malformed tags, roles and strictness values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTimeInput covers out-of-range wall-clock values and
	// unrecognized timezones.
	ErrInvalidTimeInput = errors.New("invalid time input")
	// ErrExpiredSlot rejects joining a slot that is already in the past.
	ErrExpiredSlot = errors.New("slot already in the past")
	// ErrEntryNotFound is benign: the entry was never queued or already
	// resolved.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNoEligiblePair is the normal "still waiting" outcome, not a
	// failure.
	ErrNoEligiblePair = errors.New("no eligible pair")
	// ErrStoreUnavailable wraps transient store failures; the caller may
	// retry, no partial state was written.
	ErrStoreUnavailable = errors.New("store unavailable")
)
