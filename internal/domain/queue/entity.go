package queue

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusMatched Status = "matched"
	StatusExpired Status = "expired"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCandidate:
		return RoleCandidate, nil
	case RoleInterviewer:
		return RoleInterviewer, nil
	default:
		return "", ErrUnknownRole
	}
}

// Opposite returns the counterpart role a matchable pair needs.
func (r Role) Opposite() Role {
	if r == RoleCandidate {
		return RoleInterviewer
	}
	return RoleCandidate
}

type Entry struct {
	ID         uuid.UUID
	UserID     string
	Role       Role
	Profession string
	Language   string
	SlotUTC    time.Time
	Tools      []string
	Status     Status
	JoinedAt   time.Time
}

// BucketKey identifies the group of entries a match is drawn from. Role is
// deliberately not part of the key: a bucket holds both sides.
type BucketKey struct {
	Profession string
	Language   string
	SlotUTC    time.Time
}

func (e Entry) Bucket() BucketKey {
	return BucketKey{Profession: e.Profession, Language: e.Language, SlotUTC: e.SlotUTC}
}

func (k BucketKey) String() string {
	return k.Profession + "/" + k.Language + "@" + k.SlotUTC.UTC().Format(time.RFC3339)
}

type Match struct {
	ID            uuid.UUID
	CandidateID   uuid.UUID
	InterviewerID uuid.UUID
	Profession    string
	Language      string
	SlotUTC       time.Time
	ToolOverlap   []string
	Score         int
	CreatedAt     time.Time
}

// SlotCount is one row of the slot discovery aggregation.
type SlotCount struct {
	SlotUTC   time.Time
	Count     int
	BestScore int
}
