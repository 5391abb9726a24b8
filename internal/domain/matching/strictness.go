package matching

import (
	"errors"
	"strings"
)

// Strictness is the compatibility rule applied before a candidate/interviewer
// pair may be matched.
type Strictness string

const (
	// StrictnessAny pairs on time/profession/language alone; zero tool
	// overlap is acceptable.
	StrictnessAny Strictness = "any"
	// StrictnessPartial requires at least MinPartialOverlap shared tools.
	StrictnessPartial Strictness = "partial"
	// StrictnessExact requires one tool set to contain the other.
	StrictnessExact Strictness = "exact"
)

const DefaultMinPartialOverlap = 2

var ErrUnknownStrictness = errors.New("unknown strictness")

func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case StrictnessAny:
		return StrictnessAny, nil
	case StrictnessPartial:
		return StrictnessPartial, nil
	case StrictnessExact:
		return StrictnessExact, nil
	default:
		return "", ErrUnknownStrictness
	}
}

// Eligible reports whether a pair with the given tool sets passes the policy.
// minPartial only applies to StrictnessPartial; values below 1 fall back to
// DefaultMinPartialOverlap.
func (s Strictness) Eligible(toolsA, toolsB []string, minPartial int) bool {
	switch s {
	case StrictnessAny:
		return true
	case StrictnessPartial:
		if minPartial < 1 {
			minPartial = DefaultMinPartialOverlap
		}
		_, n := Score(toolsA, toolsB)
		return n >= minPartial
	case StrictnessExact:
		return isSubset(toolsA, toolsB) || isSubset(toolsB, toolsA)
	default:
		return false
	}
}
