package queue

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnknownProfession = errors.New("unknown profession")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrInvalidTools      = errors.New("invalid tool set")
)

const (
	maxTools     = 32
	maxTagLength = 64
)

// TagSet validates boundary input against a fixed vocabulary. Professions and
// interview languages are closed sets; tools are open tags that only get
// normalized and bounded.
type TagSet struct {
	professions map[string]struct{}
	languages   map[string]struct{}
}

func NewTagSet(professions, languages []string) TagSet {
	return TagSet{
		professions: toSet(professions),
		languages:   toSet(languages),
	}
}

func (ts TagSet) Profession(s string) (string, error) {
	v := NormalizeTag(s)
	if v == "" {
		return "", ErrUnknownProfession
	}
	if _, ok := ts.professions[v]; !ok {
		return "", ErrUnknownProfession
	}
	return v, nil
}

func (ts TagSet) Language(s string) (string, error) {
	v := NormalizeTag(s)
	if v == "" {
		return "", ErrUnknownLanguage
	}
	if _, ok := ts.languages[v]; !ok {
		return "", ErrUnknownLanguage
	}
	return v, nil
}

// Tools normalizes a free-form tool list: lowercase, trimmed, deduplicated,
// sorted. Empty input is valid (score 0 under the "any" policy).
func (ts TagSet) Tools(in []string) ([]string, error) {
	if len(in) > maxTools {
		return nil, ErrInvalidTools
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := NormalizeTag(raw)
		if v == "" {
			continue
		}
		if len(v) > maxTagLength {
			return nil, ErrInvalidTools
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = NormalizeTag(v)
		if v == "" {
			continue
		}
		out[v] = struct{}{}
	}
	return out
}
