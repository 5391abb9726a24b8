package matching

import "sort"

// Score computes the tool overlap between two declared tool sets. The overlap
// is returned sorted so scoring is deterministic regardless of argument order.
// Score is symmetric: Score(a, b) == Score(b, a).
func Score(toolsA, toolsB []string) ([]string, int) {
	if len(toolsA) == 0 || len(toolsB) == 0 {
		return []string{}, 0
	}

	setA := make(map[string]struct{}, len(toolsA))
	for _, t := range toolsA {
		setA[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(toolsB))
	overlap := make([]string, 0, len(toolsB))
	for _, t := range toolsB {
		if _, ok := setA[t]; !ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		overlap = append(overlap, t)
	}

	sort.Strings(overlap)
	return overlap, len(overlap)
}

// isSubset reports whether every element of a is present in b.
func isSubset(a, b []string) bool {
	if len(a) > len(b) {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	for _, t := range a {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}
