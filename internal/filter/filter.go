// Package filter deduplicates the candidate spans of a rule layer.
//
// A candidate is dropped when its (start, end) key was accepted by the
// immediately preceding layer, or when an earlier candidate of the same
// layer already carried that key. The first occurrence wins and relative
// order is preserved. Only keys are compared: overlapping spans with
// distinct keys all survive.
package filter

import "github.com/ppiankov/fastbunkai/internal/model"

// PreviousRuleSameSpan returns the candidates of current whose keys are
// neither in previous nor repeated earlier in current
func PreviousRuleSameSpan(previous []model.SpanKey, current []model.Span) []model.Span {
	if len(current) == 0 {
		return []model.Span{}
	}

	prev := keySet(previous)
	seen := make(map[model.SpanKey]struct{}, len(current))

	// Collect indices first; spans are copied only once accepted.
	kept := make([]int, 0, len(current))
	for i := range current {
		key := current[i].Key()
		if _, dup := prev[key]; dup {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, i)
	}

	out := make([]model.Span, len(kept))
	for j, i := range kept {
		out[j] = current[i]
	}
	return out
}

// Keys applies the same filter to bare keys
func Keys(previous, current []model.SpanKey) []model.SpanKey {
	prev := keySet(previous)
	seen := make(map[model.SpanKey]struct{}, len(current))

	out := make([]model.SpanKey, 0, len(current))
	for _, key := range current {
		if _, dup := prev[key]; dup {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// CountKept returns len(previous) plus the number of current keys the
// filter accepts, i.e. the size of both layers taken together
func CountKept(previous, current []model.SpanKey) int {
	prev := keySet(previous)
	seen := make(map[model.SpanKey]struct{}, len(current))

	filtered := 0
	for _, key := range current {
		if _, dup := prev[key]; dup {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		filtered++
	}
	return filtered + len(previous)
}

func keySet(keys []model.SpanKey) map[model.SpanKey]struct{} {
	set := make(map[model.SpanKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
