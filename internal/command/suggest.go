package command

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggestion policy: candidates whose similarity to the unknown input
// exceeds the threshold, at most maxSuggestions, in registry order.
const (
	suggestionThreshold = 0.6
	maxSuggestions      = 3
)

// similarity normalizes edit distance into [0,1]: 1 - distance over the
// longer rune length.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// suggestions returns close matches for an unrecognized key.
func (r *Registry) suggestions(key string) []string {
	var out []string
	for _, candidate := range r.Keys() {
		if similarity(key, candidate) > suggestionThreshold {
			out = append(out, candidate)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}
