// Package fuzzy provides edit-distance matching for unknown-option
// suggestions ("did you mean --tags?").
package fuzzy

import "strings"

// minInputLength guards against suggesting anything for one-letter typos,
// where every candidate is equally plausible.
const minInputLength = 2

// FindBestOption returns the declared option name closest to input within
// maxDistance edits, or "" when nothing is close enough. Matching is
// case-insensitive; exact matches are not suggestions and return "".
func FindBestOption(input string, candidates []string, maxDistance int) string {
	if len(input) < minInputLength {
		return ""
	}
	input = strings.ToLower(input)

	best := ""
	bestDistance := maxDistance + 1
	bestPrefix := -1

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			continue
		}

		d := distance(input, lower, maxDistance)
		if d > maxDistance {
			continue
		}

		// Prefer smaller distance; break ties on the longer common prefix.
		p := commonPrefixLength(input, lower)
		if d < bestDistance || (d == bestDistance && p > bestPrefix) {
			best = candidate
			bestDistance = d
			bestPrefix = p
		}
	}
	return best
}

// distance computes the Levenshtein distance between a and b, returning
// maxDistance+1 as soon as the result is known to exceed maxDistance.
func distance(a, b string, maxDistance int) int {
	if abs(len(a)-len(b)) > maxDistance {
		return maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for i := 1; i <= len(b); i++ {
		current[0] = i
		rowMin := i

		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			current[j] = minThree(
				current[j-1]+1,     // insertion
				previous[j]+1,      // deletion
				previous[j-1]+cost, // substitution
			)
			if current[j] < rowMin {
				rowMin = current[j]
			}
		}

		if rowMin > maxDistance {
			return maxDistance + 1
		}
		previous, current = current, previous
	}
	return previous[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func minThree(a, b, c int) int {
	return min(min(a, b), c)
}
