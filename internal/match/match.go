// Package match scores source-map keys against the keys a target type
// declares, so unknown-key errors can suggest the intended field.
package match

import "strings"

// Normalize case-folds a key and strips the common separators, so
// "Order_ID", "order-id" and "orderId" all compare equal.
func Normalize(s string) string {
	s = strings.ToLower(s)

	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		default:
			return r
		}
	}, s)
}

// Levenshtein computes the edit distance between two strings using the
// two-row rolling variant, O(len(a)*len(b)) time and O(min) space.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Score returns a normalized similarity between two keys after
// normalization: 1.0 for identical, 0.0 for entirely different.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	maxLen := max(len(na), len(nb))

	return 1.0 - float64(Levenshtein(na, nb))/float64(maxLen)
}

// suggestThreshold is the minimum similarity for a suggestion to be
// worth showing. A transposition in a five-letter key scores 0.6, so
// the bar sits there; anything lower shares too little to be a typo.
const suggestThreshold = 0.6

// Suggest returns the declared key most similar to got, when any
// candidate clears the threshold. Ties resolve to the first candidate
// in iteration order.
func Suggest(got string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0

	for _, c := range candidates {
		if s := Score(got, c); s > bestScore {
			best, bestScore = c, s
		}
	}

	if bestScore < suggestThreshold {
		return "", false
	}

	return best, true
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}

		return c
	}

	if b < c {
		return b
	}

	return c
}
