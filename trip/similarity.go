package trip

import (
	"strings"
	"unicode"
)

// DefaultMatchThreshold is the minimum similarity score for a fuzzy
// match against a stop name to be accepted.
const DefaultMatchThreshold = 0.5

// normalizeName lowercases a name and strips spaces and punctuation so
// that "Haeundae Beach!" and "haeundae beach" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity returns a score in [0, 1] for two place names. Names are
// normalized first. Substring containment in either direction is treated
// as a perfect match (1.0); otherwise the score is the classic
// sequence-matcher ratio 2*LCS/(len(a)+len(b)).
func Similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1.0
	}
	lcs := longestCommonSubsequence(na, nb)
	return 2.0 * float64(lcs) / float64(len(na)+len(nb))
}

// longestCommonSubsequence computes the LCS length over bytes of the
// normalized names using a rolling single-row table.
func longestCommonSubsequence(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// MatchStop fuzzy-matches target against the stop list and returns the
// index of the best match at or above threshold. The second return is
// false when nothing qualifies.
func MatchStop(stops []Stop, target string, threshold float64) (int, bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, s := range stops {
		score := Similarity(s.Name, target)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < threshold {
		return -1, false
	}
	return bestIdx, true
}
