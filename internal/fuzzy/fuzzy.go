// Package fuzzy scores how close a free-text query is to a candidate
// model string and bands the score into match tiers.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tier classifies a similarity score into a match band.
type Tier string

const (
	TierExact   Tier = "exact"
	TierPartial Tier = "partial"
	TierSimilar Tier = "similar"
	TierNone    Tier = "none"
)

// Score bands. Anything below SimilarFloor is not a match but may still
// feed the "did you mean" suggestion list.
const (
	ExactFloor   = 90
	PartialFloor = 70
	SimilarFloor = 50
)

var scoreSpaceRe = regexp.MustCompile(`\s+`)

func normalizeForScore(s string) string {
	return scoreSpaceRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), " ")
}

// Similarity returns a 0..100 score derived from normalized Levenshtein
// distance between a and b, case-insensitive and whitespace-normalized.
// Equal strings always score 100; the score floors at 0. Fractional
// scores truncate rather than round so a near-boundary score never
// crosses into a higher tier.
func Similarity(a, b string) int {
	na, nb := normalizeForScore(a), normalizeForScore(b)
	if na == nb {
		return 100
	}
	maxLen := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein(na, nb)
	score := (100 * (maxLen - dist)) / maxLen
	if score < 0 {
		return 0
	}
	return score
}

// ClassifyScore maps a similarity score to its tier.
func ClassifyScore(score int) Tier {
	switch {
	case score >= ExactFloor:
		return TierExact
	case score >= PartialFloor:
		return TierPartial
	case score >= SimilarFloor:
		return TierSimilar
	default:
		return TierNone
	}
}

// levenshtein computes edit distance with the standard two-row dynamic
// programming table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
