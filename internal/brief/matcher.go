package brief

import (
	"regexp"
	"strings"
)

// debugTagRe matches one leading bracketed tag such as "[debug]" or "[test 2024-01-02]".
var debugTagRe = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)

// CleanLabel trims a freeform session label and strips any leading debug tags.
func CleanLabel(label string) string {
	for {
		loc := debugTagRe.FindStringIndex(label)
		if loc == nil {
			break
		}
		label = label[loc[1]:]
	}
	return strings.TrimSpace(label)
}

// matchTier ranks how a candidate label relates to a rotation entry.
// Lower values are stronger matches.
type matchTier int

const (
	tierExact matchTier = iota
	tierContainsEntry
	tierWithinEntry
	tierSharedToken
	tierNone
)

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(CleanLabel(s))), " ")
}

func significantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if !fillerTokens[tok] {
			out = append(out, tok)
		}
	}
	return out
}

func tierOf(candidate, entry string) matchTier {
	c, e := normalizeLabel(candidate), normalizeLabel(entry)
	if c == "" || e == "" {
		return tierNone
	}
	switch {
	case c == e:
		return tierExact
	case strings.Contains(c, e):
		return tierContainsEntry
	case strings.Contains(e, c):
		return tierWithinEntry
	}
	entryTokens := significantTokens(e)
	for _, ct := range significantTokens(c) {
		for _, et := range entryTokens {
			if ct == et {
				return tierSharedToken
			}
		}
	}
	return tierNone
}

// MatchesRotationEntry reports whether a freeform session label refers to a
// rotation entry: equal ignoring case, one contains the other, or they share
// a non-filler whitespace-delimited token.
func MatchesRotationEntry(candidate, entry string) bool {
	return tierOf(candidate, entry) != tierNone
}

// matchRotation returns the rotation index that best matches label, or -1.
// The strongest tier wins; within a tier the longest entry wins, then the
// lowest index.
func matchRotation(label string, days []string) int {
	best, bestTier, bestLen := -1, tierNone, 0
	for i, d := range days {
		tier := tierOf(label, d)
		if tier == tierNone {
			continue
		}
		n := len(normalizeLabel(d))
		if tier < bestTier || (tier == bestTier && n > bestLen) {
			best, bestTier, bestLen = i, tier, n
		}
	}
	return best
}

// classifyExercise returns the body-part group for an exercise name, or "".
func classifyExercise(name string) string {
	n := strings.ToLower(name)
	for _, g := range exerciseGroups {
		if strings.Contains(n, g.keyword) {
			return g.group
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
