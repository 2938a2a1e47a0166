// Package picker chooses practice items without repeating them until every
// candidate has been seen, and builds fill-in-the-blank words.
package picker

import (
	"slices"
	"strings"
)

// Rand is the part of *rand.Rand (math/rand/v2) the picker needs.
type Rand interface {
	IntN(n int) int
}

// AskedSet records, per category, the indices issued in the current cycle.
type AskedSet map[string][]int

// Seen reports whether idx was already issued for category in this cycle.
func (a AskedSet) Seen(category string, idx int) bool {
	return slices.Contains(a[category], idx)
}

// PickNonRepeating picks uniformly among candidates not yet asked for
// category. When all have been asked the category starts a new cycle. The
// pick is recorded in asked. It returns false only for empty candidates.
func PickNonRepeating(asked AskedSet, category string, candidates []int, rnd Rand) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	remaining := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if !asked.Seen(category, c) {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		asked[category] = asked[category][:0]
		remaining = append(remaining, candidates...)
	}
	picked := remaining[rnd.IntN(len(remaining))]
	asked[category] = append(asked[category], picked)
	return picked, true
}

// MaskWord blanks a few inner letters of word with '_' and spaces the
// characters apart so the blanks are easy to count. Only ASCII letters are
// considered; the first and last letters always stay visible. Words with two
// letters or fewer are returned unchanged. The result depends only on word.
func MaskWord(word string) string {
	chars := []rune(word)
	var letters []int
	seed := 0
	for i, c := range chars {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			letters = append(letters, i)
		}
		seed = (seed + int(c)) % 997
	}
	if len(letters) <= 2 {
		return word
	}

	inner := letters[1 : len(letters)-1]
	target := max(1, min(3, len(letters)/3))
	picked := map[int]bool{}
	for tries := 0; len(picked) < target && tries < 50; tries++ {
		picked[inner[(seed+tries*17)%len(inner)]] = true
	}

	parts := make([]string, len(chars))
	for i, c := range chars {
		if picked[i] {
			parts[i] = "_"
		} else {
			parts[i] = string(c)
		}
	}
	return strings.Join(parts, " ")
}
