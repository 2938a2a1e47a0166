package similarity

import (
	"context"
	"math"
	"strings"
)

// Scorer measures how alike two texts are, in [0,1].
type Scorer interface {
	Similarity(ctx context.Context, a, b string) float64
}

// Percent converts a similarity to a 0..100 score.
func Percent(sim float64) int {
	if math.IsNaN(sim) || sim <= 0 {
		return 0
	}
	p := int(math.Round(sim * 100))
	if p > 100 {
		return 100
	}
	return p
}

// Lexical compares characters of the lower-cased, trimmed inputs.
type Lexical struct{}

func (Lexical) Similarity(_ context.Context, a, b string) float64 {
	return Ratio(strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b)))
}

// Ratio is 2*M/T where M is the number of characters in the longest
// matching blocks (found recursively left and right of each longest common
// substring) and T the total length of both strings. Two empty strings are
// identical.
func Ratio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchedRunes(ar, br)) / float64(total)
}

func matchedRunes(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	matched := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch returns the earliest longest block a[i:i+k] == b[j:j+k]
// inside the given bounds.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestk := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
