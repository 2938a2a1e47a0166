package grading

import (
	"strings"
	"unicode"

	"github.com/thuong-9/pydoan/internal/similarity"
)

// NormalizeAnswer lower-cases s and keeps only ASCII letters, digits and
// apostrophes, with single spaces between words.
func NormalizeAnswer(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

// NormalizeChoice lower-cases s and collapses whitespace.
func NormalizeChoice(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

// AnswerSimilarity is the lexical ratio of the normalized answers, 0 when
// either side normalizes to nothing.
func AnswerSimilarity(a, b string) float64 {
	a, b = NormalizeAnswer(a), NormalizeAnswer(b)
	if a == "" || b == "" {
		return 0
	}
	return similarity.Ratio(a, b)
}

// MatchesWord accepts an exact normalized match or a close spelling.
func MatchesWord(answer, want string, threshold float64) bool {
	a, w := NormalizeAnswer(answer), NormalizeAnswer(want)
	if a == w {
		return a != ""
	}
	return AnswerSimilarity(a, w) >= threshold
}
