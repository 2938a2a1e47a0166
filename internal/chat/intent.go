package chat

import (
	"strings"
	"unicode"

	"github.com/thuong-9/pydoan/internal/translate"
)

var canned = map[string]string{
	"tên bạn là gì": "Tớ là Robo English!",
	"hello":         "Hello! Chào bé.",
	"hi":            "Hi there!",
	"xin chào":      "Chào bé ngoan!",
}

var (
	stopWords = []string{"stop", "dừng", "thoát", "reset"}
	helpWords = []string{"help", "giúp", "giúp đỡ", "hướng dẫn"}

	translateMarkers = []string{"dịch", "nghĩa là", "tiếng anh là", "tiếng việt là"}

	// Longer phrases first so "dịch câu" is removed before "dịch".
	translateNoise = []string{
		"dịch câu", "dịch từ", "dịch sang tiếng anh", "dịch sang tiếng việt",
		"dịch", "nghĩa là gì", "nghĩa là", "là gì", "tiếng anh là",
		"tiếng việt là", "tiếng anh", "tiếng việt",
	}
)

// drill start keywords in priority order.
var startKeywords = []struct {
	category string
	words    []string
}{
	{CategoryVocab, []string{"từ vựng", "vocab"}},
	{CategoryGrammar, []string{"ngữ pháp", "grammar"}},
	{CategoryPronounce, []string{"phát âm", "luyện nói", "pronounce"}},
	{CategoryMissing, []string{"điền", "missing", "fill"}},
	{CategoryQuiz, []string{"kiểm tra", "quiz", "test"}},
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// startCategory returns the drill a message asks to start, or "".
func startCategory(msg string) string {
	for _, k := range startKeywords {
		if containsAny(msg, k.words) {
			return k.category
		}
		if k.category == CategoryGrammar && strings.HasPrefix(msg, "viết câu") {
			return k.category
		}
	}
	return ""
}

func wantsTranslation(msg string) bool {
	return containsAny(msg, translateMarkers)
}

// translationRequest strips the intent phrases from msg and decides the
// target language. msg must already be lower-cased.
func translationRequest(msg string) (text string, target translate.Target) {
	text = msg
	for _, kw := range translateNoise {
		text = strings.ReplaceAll(text, kw, "")
	}
	text = strings.TrimFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, prefix := range []string{"của ", "cua "} {
		if rest, ok := strings.CutPrefix(text, prefix); ok {
			text = strings.TrimSpace(rest)
			break
		}
	}

	switch {
	case strings.Contains(msg, "nghĩa là") || strings.Contains(msg, "tiếng việt"):
		target = translate.Vietnamese
	case strings.Contains(msg, "tiếng anh"):
		target = translate.English
	case isVietnamese(text):
		target = translate.English
	default:
		target = translate.Vietnamese
	}
	return text, target
}

const vietnameseLetters = "àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ"

// isVietnamese reports whether s contains a Vietnamese-only letter.
func isVietnamese(s string) bool {
	return strings.ContainsAny(strings.ToLower(s), vietnameseLetters)
}
