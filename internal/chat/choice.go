package chat

import (
	"regexp"

	"github.com/thuong-9/pydoan/internal/grading"
)

var (
	letterChoice = regexp.MustCompile(`^([abcd])\s*[).:\-]?$`)
	digitChoice  = regexp.MustCompile(`^([1-4])$`)
)

// ParseQuizChoice resolves a reply to an option. It accepts a letter A-D,
// optionally followed by ")", ".", ":" or "-", a digit 1-4, or the option
// text itself ignoring case and spacing. ok is false when the reply names no
// option; text is then the raw reply.
func ParseQuizChoice(raw string, options []string) (idx int, text string, ok bool) {
	msg := grading.NormalizeChoice(raw)
	if msg == "" {
		return -1, "", false
	}
	if m := letterChoice.FindStringSubmatch(msg); m != nil {
		if i := int(m[1][0] - 'a'); i < len(options) {
			return i, options[i], true
		}
	}
	if m := digitChoice.FindStringSubmatch(msg); m != nil {
		if i := int(m[1][0] - '1'); i < len(options) {
			return i, options[i], true
		}
	}
	for i, opt := range options {
		if grading.NormalizeChoice(opt) == msg {
			return i, opt, true
		}
	}
	return -1, raw, false
}
