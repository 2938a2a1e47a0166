// Package grammarcheck finds grammar and spelling issues in a learner's
// English answer.
package grammarcheck

import (
	"context"
	"fmt"
)

// Match is one issue found in the checked text.
type Match struct {
	Message      string   `json:"message"`
	Replacements []string `json:"replacements,omitempty"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	RuleID       string   `json:"rule_id,omitempty"`
}

// Checker reports issues in text. No issues is an empty slice, not an error.
type Checker interface {
	Check(ctx context.Context, text string) ([]Match, error)
}

// Hint renders the first issue for the learner, or "" when there is none.
func Hint(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}
	m := matches[0]
	if len(m.Replacements) > 0 && m.Replacements[0] != "" {
		return fmt.Sprintf("Lỗi ngữ pháp: %s. <br>Gợi ý sửa: <b>%s</b>", m.Message, m.Replacements[0])
	}
	return fmt.Sprintf("Lỗi ngữ pháp: %s.", m.Message)
}
