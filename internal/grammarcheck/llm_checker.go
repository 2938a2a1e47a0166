package grammarcheck

import (
	"context"
	"strings"

	"github.com/thuong-9/pydoan/internal/llm"
)

const checkerSystem = `You check short English sentences written by Vietnamese primary school children.
Report only real grammar or spelling mistakes, at most three, most important first.
Each issue has a short English message and the corrected word or phrase as replacement.
Capitalisation at the start and a missing final full stop are not mistakes.
Return an empty list when the sentence is acceptable.`

var issuesSchema = &llm.Schema{
	Name:        "grammar-issues",
	Description: "Grammar and spelling issues in a learner sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"issues": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"message":     map[string]any{"type": "string"},
						"replacement": map[string]any{"type": "string"},
					},
					"required":             []any{"message", "replacement"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"issues"},
		"additionalProperties": false,
	},
}

// LLMChecker asks a language model for issues when no LanguageTool server
// is available.
type LLMChecker struct {
	provider llm.Provider
}

func NewLLMChecker(p llm.Provider) *LLMChecker {
	return &LLMChecker{provider: p}
}

func (c *LLMChecker) Check(ctx context.Context, text string) ([]Match, error) {
	ctx = llm.WithPurpose(ctx, "grammar")
	resp, err := c.provider.Generate(ctx, llm.UserPrompt(checkerSystem, text, issuesSchema))
	if err != nil {
		return nil, err
	}
	var out struct {
		Issues []struct {
			Message     string `json:"message"`
			Replacement string `json:"replacement"`
		} `json:"issues"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(out.Issues))
	for _, is := range out.Issues {
		msg := strings.TrimSpace(is.Message)
		if msg == "" {
			continue
		}
		m := Match{Message: strings.TrimSuffix(msg, ".")}
		if r := strings.TrimSpace(is.Replacement); r != "" {
			m.Replacements = []string{r}
		}
		matches = append(matches, m)
	}
	return matches, nil
}
