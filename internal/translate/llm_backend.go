package translate

import (
	"context"
	"fmt"

	"github.com/thuong-9/pydoan/internal/llm"
)

var translationSchema = &llm.Schema{
	Name:        "translation",
	Description: "A translation of a short phrase",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translation": map[string]any{"type": "string"},
		},
		"required":             []any{"translation"},
		"additionalProperties": false,
	},
}

var languageNames = map[Target]string{
	Vietnamese: "Vietnamese",
	English:    "English",
}

// LLMBackend translates with a language model.
type LLMBackend struct {
	provider llm.Provider
}

func NewLLMBackend(p llm.Provider) *LLMBackend {
	return &LLMBackend{provider: p}
}

func (b *LLMBackend) Translate(ctx context.Context, text string, target Target) (string, error) {
	system := fmt.Sprintf(`You translate words and short sentences for Vietnamese primary school children.
Detect the source language and translate the user's text into %s.
Use simple, natural wording. Return only the translation, without quotes or explanations.`, languageNames[target])

	resp, err := b.provider.Generate(llm.WithPurpose(ctx, "translate"), llm.UserPrompt(system, text, translationSchema))
	if err != nil {
		return "", err
	}
	var out struct {
		Translation string `json:"translation"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.Translation, nil
}
