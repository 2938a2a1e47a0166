package grammarcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LanguageTool calls the /v2/check endpoint of a LanguageTool server.
type LanguageTool struct {
	base   string
	lang   string
	client *http.Client
}

func NewLanguageTool(baseURL, lang string) *LanguageTool {
	if lang == "" {
		lang = "en-US"
	}
	return &LanguageTool{
		base:   strings.TrimSuffix(baseURL, "/"),
		lang:   lang,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type ltResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID string `json:"id"`
		} `json:"rule"`
	} `json:"matches"`
}

func (lt *LanguageTool) Check(ctx context.Context, text string) ([]Match, error) {
	form := url.Values{"text": {text}, "language": {lt.lang}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.base+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := lt.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("languagetool: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("languagetool: status %d", resp.StatusCode)
	}

	var body ltResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("languagetool: decode: %w", err)
	}
	out := make([]Match, 0, len(body.Matches))
	for _, m := range body.Matches {
		match := Match{Message: m.Message, Offset: m.Offset, Length: m.Length, RuleID: m.Rule.ID}
		for _, r := range m.Replacements {
			match.Replacements = append(match.Replacements, r.Value)
		}
		out = append(out, match)
	}
	return out, nil
}
