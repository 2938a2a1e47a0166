package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

var translationSchema = &Schema{
	Name: "test-translation",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"translation": map[string]any{"type": "string"}},
		"required":             []any{"translation"},
		"additionalProperties": false,
	},
}

func TestMockReplaysInOrder(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"translation":"I am hungry"}`)},
		MockResponse{Err: &ErrRateLimit{}},
	)
	resp, err := m.Generate(context.Background(), UserPrompt("sys", "tôi đói", translationSchema))
	require.NoError(t, err)

	var out struct{ Translation string }
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "I am hungry", out.Translation)

	_, err = m.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = m.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, "tôi đói", m.Calls[0].Messages[0].Content)
}

func TestValidateResponse(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
	assert.NoError(t, validateResponse(translationSchema, json.RawMessage(`{"translation":"hi"}`)))

	for _, raw := range []string{`{}`, `{"translation":1}`, `{"translation":"a","x":1}`, `nope`} {
		err := validateResponse(translationSchema, json.RawMessage(raw))
		var inv *ErrInvalidResponse
		assert.ErrorAs(t, err, &inv, raw)
	}
}

func TestRetryTransientThenSuccess(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"translation":"ok"}`)},
	)
	resp, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"translation":"ok"}`, string(resp.Content))
	assert.Equal(t, 2, m.CallCount())
}

func TestRetryGivesUp(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	m := NewMockProvider(down, down, down, down)
	_, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 3, m.CallCount())
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	bad := MockResponse{Content: json.RawMessage(`{}`)}
	m := NewMockProvider(bad, bad, bad)
	_, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{Schema: translationSchema})
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, m.CallCount())
}

func TestRetryStopsOnMaxTokensAndCancel(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}}, MockResponse{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, m.CallCount())

	m = NewMockProvider(MockResponse{Err: context.Canceled})
	_, err = WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.CallCount())
}

func TestRetryHonoursRetryAfter(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	assert.Equal(t, 3*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 3 * time.Second}))
	d := r.backoff(10, errors.New("x"))
	assert.LessOrEqual(t, d, 6*time.Millisecond, "capped at MaxWait plus jitter")
}

func TestConfigFromEnv(t *testing.T) {
	for _, k := range []string{"ROBO_LLM_PROVIDER", "ROBO_OPENAI_API_KEY", "OPENAI_API_KEY", "ROBO_GEMINI_API_KEY", "GEMINI_API_KEY", "ROBO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg := ConfigFromEnv()
	assert.False(t, cfg.Enabled())
	assert.NoError(t, cfg.Validate())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg = ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.NoError(t, cfg.Validate())

	t.Setenv("ROBO_LLM_PROVIDER", "anthropic")
	cfg = ConfigFromEnv()
	assert.Error(t, cfg.Validate())

	t.Setenv("ROBO_LLM_PROVIDER", "llama")
	assert.Error(t, ConfigFromEnv().Validate())
}

func TestNewProviderDisabled(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrDisabled)

	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "translate", PurposeFrom(WithPurpose(context.Background(), "translate")))
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "my-model", resolveModel("my-model", geminiModels))
}
