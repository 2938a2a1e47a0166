package llm

import (
	"fmt"
	"os"
	"time"
)

// ProviderNone disables every model-backed capability.
const ProviderNone = "none"

// HTTPTimeout caps every request made by a provider client, whatever the
// caller's context allows.
const HTTPTimeout = 60 * time.Second

type Config struct {
	// Provider is one of anthropic, openai, gemini, mock or none.
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // any OpenAI-compatible endpoint
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig keeps retries short: every caller is waiting on a child's
// chat turn.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderNone,
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv reads ROBO_* variables. Without ROBO_LLM_PROVIDER the first
// of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY that is set picks
// the provider.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setIf(&cfg.Anthropic.APIKey, "ROBO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "ROBO_ANTHROPIC_MODEL")
	setIf(&cfg.OpenAI.APIKey, "ROBO_OPENAI_API_KEY", "OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "ROBO_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "ROBO_OPENAI_BASE_URL")
	setIf(&cfg.Gemini.APIKey, "ROBO_GEMINI_API_KEY", "GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "ROBO_GEMINI_MODEL")

	if p := os.Getenv("ROBO_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		return cfg
	}
	switch {
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	case cfg.Anthropic.APIKey != "":
		cfg.Provider = "anthropic"
	}
	return cfg
}

func setIf(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ROBO_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ROBO_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ROBO_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock", ProviderNone, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Enabled reports whether a real or mock provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}
