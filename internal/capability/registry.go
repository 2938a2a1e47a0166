// Package capability owns the optional external services the tutor leans
// on. Each one is built on first use, at most once per process, and stays
// safe for concurrent use afterwards.
package capability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thuong-9/pydoan/internal/config"
	"github.com/thuong-9/pydoan/internal/grammarcheck"
	"github.com/thuong-9/pydoan/internal/llm"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/phonetic"
	"github.com/thuong-9/pydoan/internal/similarity"
	"github.com/thuong-9/pydoan/internal/speech"
	"github.com/thuong-9/pydoan/internal/storage"
	"github.com/thuong-9/pydoan/internal/translate"
)

type Registry struct {
	cfg    config.Config
	llmCfg llm.Config
	log    *logger.Logger

	providerOnce sync.Once
	provider     llm.Provider

	scorer     *similarity.Semantic
	checker    *grammarcheck.Lazy
	translator *translate.Translator
	phonetic   *phonetic.Client
	speech     *speech.Cached
}

// New wires every capability from configuration. Nothing external is
// contacted until a capability is first used.
func New(cfg config.Config, llmCfg llm.Config, blobs storage.BlobStore, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{cfg: cfg, llmCfg: llmCfg, log: log}

	var embed similarity.EmbedderFactory
	if cfg.EmbeddingProvider != "" && cfg.EmbeddingProvider != llm.ProviderNone {
		embed = func(ctx context.Context) (similarity.Embedder, error) {
			return llm.NewEmbedder(ctx, cfg.EmbeddingProvider, cfg.EmbeddingModel, llmCfg)
		}
	}
	r.scorer = similarity.NewSemantic(embed, log.With("capability", "similarity"),
		similarity.WithInitTimeout(cfg.CapabilityTimeout))
	r.checker = grammarcheck.NewLazy(r.buildChecker, cfg.CapabilityTimeout, log.With("capability", "grammar"))

	var backend translate.Backend
	if llmCfg.Enabled() {
		backend = translate.NewLLMBackend(lazyProvider{r})
	}
	r.translator = translate.New(backend, cfg.TranslationCacheMax, cfg.CapabilityTimeout, log.With("capability", "translate"))
	r.phonetic = phonetic.NewClient(cfg.DictionaryURL, cfg.CapabilityTimeout, log.With("capability", "phonetic"))

	var synth speech.Synthesizer
	if cfg.TTSEnabled && llmCfg.OpenAI.APIKey != "" {
		if s, err := speech.NewOpenAI(llmCfg.OpenAI); err != nil {
			log.Warn("speech synthesis disabled", "error", err)
		} else {
			synth = s
		}
	}
	r.speech = speech.NewCached(synth, blobs, log.With("capability", "speech"))
	return r
}

// LLM returns the language model provider, or nil when none is configured
// or it failed to initialize.
func (r *Registry) LLM(ctx context.Context) llm.Provider {
	r.providerOnce.Do(func() {
		if !r.llmCfg.Enabled() {
			return
		}
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.initTimeout())
		defer cancel()
		p, err := llm.NewProvider(ictx, r.llmCfg, r.log.With("capability", "llm"))
		if err != nil {
			r.log.Warn("llm provider unavailable", "provider", r.llmCfg.Provider, "error", err)
			return
		}
		r.provider = p
	})
	return r.provider
}

func (r *Registry) initTimeout() time.Duration {
	if r.cfg.CapabilityTimeout > 0 {
		return r.cfg.CapabilityTimeout
	}
	return similarity.DefaultInitTimeout
}

func (r *Registry) Scorer() *similarity.Semantic      { return r.scorer }
func (r *Registry) Checker() *grammarcheck.Lazy       { return r.checker }
func (r *Registry) Translator() *translate.Translator { return r.translator }
func (r *Registry) Phonetic() *phonetic.Client        { return r.phonetic }
func (r *Registry) Speech() speech.Synthesizer        { return r.speech }

// Configured reports which capabilities have a backend configured, without
// initializing any of them.
func (r *Registry) Configured() map[string]bool {
	return map[string]bool{
		"llm":         r.llmCfg.Enabled(),
		"embeddings":  r.cfg.EmbeddingProvider != "" && r.cfg.EmbeddingProvider != llm.ProviderNone,
		"grammar":     r.cfg.LanguageToolURL != "" || r.llmCfg.Enabled(),
		"translation": r.llmCfg.Enabled(),
		"tts":         r.cfg.TTSEnabled && r.llmCfg.OpenAI.APIKey != "",
	}
}

// buildChecker prefers a LanguageTool server and falls back to the LLM.
func (r *Registry) buildChecker(ctx context.Context) (grammarcheck.Checker, error) {
	if r.cfg.LanguageToolURL != "" {
		return grammarcheck.NewLanguageTool(r.cfg.LanguageToolURL, r.cfg.LanguageToolLang), nil
	}
	if p := r.LLM(ctx); p != nil {
		return grammarcheck.NewLLMChecker(p), nil
	}
	return nil, errors.New("neither LanguageTool nor an LLM provider is configured")
}

// lazyProvider defers provider construction to the first request.
type lazyProvider struct{ r *Registry }

func (l lazyProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p := l.r.LLM(ctx)
	if p == nil {
		return nil, llm.ErrDisabled
	}
	return p.Generate(ctx, req)
}

func (l lazyProvider) ModelID() string {
	if p := l.r.LLM(context.Background()); p != nil {
		return p.ModelID()
	}
	return ""
}
