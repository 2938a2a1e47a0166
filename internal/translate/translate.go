// Package translate turns short Vietnamese text into English and back for
// the chat tutor.
package translate

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thuong-9/pydoan/internal/logger"
)

type Target string

const (
	Vietnamese Target = "vi"
	English    Target = "en"
)

// Messages shown instead of a translation.
const (
	MsgEmpty       = "Robo chưa dịch được câu này, bé thử lại nhé."
	MsgUnavailable = "Lỗi kết nối server dịch."
)

// MinCacheSize is the smallest cache the translator will run with.
const MinCacheSize = 10

// Backend performs the actual translation.
type Backend interface {
	Translate(ctx context.Context, text string, target Target) (string, error)
}

// phrases kids type often enough to answer without a backend.
var fixedEnglish = map[string]string{
	"tôi đói":    "I am hungry",
	"bạn tên gì": "What is your name",
	"bạn là ai":  "Who are you",
}

type cacheKey struct {
	text   string
	target Target
}

// Translator answers from a fixed phrase table, then an LRU cache, then the
// backend. It never returns an error: failures become friendly messages.
type Translator struct {
	backend Backend
	cache   *lru.Cache[cacheKey, string]
	timeout time.Duration
	log     *logger.Logger
}

// New builds a translator caching up to capacity results (at least
// MinCacheSize). backend may be nil, in which case only fixed phrases work.
func New(backend Backend, capacity int, timeout time.Duration, log *logger.Logger) *Translator {
	if log == nil {
		log = logger.Nop()
	}
	cache, _ := lru.New[cacheKey, string](max(MinCacheSize, capacity))
	return &Translator{backend: backend, cache: cache, timeout: timeout, log: log}
}

// Translate returns text in target. Unknown targets mean Vietnamese.
func (t *Translator) Translate(ctx context.Context, text string, target Target) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if target != English {
		target = Vietnamese
	}
	lower := strings.ToLower(text)
	if target == English {
		if fixed, ok := fixedEnglish[lower]; ok {
			return fixed
		}
	}

	key := cacheKey{text: lower, target: target}
	if hit, ok := t.cache.Get(key); ok {
		return hit
	}
	if t.backend == nil {
		return MsgUnavailable
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	out, err := t.backend.Translate(ctx, text, target)
	if err != nil {
		t.log.Warn("translation failed", "target", string(target), "error", err)
		return MsgUnavailable
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return MsgEmpty
	}
	t.cache.Add(key, out)
	return out
}

// Cached reports how many translations are cached.
func (t *Translator) Cached() int { return t.cache.Len() }
