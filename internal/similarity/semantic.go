package similarity

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/thuong-9/pydoan/internal/logger"
)

// Embedder turns texts into vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFactory builds the embedding backend. It runs at most once.
type EmbedderFactory func(ctx context.Context) (Embedder, error)

// DefaultInitTimeout bounds building and probing the embedding backend.
const DefaultInitTimeout = 10 * time.Second

// Semantic scores by cosine similarity of sentence embeddings. The backend
// is built and probed on first use; if that fails, or no factory was given,
// every call is answered by Lexical instead. Callers never wait on the
// initialization past their own deadline: until it finishes they get the
// lexical score.
type Semantic struct {
	factory     EmbedderFactory
	fallback    Lexical
	log         *logger.Logger
	initTimeout time.Duration

	once  sync.Once
	ready chan struct{}
	emb   Embedder
}

type SemanticOption func(*Semantic)

// WithInitTimeout bounds the one-time build and probe of the embedder.
func WithInitTimeout(d time.Duration) SemanticOption {
	return func(s *Semantic) {
		if d > 0 {
			s.initTimeout = d
		}
	}
}

func NewSemantic(factory EmbedderFactory, log *logger.Logger, opts ...SemanticOption) *Semantic {
	if log == nil {
		log = logger.Nop()
	}
	s := &Semantic{
		factory:     factory,
		log:         log,
		initTimeout: DefaultInitTimeout,
		ready:       make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Semantic) Similarity(ctx context.Context, a, b string) float64 {
	emb := s.backend(ctx)
	if emb == nil {
		return s.fallback.Similarity(ctx, a, b)
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return s.fallback.Similarity(ctx, a, b)
	}
	vecs, err := emb.Embed(ctx, []string{a, b})
	if err == nil && len(vecs) != 2 {
		err = errors.New("embedding count mismatch")
	}
	if err != nil {
		s.log.Warn("embedding failed, using lexical score", "error", err)
		return s.fallback.Similarity(ctx, a, b)
	}
	return Cosine(vecs[0], vecs[1])
}

// Semantic reports whether embeddings are in use. It triggers initialization.
func (s *Semantic) Semantic(ctx context.Context) bool {
	return s.backend(ctx) != nil
}

// backend returns the embedder, or nil when embeddings are unavailable or
// still initializing when ctx ends.
func (s *Semantic) backend(ctx context.Context) Embedder {
	s.once.Do(func() {
		// Initialization must outlive the request that happens to trigger it.
		go s.init(context.WithoutCancel(ctx))
	})
	select {
	case <-s.ready:
		return s.emb
	default:
	}
	select {
	case <-s.ready:
		return s.emb
	case <-ctx.Done():
		return nil
	}
}

func (s *Semantic) init(ctx context.Context) {
	defer close(s.ready)
	if s.factory == nil {
		s.log.Info("no embedding backend configured, using lexical similarity")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.initTimeout)
	defer cancel()

	emb, err := s.factory(ctx)
	if err != nil {
		s.log.Warn("embedding backend unavailable, using lexical similarity", "error", err)
		return
	}
	if _, err := emb.Embed(ctx, []string{"hello"}); err != nil {
		s.log.Warn("embedding probe failed, using lexical similarity", "error", err)
		return
	}
	s.emb = emb
}

// Cosine returns the cosine similarity of a and b clamped to [0,1].
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, c))
}
