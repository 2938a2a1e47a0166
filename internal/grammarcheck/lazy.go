package grammarcheck

import (
	"context"
	"sync"
	"time"

	"github.com/thuong-9/pydoan/internal/logger"
)

// Factory builds the real checker. A nil checker with a nil error means
// grammar checking is not configured.
type Factory func(ctx context.Context) (Checker, error)

// DefaultBuildTimeout bounds the one-time checker build.
const DefaultBuildTimeout = 10 * time.Second

// Lazy builds its checker on first use, at most once per process. Until a
// checker is available every Check reports no issues, including calls whose
// context ends while the build is still running.
type Lazy struct {
	factory Factory
	log     *logger.Logger
	timeout time.Duration

	once    sync.Once
	ready   chan struct{}
	checker Checker
}

// NewLazy bounds the build by timeout, or DefaultBuildTimeout when it is not positive.
func NewLazy(factory Factory, timeout time.Duration, log *logger.Logger) *Lazy {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}
	return &Lazy{factory: factory, log: log, timeout: timeout, ready: make(chan struct{})}
}

func (l *Lazy) Check(ctx context.Context, text string) ([]Match, error) {
	c := l.get(ctx)
	if c == nil {
		return nil, nil
	}
	return c.Check(ctx, text)
}

// Available reports whether a checker is configured. It triggers initialization.
func (l *Lazy) Available(ctx context.Context) bool {
	return l.get(ctx) != nil
}

func (l *Lazy) get(ctx context.Context) Checker {
	l.once.Do(func() {
		go l.build(context.WithoutCancel(ctx))
	})
	select {
	case <-l.ready:
		return l.checker
	default:
	}
	select {
	case <-l.ready:
		return l.checker
	case <-ctx.Done():
		return nil
	}
}

func (l *Lazy) build(ctx context.Context) {
	defer close(l.ready)
	if l.factory == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	c, err := l.factory(ctx)
	if err != nil {
		l.log.Warn("grammar checker unavailable", "error", err)
		return
	}
	l.checker = c
}
