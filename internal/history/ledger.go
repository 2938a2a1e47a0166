package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thuong-9/pydoan/internal/logger"
)

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Records(ctx context.Context) ([]Record, error)
	// HasCorrect reports whether any stored record satisfies q (already normalized).
	HasCorrect(ctx context.Context, q Query) (bool, error)
}

// Ledger is the append-only log of graded attempts. Writes are serialized
// and failures never reach the caller: history is best effort.
type Ledger struct {
	mu    sync.Mutex
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewLedger(store Store, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{store: store, log: log, now: time.Now}
}

// Append stamps and stores rec.
func (l *Ledger) Append(ctx context.Context, rec Record) Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(ctx, rec)
}

// HasEverCorrect reports whether a prior attempt matching q was correct.
// Read errors count as "never".
func (l *Ledger) HasEverCorrect(ctx context.Context, q Query) bool {
	ok, err := l.store.HasCorrect(ctx, q.normalized())
	if err != nil {
		l.log.Warn("history lookup failed", "question_id", q.QuestionID, "error", err)
		return false
	}
	return ok
}

// Settle checks q and appends the record built from the answer in one
// critical section, so two concurrent correct answers to the same question
// award points once.
func (l *Ledger) Settle(ctx context.Context, q Query, build func(alreadyCorrect bool) Record) Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	already := l.HasEverCorrect(ctx, q)
	return l.appendLocked(ctx, build(already))
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	recs, err := l.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, recs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (l *Ledger) appendLocked(ctx context.Context, rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp == "" {
		rec.Timestamp = l.now().Format(TimeLayout)
	}
	if err := l.store.Append(ctx, rec); err != nil {
		l.log.Error("history append failed", "mode", rec.Mode, "question_id", rec.QuestionID, "error", err)
	}
	return rec
}
