// Package grading scores learner answers in the four practice modes and
// records every attempt in the history ledger.
package grading

import (
	"context"
	"strings"
	"time"

	"github.com/thuong-9/pydoan/internal/grammarcheck"
	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/similarity"
)

const (
	ModeSpeaking = "speaking"
	ModeWriting  = "writing"
	ModeGrammar  = "grammar"
	ModeQuiz     = "quiz"
)

// PassScore and NearScore split similarity scores into correct, close and wrong.
const (
	PassScore = 85
	NearScore = 60
)

// Submission is one answer to grade.
type Submission struct {
	Mode          string           `json:"mode"`
	UserAnswer    string           `json:"user_answer"`
	CorrectAnswer string           `json:"correct_answer"`
	QuestionText  string           `json:"question_text"`
	Context       *history.Context `json:"context,omitempty"`
}

// Verdict is what the learner sees. AwardedScore is what counts toward
// progress; it is 0 for questions already answered correctly before.
type Verdict struct {
	IsCorrect      bool   `json:"is_correct"`
	Score          int    `json:"score"`
	Message        string `json:"message"`
	Suggestion     string `json:"suggestion"`
	AwardedScore   int    `json:"awarded_score"`
	AlreadyCorrect bool   `json:"already_correct"`
}

// Assessment is a strategy's judgement before prior attempts are considered.
type Assessment struct {
	Correct    bool
	Score      int
	Message    string
	Suggestion string

	// RepeatMessage replaces Message when the answer is correct but the
	// question was already answered correctly.
	RepeatMessage string

	// Label is the question text stored in history; Seed is the last
	// component of the question identity.
	Label string
	Seed  string
}

// Strategy grades one mode.
type Strategy interface {
	// HistoryMode is the mode name written to history, e.g. "Speaking".
	HistoryMode() string
	Assess(ctx context.Context, sub Submission) Assessment
}

// Tools are the capabilities strategies may call. Calls are bounded by
// timeout and degrade to neutral results on failure.
type Tools struct {
	scorer  similarity.Scorer
	checker grammarcheck.Checker
	timeout time.Duration
	log     *logger.Logger
}

// Percent scores user against correct with the configured scorer. An empty
// answer scores 0.
func (t *Tools) Percent(ctx context.Context, user, correct string) int {
	if strings.TrimSpace(user) == "" {
		return 0
	}
	ctx, cancel := t.bounded(ctx)
	defer cancel()
	return similarity.Percent(t.scorer.Similarity(ctx, user, correct))
}

// Issues runs the grammar checker on text. Errors and a missing checker
// yield no issues.
func (t *Tools) Issues(ctx context.Context, text string) []grammarcheck.Match {
	if t.checker == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	ctx, cancel := t.bounded(ctx)
	defer cancel()
	matches, err := t.checker.Check(ctx, text)
	if err != nil {
		t.log.Warn("grammar check failed", "error", err)
		return nil
	}
	return matches
}

// Hint is the learner-facing text for the first grammar issue in text.
func (t *Tools) Hint(ctx context.Context, text string) string {
	return grammarcheck.Hint(t.Issues(ctx, text))
}

func (t *Tools) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

// Engine routes submissions to strategies by mode and settles them against
// the ledger.
type Engine struct {
	strategies map[string]Strategy
	tools      *Tools
	ledger     *history.Ledger
	log        *logger.Logger
}

type Option func(*Tools)

func WithScorer(s similarity.Scorer) Option     { return func(t *Tools) { t.scorer = s } }
func WithChecker(c grammarcheck.Checker) Option { return func(t *Tools) { t.checker = c } }
func WithTimeout(d time.Duration) Option        { return func(t *Tools) { t.timeout = d } }
func WithLogger(l *logger.Logger) Option        { return func(t *Tools) { t.log = l } }

// NewEngine installs the built-in strategies. Without WithScorer answers are
// compared lexically.
func NewEngine(ledger *history.Ledger, opts ...Option) *Engine {
	tools := &Tools{scorer: similarity.Lexical{}, timeout: 5 * time.Second, log: logger.Nop()}
	for _, o := range opts {
		o(tools)
	}
	if tools.log == nil {
		tools.log = logger.Nop()
	}
	return &Engine{
		strategies: map[string]Strategy{
			ModeSpeaking: speakingStrategy{tools},
			ModeWriting:  writingStrategy{tools},
			ModeGrammar:  grammarStrategy{tools},
			ModeQuiz:     quizStrategy{},
		},
		tools:  tools,
		ledger: ledger,
		log:    tools.log,
	}
}

// Tools exposes the engine's capabilities to other drills.
func (e *Engine) Tools() *Tools { return e.tools }

// Grade scores sub and appends exactly one history record. Unknown modes get
// a zero verdict and leave no record.
func (e *Engine) Grade(ctx context.Context, sub Submission) Verdict {
	mode := history.NormalizeKey(sub.Mode)
	s, ok := e.strategies[mode]
	if !ok {
		return Verdict{Message: "Chế độ luyện tập này chưa được hỗ trợ."}
	}
	sub.Mode = mode
	sub.UserAnswer = strings.TrimSpace(sub.UserAnswer)
	sub.CorrectAnswer = strings.TrimSpace(sub.CorrectAnswer)
	sub.QuestionText = strings.TrimSpace(sub.QuestionText)

	a := s.Assess(ctx, sub)
	qid := QuestionIdentity(mode, sub.Context, a.Seed)

	var v Verdict
	e.ledger.Settle(ctx, history.Query{QuestionID: qid}, func(already bool) history.Record {
		v = Verdict{
			IsCorrect:      a.Correct,
			Score:          a.Score,
			Message:        a.Message,
			Suggestion:     a.Suggestion,
			AlreadyCorrect: already,
		}
		if a.Correct {
			if already {
				v.Message = a.RepeatMessage
			} else {
				v.AwardedScore = a.Score
			}
		}
		return history.Record{
			Mode:       s.HistoryMode(),
			Question:   a.Label,
			QuestionID: qid,
			Context:    contextOrNil(sub.Context),
			UserAnswer: sub.UserAnswer,
			Score:      v.AwardedScore,
			BaseScore:  a.Score,
			Counted:    v.AwardedScore > 0,
			Result:     history.Result(a.Correct),
		}
	})
	e.log.Debug("graded answer", "mode", mode, "question_id", qid, "correct", v.IsCorrect, "awarded", v.AwardedScore)
	return v
}

// QuestionIdentity derives the stable key of a question from its mode,
// where it lives in the curriculum and a mode-specific seed.
func QuestionIdentity(mode string, c *history.Context, seed string) string {
	if c == nil {
		c = &history.Context{}
	}
	return history.QuestionID(mode, c.GradeID, c.TopicID, c.Category, string(c.ItemID), seed)
}

func contextOrNil(c *history.Context) *history.Context {
	if c.IsZero() {
		return nil
	}
	return c
}
