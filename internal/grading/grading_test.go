package grading

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuong-9/pydoan/internal/grammarcheck"
	"github.com/thuong-9/pydoan/internal/history"
)

type fixedScorer float64

func (f fixedScorer) Similarity(context.Context, string, string) float64 { return float64(f) }

type fakeChecker struct {
	matches []grammarcheck.Match
	err     error
	texts   []string
}

func (f *fakeChecker) Check(_ context.Context, text string) ([]grammarcheck.Match, error) {
	f.texts = append(f.texts, text)
	return f.matches, f.err
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *history.Ledger) {
	t.Helper()
	store := history.NewFileStore(filepath.Join(t.TempDir(), "learning_history.json"))
	ledger := history.NewLedger(store, nil)
	return NewEngine(ledger, opts...), ledger
}

func recent(t *testing.T, l *history.Ledger) []history.Record {
	t.Helper()
	recs, err := l.Recent(context.Background(), 0)
	require.NoError(t, err)
	return recs
}

func TestWritingExactThenRepeat(t *testing.T) {
	ctx := context.Background()
	e, l := newEngine(t)
	sub := Submission{
		Mode:          "writing",
		UserAnswer:    "This is a slide.",
		CorrectAnswer: "This is a slide.",
		Context:       &history.Context{GradeID: "lop1", TopicID: "playground", Category: "writing", ItemID: "0"},
	}

	v := e.Grade(ctx, sub)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, 100, v.Score)
	assert.Equal(t, 100, v.AwardedScore)
	assert.False(t, v.AlreadyCorrect)
	assert.Equal(t, "Chính xác tuyệt đối! 💯", v.Message)

	v = e.Grade(ctx, sub)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, 100, v.Score)
	assert.Equal(t, 0, v.AwardedScore)
	assert.True(t, v.AlreadyCorrect)
	assert.Contains(t, v.Message, "không cộng điểm")

	recs := recent(t, l)
	require.Len(t, recs, 2)
	assert.False(t, recs[0].Counted)
	assert.True(t, recs[1].Counted)
	assert.Equal(t, "Writing", recs[1].Mode)
	assert.Equal(t, "Viết từ: This is a slide.", recs[1].Question)
	assert.Equal(t, "writing::lop1::playground::writing::0::this is a slide.", recs[1].QuestionID)
}

func TestWritingCaseInsensitive(t *testing.T) {
	e, _ := newEngine(t)
	v := e.Grade(context.Background(), Submission{Mode: "writing", UserAnswer: "  slide ", CorrectAnswer: "Slide"})
	assert.True(t, v.IsCorrect)
}

func TestWritingWrongWithGrammarIssue(t *testing.T) {
	chk := &fakeChecker{matches: []grammarcheck.Match{{Message: "Possible spelling mistake", Replacements: []string{"slide"}}}}
	e, l := newEngine(t, WithChecker(chk))

	v := e.Grade(context.Background(), Submission{Mode: "writing", UserAnswer: "slyde", CorrectAnswer: "slide"})
	assert.False(t, v.IsCorrect)
	assert.Equal(t, 0, v.Score)
	assert.Equal(t, 0, v.AwardedScore)
	assert.Equal(t, "Sai rồi. Đáp án đúng: slide", v.Message)
	assert.Equal(t, "Lỗi ngữ pháp: Possible spelling mistake. <br>Gợi ý sửa: <b>slide</b>", v.Suggestion)
	assert.Equal(t, []string{"slyde"}, chk.texts)

	recs := recent(t, l)
	require.Len(t, recs, 1)
	assert.False(t, bool(recs[0].Result))
	assert.Nil(t, recs[0].Context)
}

func TestWritingWrongCheckerFails(t *testing.T) {
	e, _ := newEngine(t, WithChecker(&fakeChecker{err: assert.AnError}))
	v := e.Grade(context.Background(), Submission{Mode: "writing", UserAnswer: "ball", CorrectAnswer: "slide"})
	assert.Equal(t, "Sai rồi. Đáp án đúng là: slide", v.Message)
	assert.Empty(t, v.Suggestion)
}

func TestWritingWrongReportsAlreadyCorrect(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	e.Grade(ctx, Submission{Mode: "writing", UserAnswer: "slide", CorrectAnswer: "slide"})
	v := e.Grade(ctx, Submission{Mode: "writing", UserAnswer: "slid", CorrectAnswer: "slide"})
	assert.False(t, v.IsCorrect)
	assert.True(t, v.AlreadyCorrect)
	assert.Equal(t, 0, v.AwardedScore)
}

func TestSpeakingThresholds(t *testing.T) {
	tests := []struct {
		sim     float64
		user    string
		correct bool
		score   int
		msg     string
		hint    bool
	}{
		{0.92, "slide", true, 92, "Tuyệt vời! AI chấm: 92/100 🌟", false},
		{0.85, "slide", true, 85, "Tuyệt vời! AI chấm: 85/100 🌟", false},
		{0.70, "slid", false, 70, "Khá tốt (70/100). Gần đúng rồi! 💪", true},
		{0.30, "ball", false, 30, "Chưa chính xác (30/100) 😅", true},
		{0.99, "", false, 0, "Chưa chính xác (0/100) 😅", true},
	}
	for _, tt := range tests {
		e, _ := newEngine(t, WithScorer(fixedScorer(tt.sim)))
		v := e.Grade(context.Background(), Submission{Mode: "Speaking", UserAnswer: tt.user, CorrectAnswer: "slide"})
		assert.Equal(t, tt.correct, v.IsCorrect, tt.user)
		assert.Equal(t, tt.score, v.Score)
		assert.Equal(t, tt.msg, v.Message)
		if tt.correct {
			assert.Equal(t, tt.score, v.AwardedScore)
		}
		if tt.hint {
			assert.Equal(t, "Bé nói: '"+tt.user+"' <br> Chuẩn là: 'slide'", v.Suggestion)
		}
	}
}

func TestSpeakingRepeatKeepsScore(t *testing.T) {
	ctx := context.Background()
	e, l := newEngine(t, WithScorer(fixedScorer(0.9)))
	sub := Submission{Mode: "speaking", UserAnswer: "swing", CorrectAnswer: "Swing"}
	e.Grade(ctx, sub)
	v := e.Grade(ctx, sub)
	assert.True(t, v.AlreadyCorrect)
	assert.Equal(t, 90, v.Score)
	assert.Equal(t, 0, v.AwardedScore)
	assert.Equal(t, "Đúng rồi! (AI chấm: 90/100) ✅<br><small>Nhưng câu này bé đã làm đúng trước đó nên không cộng điểm nữa.</small>", v.Message)

	recs := recent(t, l)
	assert.Equal(t, 90, recs[0].BaseScore)
	assert.Equal(t, 0, recs[0].Score)
}

func TestGrammarHintAndFallbackSuggestion(t *testing.T) {
	ctx := context.Background()

	chk := &fakeChecker{matches: []grammarcheck.Match{{Message: "Missing verb"}}}
	e, _ := newEngine(t, WithScorer(fixedScorer(0.9)), WithChecker(chk))
	v := e.Grade(ctx, Submission{Mode: "grammar", UserAnswer: "This a slide", CorrectAnswer: "This is a slide."})
	assert.True(t, v.IsCorrect)
	assert.Equal(t, "Lỗi ngữ pháp: Missing verb.", v.Suggestion, "hint attached regardless of score")

	e, _ = newEngine(t, WithScorer(fixedScorer(0.7)))
	v = e.Grade(ctx, Submission{Mode: "grammar", UserAnswer: "It slide", CorrectAnswer: "This is a slide."})
	assert.False(t, v.IsCorrect)
	assert.Equal(t, "Bé viết: 'It slide' <br>Gợi ý: 'This is a slide.'", v.Suggestion)

	e, _ = newEngine(t, WithScorer(fixedScorer(0.1)))
	v = e.Grade(ctx, Submission{Mode: "grammar", UserAnswer: "ball", CorrectAnswer: "This is a slide."})
	assert.Equal(t, "Gợi ý câu mẫu: 'This is a slide.'", v.Suggestion)
}

func TestGrammarSkipsCheckerForEmptyAnswer(t *testing.T) {
	chk := &fakeChecker{}
	e, l := newEngine(t, WithChecker(chk))
	v := e.Grade(context.Background(), Submission{Mode: "grammar", CorrectAnswer: "", QuestionText: "Đây là cầu trượt."})
	assert.Equal(t, 0, v.Score)
	assert.Empty(t, chk.texts)

	recs := recent(t, l)
	require.Len(t, recs, 1)
	assert.Equal(t, "Viết câu", recs[0].Question)
	assert.Equal(t, "grammar::đây là cầu trượt.", recs[0].QuestionID)
}

func TestQuizExactMatch(t *testing.T) {
	ctx := context.Background()
	e, l := newEngine(t)
	sub := Submission{Mode: "quiz", UserAnswer: "Slide", CorrectAnswer: "Slide", QuestionText: "What can you slide down?"}

	v := e.Grade(ctx, sub)
	assert.Equal(t, Verdict{IsCorrect: true, Score: 100, Message: "Đúng rồi! 🎉", AwardedScore: 100}, v)

	sub.UserAnswer = "slide"
	v = e.Grade(ctx, sub)
	assert.False(t, v.IsCorrect, "quiz answers are compared exactly")
	assert.Equal(t, "Tiếc quá, sai mất rồi!", v.Message)
	assert.True(t, v.AlreadyCorrect)

	recs := recent(t, l)
	assert.Equal(t, "Câu hỏi: What can you slide down?", recs[0].Question)
	assert.Equal(t, "quiz::what can you slide down?", recs[0].QuestionID)
}

func TestUnknownModeLeavesNoRecord(t *testing.T) {
	e, l := newEngine(t)
	v := e.Grade(context.Background(), Submission{Mode: "dance", UserAnswer: "x", CorrectAnswer: "x"})
	assert.False(t, v.IsCorrect)
	assert.Zero(t, v.Score)
	assert.NotEmpty(t, v.Message)
	assert.Empty(t, recent(t, l))
}

func TestQuestionIdentity(t *testing.T) {
	c := &history.Context{GradeID: "LOP2", TopicID: "zoo", Category: "quiz", ItemID: "4"}
	assert.Equal(t, "quiz::lop2::zoo::quiz::4::which animal?", QuestionIdentity("quiz", c, "Which animal?"))
	assert.Equal(t, "speaking::cat", QuestionIdentity("speaking", nil, "Cat"))
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "ice cream", NormalizeAnswer("  Ice-Cream!! "))
	assert.Equal(t, "it's a cat", NormalizeAnswer("It's   a CAT."))
	assert.Equal(t, "", NormalizeAnswer("¿?"))
	assert.Equal(t, "a b", NormalizeChoice("  A \t  B "))
}

func TestMatchesWord(t *testing.T) {
	assert.True(t, MatchesWord("Slide!", "slide", 0.88))
	assert.True(t, MatchesWord("butterfy", "butterfly", 0.88))
	assert.False(t, MatchesWord("slid", "slide", 0.95))
	assert.False(t, MatchesWord("", "", 0.88))
}
