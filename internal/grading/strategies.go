package grading

import (
	"context"
	"fmt"
	"strings"
)

const repeatNote = "Nhưng câu này bé đã làm đúng trước đó nên không cộng điểm nữa."

type speakingStrategy struct{ tools *Tools }

func (speakingStrategy) HistoryMode() string { return "Speaking" }

func (s speakingStrategy) Assess(ctx context.Context, sub Submission) Assessment {
	score := s.tools.Percent(ctx, sub.UserAnswer, sub.CorrectAnswer)
	a := Assessment{
		Score:         score,
		Label:         "Đọc từ: " + sub.CorrectAnswer,
		Seed:          sub.CorrectAnswer,
		RepeatMessage: fmt.Sprintf("Đúng rồi! (AI chấm: %d/100) ✅<br><small>%s</small>", score, repeatNote),
	}
	switch {
	case score >= PassScore:
		a.Correct = true
		a.Message = fmt.Sprintf("Tuyệt vời! AI chấm: %d/100 🌟", score)
	case score >= NearScore:
		a.Message = fmt.Sprintf("Khá tốt (%d/100). Gần đúng rồi! 💪", score)
		a.Suggestion = fmt.Sprintf("Bé nói: '%s' <br> Chuẩn là: '%s'", sub.UserAnswer, sub.CorrectAnswer)
	default:
		a.Message = fmt.Sprintf("Chưa chính xác (%d/100) 😅", score)
		a.Suggestion = fmt.Sprintf("Bé nói: '%s' <br> Chuẩn là: '%s'", sub.UserAnswer, sub.CorrectAnswer)
	}
	return a
}

// writingStrategy accepts only an exact, case-insensitive answer. Near
// misses get a grammar hint but no points.
type writingStrategy struct{ tools *Tools }

func (writingStrategy) HistoryMode() string { return "Writing" }

func (s writingStrategy) Assess(ctx context.Context, sub Submission) Assessment {
	a := Assessment{
		Label:         "Viết từ: " + sub.CorrectAnswer,
		Seed:          sub.CorrectAnswer,
		RepeatMessage: "Đúng rồi! ✅ Nhưng câu này bé đã đúng trước đó nên không cộng điểm nữa.",
	}
	if strings.EqualFold(sub.UserAnswer, sub.CorrectAnswer) {
		a.Correct = true
		a.Score = 100
		a.Message = "Chính xác tuyệt đối! 💯"
		return a
	}

	if issues := s.tools.Issues(ctx, sub.UserAnswer); len(issues) > 0 {
		repl := ""
		if len(issues[0].Replacements) > 0 {
			repl = issues[0].Replacements[0]
		}
		a.Message = "Sai rồi. Đáp án đúng: " + sub.CorrectAnswer
		a.Suggestion = fmt.Sprintf("Lỗi ngữ pháp: %s. <br>Gợi ý sửa: <b>%s</b>", issues[0].Message, repl)
		return a
	}
	a.Message = "Sai rồi. Đáp án đúng là: " + sub.CorrectAnswer
	return a
}

// grammarStrategy grades a whole sentence by meaning and adds the first
// grammar issue as a hint whatever the score.
type grammarStrategy struct{ tools *Tools }

func (grammarStrategy) HistoryMode() string { return "Grammar" }

func (s grammarStrategy) Assess(ctx context.Context, sub Submission) Assessment {
	score := s.tools.Percent(ctx, sub.UserAnswer, sub.CorrectAnswer)
	a := Assessment{
		Score:         score,
		Suggestion:    s.tools.Hint(ctx, sub.UserAnswer),
		Label:         "Viết câu",
		Seed:          firstNonEmpty(sub.CorrectAnswer, sub.QuestionText, "grammar"),
		RepeatMessage: fmt.Sprintf("Đúng rồi! (%d/100) ✅ %s", score, repeatNote),
	}
	if sub.CorrectAnswer != "" {
		a.Label = "Viết câu: " + sub.CorrectAnswer
	}
	switch {
	case score >= PassScore:
		a.Correct = true
		a.Message = fmt.Sprintf("Câu của bé rất tốt! (%d/100) 🌟", score)
	case score >= NearScore:
		a.Message = fmt.Sprintf("Gần đúng rồi (%d/100). Thử sửa lại nhé! 💪", score)
		if a.Suggestion == "" {
			a.Suggestion = fmt.Sprintf("Bé viết: '%s' <br>Gợi ý: '%s'", sub.UserAnswer, sub.CorrectAnswer)
		}
	default:
		a.Message = fmt.Sprintf("Chưa đúng lắm (%d/100) 😅", score)
		if a.Suggestion == "" {
			a.Suggestion = fmt.Sprintf("Gợi ý câu mẫu: '%s'", sub.CorrectAnswer)
		}
	}
	return a
}

// quizStrategy compares the chosen option with the answer exactly.
type quizStrategy struct{}

func (quizStrategy) HistoryMode() string { return "Quiz" }

func (quizStrategy) Assess(_ context.Context, sub Submission) Assessment {
	a := Assessment{
		Label:         "Câu hỏi trắc nghiệm",
		Seed:          firstNonEmpty(sub.QuestionText, sub.CorrectAnswer, "quiz"),
		RepeatMessage: "Đúng rồi! ✅ Nhưng câu này bé đã đúng trước đó nên không cộng điểm nữa.",
		Message:       "Tiếc quá, sai mất rồi!",
	}
	if sub.QuestionText != "" {
		a.Label = "Câu hỏi: " + sub.QuestionText
	}
	if sub.UserAnswer != "" && sub.UserAnswer == sub.CorrectAnswer {
		a.Correct = true
		a.Score = 100
		a.Message = "Đúng rồi! 🎉"
	}
	return a
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
