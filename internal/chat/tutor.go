// Package chat is Robo, the rule-based tutor. It keeps one session per
// client, hands out drill questions from the selected topic and grades the
// replies.
package chat

import (
	"context"
	"fmt"
	"html"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/thuong-9/pydoan/internal/curriculum"
	"github.com/thuong-9/pydoan/internal/grading"
	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/picker"
	"github.com/thuong-9/pydoan/internal/translate"
)

// WordThreshold is the lexical similarity that still accepts a typed word.
const WordThreshold = 0.88

type Topics interface {
	Topic(gradeID, topicID string) (curriculum.Topic, bool)
}

type Translator interface {
	Translate(ctx context.Context, text string, target translate.Target) string
}

type Phonetics interface {
	Lookup(ctx context.Context, word string) string
}

// Message is one chat turn from the client.
type Message struct {
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
	Context  struct {
		GradeID string `json:"gradeId"`
		TopicID string `json:"topicId"`
	} `json:"context"`
}

// Deps are the collaborators of a Tutor. Ledger and Topics are required.
type Deps struct {
	Sessions   *SessionStore
	Topics     Topics
	Ledger     *history.Ledger
	Tools      *grading.Tools
	Translator Translator
	Phonetics  Phonetics
	Log        *logger.Logger
}

type Tutor struct {
	Deps
	rnd picker.Rand
	now func() time.Time
}

type Option func(*Tutor)

// WithRand fixes the question picker's randomness. The source must be safe
// for the caller's concurrency; the default is.
func WithRand(r picker.Rand) Option { return func(t *Tutor) { t.rnd = r } }

func WithClock(now func() time.Time) Option { return func(t *Tutor) { t.now = now } }

func NewTutor(d Deps, opts ...Option) *Tutor {
	if d.Sessions == nil {
		d.Sessions = NewSessionStore()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tools == nil {
		d.Tools = grading.NewEngine(d.Ledger, grading.WithLogger(d.Log)).Tools()
	}
	t := &Tutor{Deps: d, rnd: globalRand{}, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// turn is the state one message is handled with.
type turn struct {
	sess  *Session
	raw   string
	msg   string
	topic curriculum.Topic
	has   bool
}

// Handle processes one message. Turns for the same client are serialized;
// different clients never wait on each other.
func (t *Tutor) Handle(ctx context.Context, in Message) Reply {
	sess := t.Sessions.Get(in.ClientID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.UpdatedAt = t.now()

	if g := history.NormalizeKey(in.Context.GradeID); g != "" {
		sess.GradeID = g
	}
	if tp := history.NormalizeKey(in.Context.TopicID); tp != "" {
		sess.TopicID = tp
	}

	raw := strings.TrimSpace(norm.NFC.String(in.Message))
	tu := turn{sess: sess, raw: raw, msg: strings.ToLower(raw)}
	if sess.GradeID != "" && sess.TopicID != "" && t.Topics != nil {
		tu.topic, tu.has = t.Topics.Topic(sess.GradeID, sess.TopicID)
	}

	if answer, ok := canned[tu.msg]; ok {
		sess.Pending = nil
		return Reply{Reply: answer, Actions: defaultActions()}
	}
	if tu.msg == "" {
		return Reply{Reply: msgGreeting, Actions: defaultActions()}
	}
	if wantsTranslation(tu.msg) {
		return t.translate(ctx, tu)
	}
	if slices.Contains(stopWords, tu.msg) {
		sess.Pending = nil
		return Reply{Reply: msgStopped, Actions: defaultActions()}
	}
	if slices.Contains(helpWords, tu.msg) {
		return Reply{Reply: msgHelp, Actions: defaultActions()}
	}
	if category := startCategory(tu.msg); category != "" {
		return t.start(ctx, tu, category)
	}
	if sess.Pending != nil {
		return t.answer(ctx, tu)
	}
	return Reply{Reply: msgDefault, Actions: defaultActions()}
}

func (t *Tutor) translate(ctx context.Context, tu turn) Reply {
	text, target := translationRequest(tu.msg)
	if text == "" {
		return Reply{Reply: msgAskWhat, Actions: defaultActions()}
	}
	out := ""
	if t.Translator != nil {
		out = t.Translator.Translate(ctx, text, target)
	}
	if out == "" {
		out = translate.MsgUnavailable
	}
	verb := "nghĩa là"
	if target == translate.English {
		verb = "tiếng Anh là"
	}
	return Reply{
		Reply:   fmt.Sprintf("📖 '%s' %s: <b>%s</b>", html.EscapeString(text), verb, html.EscapeString(out)),
		Actions: defaultActions(),
	}
}

func (t *Tutor) start(ctx context.Context, tu turn, category string) Reply {
	if !tu.has {
		return Reply{Reply: chooseTopicFirst(category), Actions: defaultActions()}
	}
	q, ok := t.pick(tu.sess, tu.topic, category)
	if !ok {
		return Reply{Reply: drillText[category].empty, Actions: defaultActions()}
	}
	tu.sess.Pending = q
	reply := Reply{Actions: drillActions(q)}

	switch q := q.(type) {
	case VocabQuestion:
		reply.Reply = fmt.Sprintf("🧩 <b>Từ vựng</b>: Tiếng Anh của '<b>%s</b>' là gì?", html.EscapeString(q.VI))
	case GrammarQuestion:
		reply.Reply = fmt.Sprintf("📝 <b>Ngữ pháp</b>: Viết câu tiếng Anh cho: '<b>%s</b>'", html.EscapeString(q.PromptVI))
	case PronounceQuestion:
		ipa := ""
		if t.Phonetics != nil {
			if p := t.Phonetics.Lookup(ctx, q.EN); p != "" {
				ipa = fmt.Sprintf(" <span class='text-slate-500'>(%s)</span>", html.EscapeString(p))
			}
		}
		reply.Reply = fmt.Sprintf("🎤 <b>Phát âm</b>: Bé hãy đọc từ <b>%s</b>%s. Bấm nút micro bên dưới để đọc nhé!", html.EscapeString(q.EN), ipa)
	case MissingQuestion:
		reply.Reply = "🔤 <b>Điền chữ còn thiếu</b>:" +
			"<br><small>Bé điền vào các ô còn thiếu rồi bấm <b>Kiểm tra</b> nhé.</small>" +
			`<div data-chat-missing-mount="1" class="mt-3"></div>`
		reply.Missing = &MissingWord{EN: q.EN, VI: q.VI, VocabIndex: q.Index}
	case QuizQuestion:
		var b strings.Builder
		fmt.Fprintf(&b, "🧪 <b>Kiểm tra</b>: %s", html.EscapeString(q.Question))
		for i, opt := range q.Options {
			fmt.Fprintf(&b, "<br><b>%c.</b> %s", 'A'+i, html.EscapeString(opt))
		}
		b.WriteString("<br><small>Bé trả lời: A/B/C (hoặc gõ đáp án).</small>")
		reply.Reply = b.String()
	}
	return reply
}

// pick draws the next question of category from topic without repeating
// one until the category's cycle is complete.
func (t *Tutor) pick(sess *Session, topic curriculum.Topic, category string) (Pending, bool) {
	var candidates []int
	switch category {
	case CategoryGrammar:
		for i, g := range topic.Grammar {
			if strings.TrimSpace(g.PromptVI) != "" && strings.TrimSpace(g.Answer) != "" {
				candidates = append(candidates, i)
			}
		}
	case CategoryQuiz:
		for i, q := range topic.Quiz {
			if strings.TrimSpace(q.Question) != "" && len(cleanOptions(q.Options)) >= 2 {
				candidates = append(candidates, i)
			}
		}
	default:
		for i, v := range topic.Vocab {
			if strings.TrimSpace(v.EN) != "" && strings.TrimSpace(v.VI) != "" {
				candidates = append(candidates, i)
			}
		}
	}

	idx, ok := picker.PickNonRepeating(sess.Asked, category, candidates, t.rnd)
	if !ok {
		return nil, false
	}
	switch category {
	case CategoryGrammar:
		g := topic.Grammar[idx]
		return GrammarQuestion{Index: idx, PromptVI: strings.TrimSpace(g.PromptVI), Answer: strings.TrimSpace(g.Answer)}, true
	case CategoryQuiz:
		q := topic.Quiz[idx]
		return QuizQuestion{Index: idx, Question: strings.TrimSpace(q.Question), Options: cleanOptions(q.Options), Answer: strings.TrimSpace(q.Answer)}, true
	}
	v := topic.Vocab[idx]
	en, vi := strings.TrimSpace(v.EN), strings.TrimSpace(v.VI)
	switch category {
	case CategoryPronounce:
		return PronounceQuestion{Index: idx, EN: en, VI: vi}, true
	case CategoryMissing:
		return MissingQuestion{Index: idx, EN: en, VI: vi, Masked: picker.MaskWord(en)}, true
	}
	return VocabQuestion{Index: idx, EN: en, VI: vi}, true
}

func cleanOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// outcome is a graded chat answer before it is written to history.
type outcome struct {
	correct bool
	score   int
	reply   string

	mode     string
	question string
	seed     string
}

func (t *Tutor) answer(ctx context.Context, tu turn) Reply {
	sess := tu.sess
	p := sess.Pending
	safe := html.EscapeString(tu.raw)

	var o outcome
	switch q := p.(type) {
	case VocabQuestion:
		o = outcome{mode: "Chat Vocab", question: fmt.Sprintf("Tiếng Anh của '%s'", q.VI), seed: q.EN}
		o.correct = grading.MatchesWord(tu.raw, q.EN, WordThreshold)
		if o.correct {
			o.reply = fmt.Sprintf("✅ Đúng rồi! Đáp án: <b>%s</b>", html.EscapeString(q.EN))
		} else {
			o.reply = fmt.Sprintf("❌ Chưa đúng. Bé trả lời: <b>%s</b><br>Đáp án đúng: <b>%s</b>", safe, html.EscapeString(q.EN))
		}
		o.score = fullMarks(o.correct)

	case MissingQuestion:
		o = outcome{mode: "Chat Missing", question: "Điền chữ: " + q.Masked, seed: q.EN}
		o.correct = grading.MatchesWord(tu.raw, q.EN, WordThreshold)
		if o.correct {
			o.reply = fmt.Sprintf("✅ Đúng rồi! Từ đúng là: <b>%s</b>", html.EscapeString(q.EN))
		} else {
			o.reply = fmt.Sprintf("❌ Chưa đúng. Bé trả lời: <b>%s</b><br>Từ đúng: <b>%s</b>", safe, html.EscapeString(q.EN))
		}
		o.score = fullMarks(o.correct)

	case PronounceQuestion:
		o = outcome{mode: "Chat Pronounce", question: "Đọc từ: " + q.EN, seed: q.EN}
		o.score = t.Tools.Percent(ctx, tu.raw, q.EN)
		o.correct = o.score >= grading.PassScore
		if o.correct {
			o.reply = fmt.Sprintf("✅ Bé đọc tốt lắm! (%d/100)", o.score)
		} else {
			o.reply = fmt.Sprintf("❌ Chưa giống lắm (%d/100). Robo nghe được: <b>%s</b><br>Bé nghe mẫu rồi đọc lại từ <b>%s</b> nhé!", o.score, safe, html.EscapeString(q.EN))
		}

	case GrammarQuestion:
		o = outcome{mode: "Chat Grammar", question: "Viết câu: " + q.PromptVI}
		o.correct, o.score, o.reply = t.scoreSentence(ctx, tu.raw, q.Answer)

	case QuizQuestion:
		o = outcome{mode: "Chat Quiz", question: "Quiz: " + q.Question, seed: q.Question}
		o.correct, o.reply = gradeQuiz(tu.raw, q)
		o.score = fullMarks(o.correct)
	}

	t.record(ctx, sess, p, tu.raw, o)
	sess.Pending = nil
	return Reply{Reply: o.reply + continueHint(p), Actions: drillActions(p)}
}

func fullMarks(correct bool) int {
	if correct {
		return 100
	}
	return 0
}

// scoreSentence grades a free sentence by meaning and attaches the first
// grammar issue, if any.
func (t *Tutor) scoreSentence(ctx context.Context, user, want string) (bool, int, string) {
	if strings.TrimSpace(user) == "" || strings.TrimSpace(want) == "" {
		msg := "Bé thử viết câu tiếng Anh nhé!"
		if want != "" {
			msg += "<br>Gợi ý mẫu: <b>" + html.EscapeString(want) + "</b>"
		}
		return false, 0, msg
	}
	score := t.Tools.Percent(ctx, user, want)
	hint := t.Tools.Hint(ctx, user)
	if score >= grading.PassScore {
		msg := fmt.Sprintf("Rất tốt! (%d/100) ✅", score)
		if hint != "" {
			msg += "<br>" + hint
		}
		return true, score, msg
	}
	msg := fmt.Sprintf("Chưa đúng lắm (%d/100). Bé thử lại nhé!", score)
	if score >= grading.NearScore {
		msg = fmt.Sprintf("Gần đúng rồi! (%d/100)", score)
	}
	if hint != "" {
		msg += "<br>" + hint
	}
	return false, score, msg + "<br>Mẫu đúng: <b>" + html.EscapeString(want) + "</b>"
}

// gradeQuiz compares by option position when both the reply and the answer
// resolve to an option, and by normalized text otherwise.
func gradeQuiz(raw string, q QuizQuestion) (bool, string) {
	want := grading.NormalizeChoice(q.Answer)
	correctIdx := slices.IndexFunc(q.Options, func(o string) bool { return grading.NormalizeChoice(o) == want })
	idx, text, ok := ParseQuizChoice(raw, q.Options)

	var correct bool
	if ok && correctIdx >= 0 {
		correct = idx == correctIdx
	} else {
		correct = grading.NormalizeChoice(text) == want
	}
	if correct {
		return true, "✅ Đúng rồi!"
	}
	label := q.Answer
	if correctIdx >= 0 {
		label = fmt.Sprintf("%c. %s", 'A'+correctIdx, q.Options[correctIdx])
	}
	return false, "❌ Chưa đúng. Đáp án đúng: <b>" + html.EscapeString(label) + "</b>"
}

// record logs a chat attempt. Chat drills never count toward progress.
func (t *Tutor) record(ctx context.Context, sess *Session, p Pending, answer string, o outcome) {
	idx := pendingIndex(p)
	t.Ledger.Append(ctx, history.Record{
		Mode:       o.mode,
		Question:   o.question,
		QuestionID: history.QuestionID("chat", p.Category(), sess.GradeID, sess.TopicID, strconv.Itoa(idx), o.seed),
		Context: &history.Context{
			GradeID:  sess.GradeID,
			TopicID:  sess.TopicID,
			Category: "chat_" + p.Category(),
			ItemID:   history.ItemRef(strconv.Itoa(idx)),
		},
		UserAnswer: answer,
		Score:      o.score,
		BaseScore:  o.score,
		Counted:    false,
		Result:     history.Result(o.correct),
	})
}

func pendingIndex(p Pending) int {
	switch q := p.(type) {
	case VocabQuestion:
		return q.Index
	case GrammarQuestion:
		return q.Index
	case PronounceQuestion:
		return q.Index
	case QuizQuestion:
		return q.Index
	case MissingQuestion:
		return q.Index
	}
	return -1
}
