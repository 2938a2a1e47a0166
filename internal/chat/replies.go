package chat

// Action is a quick-reply button shown under a bot message.
type Action struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Target string `json:"target,omitempty"`
}

// MissingWord feeds the fill-in-the-letters widget.
type MissingWord struct {
	EN         string `json:"en"`
	VI         string `json:"vi"`
	VocabIndex int    `json:"vocabIndex"`
}

type Reply struct {
	Reply   string       `json:"reply"`
	Actions []Action     `json:"actions"`
	Missing *MissingWord `json:"missing,omitempty"`
}

const (
	msgGreeting = "Chào bé! Robo có thể luyện <b>từ vựng</b>, <b>ngữ pháp</b>, và <b>phát âm</b>. Bé gõ: 'từ vựng' / 'ngữ pháp' / 'phát âm' nhé!"
	msgStopped  = "Ok bé! Robo đã dừng bài luyện. Bé muốn luyện gì tiếp?"
	msgDefault  = "Robo có thể luyện <b>từ vựng</b>, <b>ngữ pháp</b>, <b>phát âm</b>. Bé muốn luyện phần nào?"
	msgAskWhat  = "Bé muốn dịch từ/câu gì? Gõ: Dịch ..."

	msgHelp = "Bé có thể:\n" +
		"<br>- Gõ <b>từ vựng</b>: Robo hỏi nghĩa → bé trả lời tiếng Anh" +
		"<br>- Gõ <b>ngữ pháp</b>: Robo cho câu tiếng Việt → bé viết câu tiếng Anh" +
		"<br>- Gõ <b>phát âm</b>: Robo đưa từ → bé bấm nút micro để đọc" +
		"<br>- Gõ <b>điền chữ</b>: Robo cho từ bị khuyết → bé điền lại từ đúng" +
		"<br>- Gõ <b>kiểm tra</b>: Robo hỏi trắc nghiệm A/B/C" +
		"<br><small>Mẹo: Hãy chọn 1 chủ đề (Lớp/Topic) ở màn hình chính để Robo hỏi đúng bài đang học.</small>"
)

// per-drill wording: the command to type and the "topic has nothing" notice.
var drillText = map[string]struct{ command, empty string }{
	CategoryVocab:     {"từ vựng", "Chủ đề này chưa có từ vựng để luyện."},
	CategoryGrammar:   {"ngữ pháp", "Chủ đề này chưa có bài ngữ pháp để luyện."},
	CategoryPronounce: {"phát âm", "Chủ đề này chưa có từ để luyện phát âm."},
	CategoryMissing:   {"điền chữ", "Chủ đề này chưa có từ vựng để điền chữ."},
	CategoryQuiz:      {"kiểm tra", "Chủ đề này chưa có câu hỏi kiểm tra."},
}

func chooseTopicFirst(category string) string {
	return "Bé hãy chọn 1 chủ đề ở màn hình chính trước nhé (Lớp → Topic). Sau đó gõ lại '" + drillText[category].command + "'."
}

func defaultActions() []Action {
	return []Action{
		{Action: "start_vocab", Label: "Luyện từ vựng"},
		{Action: "start_grammar", Label: "Luyện ngữ pháp"},
		{Action: "start_pronounce", Label: "Luyện phát âm"},
		{Action: "translate", Label: "Dịch"},
		{Action: "start_missing", Label: "Điền chữ"},
		{Action: "start_quiz", Label: "Kiểm tra"},
	}
}

var stopAction = Action{Action: "stop", Label: "Dừng"}

func drillActions(p Pending) []Action {
	switch q := p.(type) {
	case VocabQuestion:
		return []Action{
			{Action: "start_vocab", Label: "Câu khác"},
			{Action: "start_pronounce", Label: "Luyện phát âm"},
			stopAction,
		}
	case GrammarQuestion:
		return []Action{{Action: "start_grammar", Label: "Câu khác"}, stopAction}
	case PronounceQuestion:
		return []Action{
			{Action: "pronounce_mic", Label: "🎤 Bấm để nói", Target: q.EN},
			{Action: "tts", Label: "🔊 Nghe mẫu", Target: q.EN},
			{Action: "start_pronounce", Label: "Từ khác"},
			stopAction,
		}
	case MissingQuestion:
		return []Action{
			{Action: "start_missing", Label: "Từ khác"},
			{Action: "tts", Label: "🔊 Nghe mẫu", Target: q.EN},
			stopAction,
		}
	case QuizQuestion:
		return []Action{{Action: "start_quiz", Label: "Câu khác"}, stopAction}
	}
	return defaultActions()
}

func continueHint(p Pending) string {
	switch p.(type) {
	case PronounceQuestion, MissingQuestion:
		return "<br><small>Muốn làm tiếp: bấm 'Từ khác' hoặc gõ '" + drillText[p.Category()].command + "'.</small>"
	}
	return "<br><small>Muốn làm tiếp: bấm 'Câu khác' hoặc gõ '" + drillText[p.Category()].command + "'.</small>"
}
