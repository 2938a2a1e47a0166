package chat

// Pending is the drill question a session is waiting on. Exactly one of
// the concrete question types below.
type Pending interface {
	// Category is the picker category the question was drawn from.
	Category() string
	pending()
}

type VocabQuestion struct {
	Index int
	EN    string
	VI    string
}

type GrammarQuestion struct {
	Index    int
	PromptVI string
	Answer   string
}

type PronounceQuestion struct {
	Index int
	EN    string
	VI    string
}

type QuizQuestion struct {
	Index    int
	Question string
	Options  []string
	Answer   string
}

type MissingQuestion struct {
	Index  int
	EN     string
	VI     string
	Masked string
}

func (VocabQuestion) Category() string     { return CategoryVocab }
func (GrammarQuestion) Category() string   { return CategoryGrammar }
func (PronounceQuestion) Category() string { return CategoryPronounce }
func (QuizQuestion) Category() string      { return CategoryQuiz }
func (MissingQuestion) Category() string   { return CategoryMissing }

func (VocabQuestion) pending()     {}
func (GrammarQuestion) pending()   {}
func (PronounceQuestion) pending() {}
func (QuizQuestion) pending()      {}
func (MissingQuestion) pending()   {}

const (
	CategoryVocab     = "vocab"
	CategoryGrammar   = "grammar"
	CategoryPronounce = "pronounce"
	CategoryQuiz      = "quiz"
	CategoryMissing   = "missing"
)
