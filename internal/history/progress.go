package history

import (
	"context"
	"math"
)

// MaxTopicScore is what a fully completed topic is worth.
const MaxTopicScore = 100

// Practice categories that earn topic points. Vocabulary is practised twice,
// once spoken and once written.
const (
	CategorySpeaking = "speaking"
	CategoryWriting  = "writing"
	CategoryGrammar  = "grammar"
	CategoryQuiz     = "quiz"
)

// TopicSize counts the items in a topic.
type TopicSize struct {
	Vocab   int
	Grammar int
	Quiz    int
}

func (s TopicSize) units() map[string]int {
	return map[string]int{
		CategorySpeaking: s.Vocab,
		CategoryWriting:  s.Vocab,
		CategoryGrammar:  s.Grammar,
		CategoryQuiz:     s.Quiz,
	}
}

// Progress summarises what a learner has completed in one topic.
type Progress struct {
	GradeID   string         `json:"gradeId"`
	TopicID   string         `json:"topicId"`
	Score     int            `json:"score"`
	Completed map[string]int `json:"completed"`
	Done      int            `json:"done"`
	Total     int            `json:"total"`
}

// Progress computes topic progress from correct attempts that carried a
// context. Each item counts once no matter how often it was answered.
func (l *Ledger) Progress(ctx context.Context, gradeID, topicID string, size TopicSize) (Progress, error) {
	recs, err := l.store.Records(ctx)
	if err != nil {
		return Progress{}, err
	}
	return summarize(recs, gradeID, topicID, size), nil
}

func summarize(recs []Record, gradeID, topicID string, size TopicSize) Progress {
	units := size.units()
	p := Progress{GradeID: gradeID, TopicID: topicID, Completed: map[string]int{}}
	for _, n := range units {
		if n > 0 {
			p.Total += n
		}
	}

	seen := map[string]map[ItemRef]struct{}{}
	g, t := NormalizeKey(gradeID), NormalizeKey(topicID)
	for _, r := range recs {
		if !r.Result || r.Context == nil {
			continue
		}
		if NormalizeKey(r.Context.GradeID) != g || NormalizeKey(r.Context.TopicID) != t {
			continue
		}
		cat := NormalizeKey(r.Context.Category)
		if units[cat] <= 0 || r.Context.ItemID == "" {
			continue
		}
		if seen[cat] == nil {
			seen[cat] = map[ItemRef]struct{}{}
		}
		if _, dup := seen[cat][r.Context.ItemID]; dup {
			continue
		}
		seen[cat][r.Context.ItemID] = struct{}{}
		p.Completed[cat]++
		p.Done++
	}

	if p.Total == 0 {
		return p
	}
	if p.Done >= p.Total {
		p.Score = MaxTopicScore
		return p
	}
	per := float64(MaxTopicScore) / float64(p.Total)
	p.Score = int(math.Round(math.Min(MaxTopicScore, per*float64(p.Done))))
	return p
}
