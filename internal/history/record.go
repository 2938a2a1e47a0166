package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is how timestamps are written in the ledger.
const TimeLayout = "2006-01-02 15:04:05"

const (
	resultCorrect   = "Đúng"
	resultIncorrect = "Sai"
)

// Result is the verdict of one attempt. It is stored with the labels the
// frontend already renders ("Đúng" / "Sai").
type Result bool

func (r Result) MarshalJSON() ([]byte, error) {
	if r {
		return json.Marshal(resultCorrect)
	}
	return json.Marshal(resultIncorrect)
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Result(strings.TrimSpace(s) == resultCorrect)
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("history result: %w", err)
	}
	*r = Result(v)
	return nil
}

func (r Result) String() string {
	if r {
		return resultCorrect
	}
	return resultIncorrect
}

// Record is one graded attempt. Records are never updated once written.
type Record struct {
	ID         string   `json:"id,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Mode       string   `json:"mode"`
	Question   string   `json:"question"`
	QuestionID string   `json:"question_id,omitempty"`
	Context    *Context `json:"context"`
	UserAnswer string   `json:"user_answer"`
	Score      int      `json:"score"`
	BaseScore  int      `json:"base_score"`
	Counted    bool     `json:"counted"`
	Result     Result   `json:"result"`
}

// Time parses Timestamp in local time. The zero time is returned for
// records without a parseable timestamp.
func (r Record) Time() time.Time {
	t, err := time.ParseInLocation(TimeLayout, r.Timestamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Query selects prior attempts for the already-correct check.
//
// When QuestionID is set only records with the same id match. Without one,
// the legacy rule applies: Mode and Question are compared when non-empty,
// and at least one of them must be given.
type Query struct {
	QuestionID string
	Mode       string
	Question   string
}

func (q Query) normalized() Query {
	return Query{
		QuestionID: NormalizeKey(q.QuestionID),
		Mode:       NormalizeKey(q.Mode),
		Question:   NormalizeKey(q.Question),
	}
}

// matches reports whether a correct record satisfies q. q must be normalized.
func (q Query) matches(rec Record) bool {
	if !rec.Result {
		return false
	}
	if q.QuestionID != "" {
		rid := NormalizeKey(rec.QuestionID)
		return rid != "" && rid == q.QuestionID
	}
	if q.Mode == "" && q.Question == "" {
		return false
	}
	if q.Mode != "" && NormalizeKey(rec.Mode) != q.Mode {
		return false
	}
	if q.Question != "" && NormalizeKey(rec.Question) != q.Question {
		return false
	}
	return true
}

// NormalizeKey trims and lower-cases an identity component.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QuestionID joins the normalized non-empty parts with "::".
func QuestionID(parts ...string) string {
	keep := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := NormalizeKey(p); k != "" {
			keep = append(keep, k)
		}
	}
	return strings.Join(keep, "::")
}

// Context locates the item an attempt was made on.
type Context struct {
	GradeID  string  `json:"gradeId,omitempty"`
	TopicID  string  `json:"topicId,omitempty"`
	Category string  `json:"category,omitempty"`
	ItemID   ItemRef `json:"itemId,omitempty"`
}

// IsZero reports whether no component is set.
func (c *Context) IsZero() bool {
	return c == nil || (c.GradeID == "" && c.TopicID == "" && c.Category == "" && c.ItemID == "")
}

// ItemRef is an item id that clients send either as an index or as a string.
type ItemRef string

func (r *ItemRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ItemRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*r = ItemRef(n.String())
	return nil
}
