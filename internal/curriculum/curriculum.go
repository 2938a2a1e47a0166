// Package curriculum serves the fixed lesson content: grades, their topics,
// and each topic's vocabulary, grammar prompts and quiz questions.
package curriculum

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/curriculum.json
var embedded []byte

//go:embed data/schema.json
var schemaJSON []byte

type Vocab struct {
	EN  string `json:"en"`
	VI  string `json:"vi"`
	Img string `json:"img,omitempty"`
}

type Grammar struct {
	PromptVI string `json:"prompt_vi"`
	Answer   string `json:"answer"`
}

type Quiz struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// AnswerIndex returns the position of the correct option, or -1.
func (q Quiz) AnswerIndex() int {
	return slices.Index(q.Options, q.Answer)
}

type Topic struct {
	ID      string    `json:"-"`
	Title   string    `json:"title"`
	Vocab   []Vocab   `json:"vocab"`
	Grammar []Grammar `json:"grammar"`
	Quiz    []Quiz    `json:"quiz"`
}

type Grade struct {
	ID     string
	Title  string
	Topics []Topic
}

// Catalog is every grade in authored order. It marshals to
// {gradeId: {title, topics: {topicId: topic}}} keeping that order.
type Catalog []Grade

func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for gi, g := range c {
		if gi > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, g.ID)
		buf.WriteString(`{"title":`)
		if err := writeValue(&buf, g.Title); err != nil {
			return nil, err
		}
		buf.WriteString(`,"topics":{`)
		for ti, t := range g.Topics {
			if ti > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, t.ID)
			if err := writeValue(&buf, t); err != nil {
				return nil, err
			}
		}
		buf.WriteString("}}")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) {
	b, _ := json.Marshal(k)
	buf.Write(b)
	buf.WriteByte(':')
}

func writeValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Store is a read-only view over a validated curriculum.
type Store struct {
	grades Catalog
	topics map[string]map[string]Topic
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Load returns the curriculum compiled into the binary.
func Load() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Parse(embedded)
	})
	return defaultStore, defaultErr
}

// Parse validates raw curriculum JSON and builds a Store from it.
func Parse(raw []byte) (*Store, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc struct {
		Grades []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Topics []struct {
				ID string `json:"id"`
				Topic
			} `json:"topics"`
		} `json:"grades"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}

	s := &Store{topics: map[string]map[string]Topic{}}
	for _, g := range doc.Grades {
		if _, dup := s.topics[g.ID]; dup {
			return nil, fmt.Errorf("duplicate grade %q", g.ID)
		}
		grade := Grade{ID: g.ID, Title: g.Title}
		byID := map[string]Topic{}
		for _, t := range g.Topics {
			topic := t.Topic
			topic.ID = t.ID
			if _, dup := byID[topic.ID]; dup {
				return nil, fmt.Errorf("grade %s: duplicate topic %q", g.ID, topic.ID)
			}
			if err := checkTopic(topic); err != nil {
				return nil, fmt.Errorf("grade %s topic %s: %w", g.ID, topic.ID, err)
			}
			byID[topic.ID] = topic
			grade.Topics = append(grade.Topics, topic)
		}
		s.topics[g.ID] = byID
		s.grades = append(s.grades, grade)
	}
	return s, nil
}

func checkTopic(t Topic) error {
	for i, q := range t.Quiz {
		if q.AnswerIndex() < 0 {
			return fmt.Errorf("quiz %d: answer %q is not one of its options", i, q.Answer)
		}
	}
	return nil
}

func validateSchema(raw []byte) error {
	sch, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("parse curriculum schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://curriculum.json"
	if err := c.AddResource(url, sch); err != nil {
		return fmt.Errorf("add curriculum schema: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("compile curriculum schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse curriculum: %w", err)
	}
	if err := compiled.Validate(inst); err != nil {
		return fmt.Errorf("curriculum does not match schema: %w", err)
	}
	return nil
}

// Catalog returns all grades in authored order.
func (s *Store) Catalog() Catalog { return s.grades }

// Topic looks up a topic. Ids are matched after trimming and lower-casing.
func (s *Store) Topic(gradeID, topicID string) (Topic, bool) {
	topics, ok := s.topics[strings.ToLower(strings.TrimSpace(gradeID))]
	if !ok {
		return Topic{}, false
	}
	t, ok := topics[strings.ToLower(strings.TrimSpace(topicID))]
	return t, ok
}

// Counts reports how many grades, topics and items the store holds.
func (s *Store) Counts() (grades, topics, items int) {
	for _, g := range s.grades {
		grades++
		for _, t := range g.Topics {
			topics++
			items += len(t.Vocab) + len(t.Grammar) + len(t.Quiz)
		}
	}
	return grades, topics, items
}
