package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuong-9/pydoan/internal/db"
)

func newFileLedger(t *testing.T) (*Ledger, *FileStore) {
	t.Helper()
	fs := NewFileStore(filepath.Join(t.TempDir(), "history", "learning_history.json"))
	return NewLedger(fs, nil), fs
}

func TestQuestionID(t *testing.T) {
	assert.Equal(t, "writing::lop1::playground::vocab::2::slide",
		QuestionID("writing", " lop1", "Playground", "", "vocab", "2", "  SLIDE "))
	assert.Equal(t, "", QuestionID("", " "))
	assert.Equal(t, QuestionID("quiz", "What is it?"), QuestionID("QUIZ", "what is it?"))
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(Record{Result: true})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"result":"Đúng"`)

	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"result":"Sai","context":{"itemId":3}}`), &r))
	assert.False(t, bool(r.Result))
	assert.Equal(t, ItemRef("3"), r.Context.ItemID)

	require.NoError(t, json.Unmarshal([]byte(`{"result":true}`), &r))
	assert.True(t, bool(r.Result))
}

func TestLedgerAlreadyCorrect(t *testing.T) {
	ctx := context.Background()
	l, _ := newFileLedger(t)
	q := Query{QuestionID: "writing::slide"}

	assert.False(t, l.HasEverCorrect(ctx, q))

	l.Append(ctx, Record{Mode: "Writing", Question: "Viết từ: slide", QuestionID: "writing::slide", Result: false})
	assert.False(t, l.HasEverCorrect(ctx, q), "incorrect attempts never count")

	l.Append(ctx, Record{Mode: "Writing", Question: "Viết từ: slide", QuestionID: "writing::slide", Result: true})
	assert.True(t, l.HasEverCorrect(ctx, q))
	assert.True(t, l.HasEverCorrect(ctx, Query{QuestionID: " WRITING::Slide "}))

	l.Append(ctx, Record{Mode: "Writing", QuestionID: "writing::ball", Result: false})
	assert.True(t, l.HasEverCorrect(ctx, q), "stays true after later attempts")
}

func TestLedgerLegacyMatch(t *testing.T) {
	ctx := context.Background()
	l, _ := newFileLedger(t)
	l.Append(ctx, Record{Mode: "Quiz", Question: "Câu hỏi: What is this?", Result: true})

	assert.True(t, l.HasEverCorrect(ctx, Query{Mode: "quiz"}))
	assert.True(t, l.HasEverCorrect(ctx, Query{Question: "câu hỏi: what is this?"}))
	assert.True(t, l.HasEverCorrect(ctx, Query{Mode: "Quiz", Question: "Câu hỏi: What is this?"}))
	assert.False(t, l.HasEverCorrect(ctx, Query{Mode: "Writing"}))
	assert.False(t, l.HasEverCorrect(ctx, Query{}), "empty query never matches")
	assert.False(t, l.HasEverCorrect(ctx, Query{QuestionID: "quiz::x"}), "ids never match id-less records")
}

func TestFileStoreWritesAtomically(t *testing.T) {
	ctx := context.Background()
	l, fs := newFileLedger(t)

	rec := l.Append(ctx, Record{Mode: "Quiz", Question: "Câu hỏi: <b>?</b>", Result: true})
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Time().IsZero())

	b, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	assert.Contains(t, string(b), "<b>?</b>", "html is not escaped")

	entries, err := os.ReadDir(filepath.Dir(fs.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreKeepsCorruptFile(t *testing.T) {
	ctx := context.Background()
	l, fs := newFileLedger(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(fs.Path()), 0o755))
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o644))

	l.Append(ctx, Record{Mode: "Quiz", Result: true})

	b, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))
	assert.False(t, l.HasEverCorrect(ctx, Query{Mode: "Quiz"}))
}

func TestSettleAwardsOnceUnderContention(t *testing.T) {
	ctx := context.Background()
	l, _ := newFileLedger(t)
	q := Query{QuestionID: "quiz::lop1::q1"}

	var wg sync.WaitGroup
	awarded := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Settle(ctx, q, func(already bool) Record {
				score := 0
				if !already {
					score = 100
				}
				awarded <- score
				return Record{QuestionID: q.QuestionID, Score: score, Counted: score > 0, Result: true}
			})
		}()
	}
	wg.Wait()
	close(awarded)

	total := 0
	for s := range awarded {
		total += s
	}
	assert.Equal(t, 100, total)

	recs, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 16)
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	l, _ := newFileLedger(t)
	for _, m := range []string{"a", "b", "c"} {
		l.Append(ctx, Record{Mode: m})
	}
	recs, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].Mode)
	assert.Equal(t, "b", recs[1].Mode)
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	l := NewLedger(NewSQLStore(dbh), nil)
	l.Append(ctx, Record{
		Mode: "Writing", Question: "Viết từ: Slide", QuestionID: "Writing::slide",
		Context: &Context{GradeID: "lop1", TopicID: "playground", Category: "writing", ItemID: "0"},
		Score: 100, BaseScore: 100, Counted: true, Result: true,
	})
	l.Append(ctx, Record{Mode: "Speaking", Question: "Đọc từ: Ball", QuestionID: "speaking::ball", Result: false})

	assert.True(t, l.HasEverCorrect(ctx, Query{QuestionID: "writing::slide"}))
	assert.False(t, l.HasEverCorrect(ctx, Query{QuestionID: "speaking::ball"}))
	assert.True(t, l.HasEverCorrect(ctx, Query{Question: "viết từ: slide"}))
	assert.False(t, l.HasEverCorrect(ctx, Query{Mode: "speaking"}))

	recs, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Speaking", recs[0].Mode)
	require.NotNil(t, recs[1].Context)
	assert.Equal(t, "playground", recs[1].Context.TopicID)
	assert.True(t, recs[1].Counted)
}

func TestProgress(t *testing.T) {
	size := TopicSize{Vocab: 2, Grammar: 1, Quiz: 1} // 6 units
	ctxFor := func(cat, item string) *Context {
		return &Context{GradeID: "lop1", TopicID: "playground", Category: cat, ItemID: ItemRef(item)}
	}
	recs := []Record{
		{Context: ctxFor("speaking", "0"), Result: true},
		{Context: ctxFor("speaking", "0"), Result: true}, // repeat
		{Context: ctxFor("writing", "1"), Result: true},
		{Context: ctxFor("quiz", "0"), Result: false},
		{Context: ctxFor("chat_vocab", "0"), Result: true},
		{Context: &Context{GradeID: "lop2", TopicID: "playground", Category: "quiz", ItemID: "0"}, Result: true},
		{Result: true},
	}

	p := summarize(recs, "lop1", "playground", size)
	assert.Equal(t, 6, p.Total)
	assert.Equal(t, 2, p.Done)
	assert.Equal(t, 33, p.Score)
	assert.Equal(t, 1, p.Completed["speaking"])

	recs = append(recs,
		Record{Context: ctxFor("speaking", "1"), Result: true},
		Record{Context: ctxFor("writing", "0"), Result: true},
		Record{Context: ctxFor("grammar", "0"), Result: true},
		Record{Context: ctxFor("quiz", "0"), Result: true},
	)
	p = summarize(recs, "lop1", "playground", size)
	assert.Equal(t, 100, p.Score)
	assert.Equal(t, 6, p.Done)

	assert.Equal(t, 0, summarize(nil, "lop1", "x", TopicSize{}).Score)
}
