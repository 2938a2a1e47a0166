package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// SQLStore appends to the learning_history table created by db.Open.
// Placeholders are $n, which both modernc sqlite and pgx accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learning_history
		   (id, ts, mode, question, question_id, context, user_answer, score, base_score, counted, correct)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.Timestamp, r.Mode, r.Question, nullable(NormalizeKey(r.QuestionID)), encodeContext(r.Context),
		r.UserAnswer, r.Score, r.BaseScore, r.Counted, bool(r.Result))
	return err
}

func (s *SQLStore) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, mode, question, question_id, context, user_answer, score, base_score, counted, correct
		   FROM learning_history ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r         Record
			qid, rctx sql.NullString
			correct   bool
		)
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Mode, &r.Question, &qid, &rctx,
			&r.UserAnswer, &r.Score, &r.BaseScore, &r.Counted, &correct); err != nil {
			return nil, err
		}
		r.QuestionID = qid.String
		r.Context = decodeContext(rctx)
		r.Result = Result(correct)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) HasCorrect(ctx context.Context, q Query) (bool, error) {
	if q.QuestionID == "" {
		// Legacy rows are compared in Go: sqlite LOWER() only folds ASCII.
		return s.scanLegacy(ctx, q)
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM learning_history WHERE correct = $1 AND question_id = $2 LIMIT 1`,
		true, q.QuestionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) scanLegacy(ctx context.Context, q Query) (bool, error) {
	if q.Mode == "" && q.Question == "" {
		return false, nil
	}
	recs, err := s.Records(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if q.matches(r) {
			return true, nil
		}
	}
	return false, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeContext(c *Context) sql.NullString {
	if c.IsZero() {
		return sql.NullString{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func decodeContext(ns sql.NullString) *Context {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var c Context
	if err := json.Unmarshal([]byte(ns.String), &c); err != nil {
		return nil
	}
	return &c
}
