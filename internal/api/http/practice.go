package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/thuong-9/pydoan/internal/auth/middleware"
	"github.com/thuong-9/pydoan/internal/chat"
	"github.com/thuong-9/pydoan/internal/grading"
)

// maxBody bounds practice request bodies.
const maxBody = 64 << 10

// POST /api/check  {mode,user_answer,correct_answer,question_text,context}
func CheckHandler(engine *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub grading.Submission
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&sub); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, engine.Grade(r.Context(), sub))
	}
}

// POST /api/chat  {message,client_id,context}
//
// A signed-in learner is always keyed by the token subject, whatever
// client_id the body carries.
func ChatHandler(tutor *chat.Tutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in chat.Message
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if sub := authmw.SubjectFromContext(r.Context()); sub != "" {
			in.ClientID = sub
		}
		writeJSON(w, http.StatusOK, tutor.Handle(r.Context(), in))
	}
}
