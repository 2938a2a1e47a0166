package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thuong-9/pydoan/internal/curriculum"
	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/logger"
)

// GET /api/progress/{gradeID}/{topicID}
func ProgressHandler(ledger *history.Ledger, store *curriculum.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gradeID, topicID := chi.URLParam(r, "gradeID"), chi.URLParam(r, "topicID")
		topic, ok := store.Topic(gradeID, topicID)
		if !ok {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		size := history.TopicSize{Vocab: len(topic.Vocab), Grammar: len(topic.Grammar), Quiz: len(topic.Quiz)}
		p, err := ledger.Progress(r.Context(), gradeID, topicID, size)
		if err != nil {
			log.Error("progress failed", "grade", gradeID, "topic", topicID, "error", err)
			http.Error(w, "history error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// GET /api/history?limit=50   (teacher/admin)
func HistoryHandler(ledger *history.Ledger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		recs, err := ledger.Recent(r.Context(), limit)
		if err != nil {
			log.Error("history read failed", "error", err)
			http.Error(w, "history error", http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []history.Record{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}
