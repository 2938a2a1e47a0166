package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thuong-9/pydoan/internal/curriculum"
)

// GET /api/curriculum
func CurriculumHandler(store *curriculum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Catalog())
	}
}

// GET /api/topic/{gradeID}/{topicID}
func TopicHandler(store *curriculum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic, ok := store.Topic(chi.URLParam(r, "gradeID"), chi.URLParam(r, "topicID"))
		if !ok {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeJSON(w, http.StatusOK, topic)
	}
}
