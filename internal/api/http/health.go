package http

import "net/http"

func Healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// ReadyzHandler reports which optional capabilities have a backend. The
// service is ready without any of them.
func ReadyzHandler(configured func() map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"capabilities": configured(),
		})
	}
}
