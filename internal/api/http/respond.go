// Package http exposes the practice backend over a chi router.
package http

import (
	"encoding/json"
	"net/http"
)

const msgNotFound = "Không tìm thấy dữ liệu"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
