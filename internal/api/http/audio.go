package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/speech"
)

type Phonetics interface {
	Lookup(ctx context.Context, word string) string
}

// GET /api/tts?text=...   -> audio/mpeg
func TTSHandler(synth speech.Synthesizer, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := strings.TrimSpace(r.URL.Query().Get("text"))
		if text == "" {
			http.Error(w, "text required", http.StatusBadRequest)
			return
		}
		if len([]rune(text)) > speech.MaxInput {
			http.Error(w, "text too long", http.StatusBadRequest)
			return
		}
		audio, err := synth.Synthesize(r.Context(), text)
		if err != nil {
			if !errors.Is(err, speech.ErrUnavailable) {
				log.Warn("tts failed", "error", err)
			}
			http.Error(w, "tts unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(audio)
	}
}

// GET /api/phonetic?word=...   -> {"phonetic": "/.../"}; empty when unknown
func PhoneticHandler(p Phonetics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word := strings.TrimSpace(r.URL.Query().Get("word"))
		out := ""
		if word != "" {
			out = p.Lookup(r.Context(), word)
		}
		writeJSON(w, http.StatusOK, map[string]string{"phonetic": out})
	}
}
