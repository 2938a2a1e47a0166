package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thuong-9/pydoan/internal/auth"
	authmw "github.com/thuong-9/pydoan/internal/auth/middleware"
	"github.com/thuong-9/pydoan/internal/chat"
	"github.com/thuong-9/pydoan/internal/curriculum"
	"github.com/thuong-9/pydoan/internal/grading"
	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/rbac"
	"github.com/thuong-9/pydoan/internal/speech"
)

// Deps is everything the router serves.
type Deps struct {
	Curriculum  *curriculum.Store
	Engine      *grading.Engine
	Tutor       *chat.Tutor
	Ledger      *history.Ledger
	Speech      speech.Synthesizer
	Phonetics   Phonetics
	Auth        *authmw.AuthService
	Log         *logger.Logger
	CORSOrigins []string
	Configured  func() map[string]bool
	Timeout     time.Duration
}

func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	if d.Configured == nil {
		d.Configured = func() map[string]bool { return map[string]bool{} }
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	// An empty allow-list lets any origin in, so credentials are only
	// shared with origins that were named.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: len(d.CORSOrigins) > 0,
		MaxAge:           300,
	}))

	r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth))
	r.Post("/auth/login", authmw.LoginHandler(d.Auth))

	// Practice API: anonymous use is allowed, a bearer token names the learner.
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.OptionalJWT(d.Auth))

		pr.Get("/api/curriculum", CurriculumHandler(d.Curriculum))
		pr.Get("/api/topic/{gradeID}/{topicID}", TopicHandler(d.Curriculum))
		pr.Get("/api/tts", TTSHandler(d.Speech, d.Log))
		pr.Get("/api/phonetic", PhoneticHandler(d.Phonetics))
		pr.Post("/api/check", CheckHandler(d.Engine))
		pr.Post("/api/chat", ChatHandler(d.Tutor))
		pr.Get("/api/progress/{gradeID}/{topicID}", ProgressHandler(d.Ledger, d.Curriculum, d.Log))
	})

	r.With(authmw.RequireJWT(d.Auth), rbac.Require(rbac.PermHistoryView)).
		Get("/api/history", HistoryHandler(d.Ledger, d.Log))

	r.Get("/healthz", Healthz)
	r.Get("/readyz", ReadyzHandler(d.Configured))
	return r
}
