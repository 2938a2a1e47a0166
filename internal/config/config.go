package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string
	LogMode   string // dev|prod

	HistoryBackend string // file|sqlite|postgres
	HistoryFile    string
	DBDSN          string

	BlobBasePath string // audio cache root

	TranslationCacheMax int
	CapabilityTimeout   time.Duration

	EmbeddingProvider string // none|openai|gemini
	EmbeddingModel    string

	LanguageToolURL  string
	LanguageToolLang string

	DictionaryURL string
	TTSEnabled    bool

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: os.Getenv("PUBLIC_URL"),
		LogMode:   envOr("LOG_MODE", "dev"),

		HistoryBackend: envOr("ROBO_HISTORY_BACKEND", "file"),
		HistoryFile:    envOr("ROBO_HISTORY_FILE", "./data/learning_history.json"),
		DBDSN:          envOr("DB_DSN", ""),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		TranslationCacheMax: envInt("ROBO_TRANSLATION_CACHE_MAX", 300),
		CapabilityTimeout:   envDuration("ROBO_CAPABILITY_TIMEOUT", 5*time.Second),

		EmbeddingProvider: envOr("ROBO_EMBEDDING_PROVIDER", "none"),
		EmbeddingModel:    os.Getenv("ROBO_EMBEDDING_MODEL"),

		LanguageToolURL:  os.Getenv("ROBO_LANGUAGETOOL_URL"),
		LanguageToolLang: envOr("ROBO_LANGUAGETOOL_LANG", "en-US"),

		DictionaryURL: envOr("ROBO_DICTIONARY_URL", "https://api.dictionaryapi.dev/api/v2/entries/en"),
		TTSEnabled:    envBool("ROBO_TTS_ENABLED", true),

		AuthSecret:    envOr("AUTH_HMAC_SECRET", "robo-dev-secret"),
		AdminUser:     envOr("ADMIN_USER", "teacher"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", ""),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5000,http://127.0.0.1:5000"),
	}
}

// CORSOrigins returns the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// Validate rejects settings the server must not start with.
func (c Config) Validate() error {
	if c.Mode == ModeOnline && len(c.CORSOriginsOnline) == 0 {
		return errors.New("CORS_ORIGINS_ONLINE must list the allowed origins in online mode")
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// bare numbers are seconds
	if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
		return time.Duration(n * float64(time.Second))
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
