package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	api "github.com/thuong-9/pydoan/internal/api/http"
	authmw "github.com/thuong-9/pydoan/internal/auth/middleware"
	"github.com/thuong-9/pydoan/internal/capability"
	"github.com/thuong-9/pydoan/internal/chat"
	"github.com/thuong-9/pydoan/internal/curriculum"
	"github.com/thuong-9/pydoan/internal/grading"
	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/llm"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg := loadConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Content ---
	store, err := curriculum.Load()
	if err != nil {
		return fmt.Errorf("curriculum: %w", err)
	}

	// --- History ---
	hstore, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()
	ledger := history.NewLedger(hstore, log.With("component", "history"))

	// --- Capabilities (built lazily on first use) ---
	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		log.Warn("llm config invalid, running without it", "error", err)
		llmCfg.Provider = llm.ProviderNone
	}
	reg := capability.New(cfg, llmCfg, blobs, log)

	engine := grading.NewEngine(ledger,
		grading.WithScorer(reg.Scorer()),
		grading.WithChecker(reg.Checker()),
		grading.WithTimeout(cfg.CapabilityTimeout),
		grading.WithLogger(log.With("component", "grading")),
	)
	tutor := chat.NewTutor(chat.Deps{
		Topics:     store,
		Ledger:     ledger,
		Tools:      engine.Tools(),
		Translator: reg.Translator(),
		Phonetics:  reg.Phonetic(),
		Log:        log.With("component", "chat"),
	})

	router := api.NewRouter(api.Deps{
		Curriculum:  store,
		Engine:      engine,
		Tutor:       tutor,
		Ledger:      ledger,
		Speech:      reg.Speech(),
		Phonetics:   reg.Phonetic(),
		Auth:        authmw.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash),
		Log:         log.With("component", "http"),
		CORSOrigins: cfg.CORSOrigins(),
		Configured:  reg.Configured,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		grades, topics, items := store.Counts()
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "history", cfg.HistoryBackend,
			"grades", grades, "topics", topics, "items", items, "capabilities", reg.Configured())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
