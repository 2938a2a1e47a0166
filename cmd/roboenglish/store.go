package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thuong-9/pydoan/internal/config"
	"github.com/thuong-9/pydoan/internal/db"
	"github.com/thuong-9/pydoan/internal/history"
)

// openHistory picks the ledger backend. The returned close func is never nil.
func openHistory(ctx context.Context, cfg config.Config) (history.Store, func(), error) {
	switch cfg.HistoryBackend {
	case "", "file":
		return history.NewFileStore(cfg.HistoryFile), func() {}, nil
	case string(db.DriverSQLite), string(db.DriverPostgres):
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.HistoryBackend), cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s history: %w", cfg.HistoryBackend, err)
		}
		return history.NewSQLStore(dbh), func() { closeDB(dbh) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

func closeDB(dbh *sql.DB) { _ = dbh.Close() }
