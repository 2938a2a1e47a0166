package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuong-9/pydoan/internal/config"
	"github.com/thuong-9/pydoan/internal/history"
)

func TestOpenHistoryBackends(t *testing.T) {
	ctx := context.Background()

	cfg := config.Config{HistoryBackend: "file", HistoryFile: filepath.Join(t.TempDir(), "h.json")}
	st, closeFn, err := openHistory(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &history.FileStore{}, st)

	cfg = config.Config{HistoryBackend: "sqlite", DBDSN: "file:cli_test?mode=memory&cache=shared"}
	st, closeSQL, err := openHistory(ctx, cfg)
	require.NoError(t, err)
	defer closeSQL()
	assert.IsType(t, &history.SQLStore{}, st)

	_, _, err = openHistory(ctx, config.Config{HistoryBackend: "redis"})
	assert.Error(t, err)
}

func TestCurriculumValidateCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"curriculum", "validate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "curriculum ok: 5 grades, 25 topics")
	assert.Contains(t, out.String(), "lop1")
}

func TestHistoryCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	ledger := history.NewLedger(history.NewFileStore(path), nil)
	ledger.Append(context.Background(), history.Record{Mode: "Quiz", Question: "Câu hỏi: Which one?", Score: 100, Result: true})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"history", "--history-file", path, "--limit", "5"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Câu hỏi: Which one?")
}
