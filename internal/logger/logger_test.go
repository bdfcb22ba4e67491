package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/logger"
	"github.com/DeafMist/trend-dashboard/internal/logs"
	"github.com/stretchr/testify/require"
)

func TestFileHandlerWritesParsableRows(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewFileHandler(&buf, "dashboard", nil))

	log.Info("server started", slog.String("addr", ":5000"))
	log.With(logger.ComponentKey, "newsapi").Warn("slow upstream, retry later", slog.Duration("took", 2*time.Second))
	log.Debug("filtered out")

	entries, err := logs.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "dashboard", entries[0].Thread)
	require.Equal(t, "INFO", entries[0].Level)
	require.Equal(t, "server started addr=:5000", entries[0].Message)
	_, err = time.Parse(logger.TimeLayout, entries[0].Time)
	require.NoError(t, err)

	require.Equal(t, "newsapi", entries[1].Thread)
	require.Equal(t, "WARN", entries[1].Level)
	require.Equal(t, "slow upstream, retry later took=2s", entries[1].Message)
}

func TestFileHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewFileHandler(&buf, "dashboard", nil))

	log.WithGroup("req").Info("served", slog.Int("status", 200))

	entries, err := logs.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "served req.status=200", entries[0].Message)
}

func TestDailyFileRollsOverAtMidnight(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 2, 28, 23, 59, 0, 0, time.Local)
	clock := func() time.Time { return now }

	f, err := logger.NewDailyFileWithClock(dir, clock)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("first\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "info_02-28-2024.log"), f.Path())

	now = now.Add(2 * time.Minute)
	_, err = f.Write([]byte("second\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "info_02-29-2024.log"), f.Path())

	first, err := os.ReadFile(filepath.Join(dir, "info_02-28-2024.log"))
	require.NoError(t, err)
	require.Equal(t, "first\n", string(first))
	second, err := os.ReadFile(filepath.Join(dir, "info_02-29-2024.log"))
	require.NoError(t, err)
	require.Equal(t, "second\n", string(second))
}

func TestDailyFileClosed(t *testing.T) {
	f, err := logger.NewDailyFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.Write([]byte("late"))
	require.Error(t, err)
}

func TestSetupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, file, err := logger.Setup("dashboard", dir)
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, dir, filepath.Dir(file.Path()))

	second, _, err := logger.Setup("other", t.TempDir())
	require.NoError(t, err)
	require.Same(t, first, second)

	first.Info("hello")
	entries, err := logs.ReadFile(filepath.Join(dir, logs.FileName(time.Now())))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "hello", entries[0].Message)
}

func TestContextLogger(t *testing.T) {
	require.Same(t, slog.Default(), logger.FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := logger.WithContext(context.Background(), l)
	require.Same(t, l, logger.FromContext(ctx))
}

func TestNewFollowsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	require.True(t, logger.New("dashboard").Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("LOG_LEVEL", "warn")
	require.False(t, logger.New("dashboard").Enabled(context.Background(), slog.LevelInfo))
}
