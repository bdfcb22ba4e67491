package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/trend-dashboard/internal/config"
	"github.com/DeafMist/trend-dashboard/internal/logs"
	"github.com/DeafMist/trend-dashboard/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogsCommandPrintsTable(t *testing.T) {
	t.Setenv("COLUMNS", "60")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info_03-07-2024.log"), []byte(strings.Join([]string{
		"2024-03-07 10:00:00, dashboard   , INFO , server starting",
		"2024-03-07 10:00:01, web         , ERROR, a very long message that will be cut",
		"2024-03-07 10:00:02, broken",
	}, "\n")), 0o600))

	out, err := run(t, "logs", "--dir", dir, "--date", "03-07-2024")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "TIME"))
	require.Contains(t, lines[1], "server starting")
	require.Contains(t, lines[2], "ERROR")
	require.Contains(t, lines[2], "a very long")
	require.NotContains(t, lines[2], "will be cut")
}

func TestLogsCommandFiltersLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info_03-07-2024.log"), []byte(
		"2024-03-07 10:00:00, dashboard   , INFO , fine\n"+
			"2024-03-07 10:00:01, web         , ERROR, broken\n"), 0o600))

	out, err := run(t, "logs", "--dir", dir, "--date", "03-07-2024", "--level", "error")
	require.NoError(t, err)
	require.Contains(t, out, "broken")
	require.NotContains(t, out, "fine")
}

func TestLogsCommandMissingFile(t *testing.T) {
	out, err := run(t, "logs", "--dir", t.TempDir(), "--date", "03-07-2024")
	require.NoError(t, err)
	require.Equal(t, "no log written on 03-07-2024 (info_03-07-2024.log)\n", out)
}

func TestLogsCommandRejectsBadDate(t *testing.T) {
	_, err := run(t, "logs", "--dir", t.TempDir(), "--date", "2024-03-07")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, version+"\n", out)
}

func TestFilterLevelKeepsInput(t *testing.T) {
	entries := []models.LogEntry{{Level: "INFO"}, {Level: "WARN"}}
	require.Equal(t, entries, filterLevel(entries, ""))
	require.Equal(t, []models.LogEntry{{Level: "WARN"}}, filterLevel(entries, "warn"))
	require.Len(t, entries, 2)
}

func TestPruneOnceRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, logs.FileName(time.Now().AddDate(0, 0, -40)))
	current := filepath.Join(dir, logs.FileName(time.Now()))
	require.NoError(t, os.WriteFile(old, nil, 0o600))
	require.NoError(t, os.WriteFile(current, nil, 0o600))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pruneOnce(log, config.Logs{Dir: dir, RetentionMaxAge: 30 * 24 * time.Hour})

	_, err := os.Stat(old)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(current)
	require.NoError(t, err)
}

func TestBoundarySourceLoadsOnce(t *testing.T) {
	load := boundarySource("")
	first, err := load()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := load()
	require.NoError(t, err)
	require.Same(t, &first[0], &second[0])
}
