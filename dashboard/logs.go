package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/DeafMist/trend-dashboard/internal/config"
	"github.com/DeafMist/trend-dashboard/internal/logs"
	"github.com/DeafMist/trend-dashboard/internal/models"
)

const defaultWidth = 120

func newLogsCmd() *cobra.Command {
	var (
		day   string
		dir   string
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print a day's log file as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			when := time.Now()
			if day != "" {
				t, err := time.ParseInLocation("01-02-2006", day, time.Local)
				if err != nil {
					return fmt.Errorf("--date must be MM-DD-YYYY: %w", err)
				}
				when = t
			}
			if dir == "" {
				resolved, err := config.LogDir()
				if err != nil {
					return err
				}
				dir = resolved
			}

			name := logs.FileName(when)
			entries, err := logs.ReadFile(filepath.Join(dir, name))
			if errors.Is(err, logs.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "no log written on %s (%s)\n", when.Format("01-02-2006"), name)
				return nil
			}
			if err != nil {
				return err
			}

			printEntries(cmd.OutOrStdout(), filterLevel(entries, level), terminalWidth())
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "day to show as MM-DD-YYYY (default today)")
	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default LOG_DIR or the config file)")
	cmd.Flags().StringVar(&level, "level", "", "only show entries at this level")
	return cmd
}

func filterLevel(entries []models.LogEntry, level string) []models.LogEntry {
	if level == "" {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if strings.EqualFold(e.Level, level) {
			out = append(out, e)
		}
	}
	return out
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultWidth
}

// printEntries writes one row per entry. The message column is cut to fit
// width, measured in terminal cells.
func printEntries(w io.Writer, entries []models.LogEntry, width int) {
	const (
		timeCol   = 19
		threadCol = 12
		levelCol  = 5
		gaps      = 6
	)
	msgCol := width - timeCol - threadCol - levelCol - gaps
	if msgCol < 10 {
		msgCol = 10
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		runewidth.FillRight("TIME", timeCol),
		runewidth.FillRight("THREAD", threadCol),
		runewidth.FillRight("LEVEL", levelCol),
		"MESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(runewidth.Truncate(e.Time, timeCol, ""), timeCol),
			runewidth.FillRight(runewidth.Truncate(e.Thread, threadCol, ""), threadCol),
			runewidth.FillRight(runewidth.Truncate(e.Level, levelCol, ""), levelCol),
			runewidth.Truncate(e.Message, msgCol, "…"))
	}
}
