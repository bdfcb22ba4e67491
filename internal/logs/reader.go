// Package logs reads the daily application log files.
package logs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/models"
)

// ErrNotFound is returned when no log file has been written for the day.
var ErrNotFound = errors.New("log file not found")

const (
	filePrefix = "info_"
	fileSuffix = ".log"
	dateLayout = "01-02-2006"
	fieldCount = 4
)

// FileName returns the log file name for the day of t: info_MM-DD-YYYY.log.
func FileName(t time.Time) string {
	return filePrefix + t.Format(dateLayout) + fileSuffix
}

// ParseFileName extracts the day stamped into a log file name.
func ParseFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	day, err := time.ParseInLocation(dateLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// ReadFile parses the log file at path.
func ReadFile(path string) ([]models.LogEntry, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from FileName
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads headerless "time, thread, level, message" rows in file order.
// Rows without exactly four fields are skipped.
func Parse(r io.Reader) ([]models.LogEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var entries []models.LogEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return entries, fmt.Errorf("read log: %w", err)
		}
		if len(rec) != fieldCount {
			continue
		}
		entries = append(entries, models.LogEntry{
			Time:    strings.TrimSpace(rec[0]),
			Thread:  strings.TrimSpace(rec[1]),
			Level:   strings.TrimSpace(rec[2]),
			Message: strings.TrimSpace(rec[3]),
		})
	}
}
