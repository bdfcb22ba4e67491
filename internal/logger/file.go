package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/logs"
)

// TimeLayout is the timestamp layout of the first log column.
const TimeLayout = "2006-01-02 15:04:05"

// ComponentKey names the attribute that fills the thread column.
const ComponentKey = "component"

// DailyFile is an append-only writer that switches to a new
// info_<MM-DD-YYYY>.log file when the calendar date changes.
type DailyFile struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
	day string
	f   *os.File
}

// NewDailyFile opens today's log file in dir, creating dir if needed.
func NewDailyFile(dir string) (*DailyFile, error) {
	return NewDailyFileWithClock(dir, time.Now)
}

// NewDailyFileWithClock is NewDailyFile with an injectable clock.
func NewDailyFileWithClock(dir string, now func() time.Time) (*DailyFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	d := &DailyFile{dir: dir, now: now}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.rotate(now()); err != nil {
		return nil, err
	}
	return d, nil
}

// Write appends p to the file for the current day.
func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return 0, os.ErrClosed
	}
	if err := d.rotate(d.now()); err != nil {
		return 0, err
	}
	return d.f.Write(p)
}

// Path returns the file currently written to.
func (d *DailyFile) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return filepath.Join(d.dir, d.day)
}

// Close closes the current file. Further writes fail.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

func (d *DailyFile) rotate(now time.Time) error {
	name := logs.FileName(now)
	if d.f != nil && name == d.day {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if d.f != nil {
		_ = d.f.Close()
	}
	d.f = f
	d.day = name
	return nil
}

// FileHandler writes records as "time, thread, level, message" lines.
// The thread column holds the component attribute, or the service name
// when no component is set.
type FileHandler struct {
	w       io.Writer
	service string
	level   slog.Leveler
	attrs   []slog.Attr
	groups  []string
}

// NewFileHandler returns a FileHandler writing to w.
func NewFileHandler(w io.Writer, service string, opts *slog.HandlerOptions) *FileHandler {
	h := &FileHandler{w: w, service: service, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *FileHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FileHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	thread := h.service
	var msg strings.Builder
	msg.WriteString(r.Message)

	appendAttr := func(key string, v slog.Value) {
		switch key {
		case ComponentKey:
			thread = v.String()
			return
		case "service":
			return
		}
		msg.WriteByte(' ')
		msg.WriteString(key)
		msg.WriteByte('=')
		msg.WriteString(formatValue(v))
	}

	for _, a := range h.attrs {
		appendAttr(a.Key, a.Value.Resolve())
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		appendAttr(key, a.Value.Resolve())
		return true
	})

	var line bytes.Buffer
	line.WriteString(ts.Format(TimeLayout))
	line.WriteString(", ")
	line.WriteString(quoteField(fmt.Sprintf("%-12.12s", thread)))
	line.WriteString(", ")
	line.WriteString(fmt.Sprintf("%-5.5s", r.Level.String()))
	line.WriteString(", ")
	line.WriteString(quoteField(msg.String()))
	line.WriteByte('\n')

	_, err := h.w.Write(line.Bytes())
	return err
}

func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" && a.Key != ComponentKey {
			a.Key = prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *FileHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

func formatValue(v slog.Value) string {
	s := v.String()
	if strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}

// quoteField applies CSV quoting when the field would otherwise split the row.
func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
