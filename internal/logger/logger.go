package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// New constructs a text logger with the desired log level.
func New(service string) *slog.Logger {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: Level()})
	return slog.New(h).With("service", service)
}

// Level reads the configured level from LOG_LEVEL.
func Level() slog.Level {
	return parseLevel(os.Getenv("LOG_LEVEL"))
}

var (
	setupOnce   sync.Once
	setupLogger *slog.Logger
	setupFile   *DailyFile
	setupErr    error
)

// Setup configures the process-wide logger exactly once: records go to the
// console and to the daily log file in dir. Later calls return the logger
// built by the first one, whatever their arguments.
func Setup(service, dir string) (*slog.Logger, *DailyFile, error) {
	setupOnce.Do(func() {
		setupLogger, setupFile, setupErr = NewWithFile(service, dir, Level())
	})
	return setupLogger, setupFile, setupErr
}

// NewWithFile builds a logger that fans out to stdout and to a DailyFile in dir.
func NewWithFile(service, dir string, level slog.Level) (*slog.Logger, *DailyFile, error) {
	file, err := NewDailyFile(dir)
	if err != nil {
		return nil, nil, err
	}

	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	csv := NewFileHandler(file, service, &slog.HandlerOptions{Level: level})

	return slog.New(Fanout(console, csv)).With("service", service), file, nil
}

type ctxKey struct{}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by WithContext, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
