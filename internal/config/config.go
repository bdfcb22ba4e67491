package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// News configures the headline fetcher.
type News struct {
	BaseURL  string
	APIKey   string
	Query    string
	PageSize int
	Timeout  time.Duration
}

// Trends configures the search-interest queries.
type Trends struct {
	Keywords  []string
	Timeframe string
	Geo       string
	Language  string
	CacheTTL  time.Duration
}

// Geo configures the boundary dataset and the join.
type Geo struct {
	BoundariesPath string
	Exclude        []string
	Aliases        map[string]string
}

// Logs configures the daily log files and their retention.
type Logs struct {
	Dir               string
	RetentionInterval time.Duration
	RetentionMaxAge   time.Duration
}

// Dashboard holds the full configuration of the dashboard server.
type Dashboard struct {
	BindAddr string
	News     News
	Trends   Trends
	Geo      Geo
	Logs     Logs
}

// LoadDashboard builds a Dashboard config from an optional YAML file overlaid
// with environment variables.
func LoadDashboard() (*Dashboard, error) {
	f, err := loadFile(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		return nil, err
	}

	c := &Dashboard{
		BindAddr: getEnv("DASHBOARD_BIND_ADDR", f.str(f.BindAddr, "127.0.0.1:5000")),
		News: News{
			BaseURL:  getEnv("NEWSAPI_BASE_URL", f.str(f.News.BaseURL, "https://newsapi.org")),
			APIKey:   getEnv("NEWSAPI_KEY", f.News.APIKey),
			Query:    getEnv("NEWS_QUERY", f.str(f.News.Query, "stock market")),
			PageSize: getInt("NEWS_PAGE_SIZE", f.num(f.News.PageSize, 20)),
			Timeout:  getDuration("NEWS_TIMEOUT", f.str(f.News.Timeout, "10s")),
		},
		Trends: Trends{
			Keywords:  splitAndTrim(getEnv("TRENDS_KEYWORDS", f.list(f.Trends.Keywords, "Coronavirus,Stock market"))),
			Timeframe: getEnv("TRENDS_TIMEFRAME", f.str(f.Trends.Timeframe, "today 3-m")),
			Geo:       getEnv("TRENDS_GEO", f.Trends.Geo),
			Language:  getEnv("TRENDS_LANGUAGE", f.str(f.Trends.Language, "en-US")),
			CacheTTL:  getDuration("TRENDS_CACHE_TTL", f.str(f.Trends.CacheTTL, "10m")),
		},
		Geo: Geo{
			BoundariesPath: getEnv("GEO_BOUNDARIES_PATH", f.Geo.BoundariesPath),
			Exclude:        splitAndTrim(getEnvOrEmpty("GEO_EXCLUDE", f.list(f.Geo.Exclude, "Antarctica,North Korea"))),
			Aliases:        parseAliases(getEnvOrEmpty("GEO_ALIASES", f.aliases(f.Geo.Aliases, "United States=United States of America"))),
		},
		Logs: Logs{
			Dir:               getEnv("LOG_DIR", f.str(f.Logs.Dir, ".")),
			RetentionInterval: getDuration("LOG_RETENTION_INTERVAL", f.str(f.Logs.RetentionInterval, "24h")),
			RetentionMaxAge:   getDuration("LOG_RETENTION_MAX_AGE", f.str(f.Logs.RetentionMaxAge, "720h")),
		},
	}

	if c.News.APIKey == "" {
		return nil, fmt.Errorf("NEWSAPI_KEY must be set")
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return nil, fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100")
	}
	if c.News.Timeout <= 0 {
		return nil, fmt.Errorf("NEWS_TIMEOUT must be positive")
	}
	if len(c.Trends.Keywords) != 2 {
		return nil, fmt.Errorf("TRENDS_KEYWORDS must contain exactly two keywords")
	}
	if _, err := language.Parse(c.Trends.Language); err != nil {
		return nil, fmt.Errorf("TRENDS_LANGUAGE %q: %w", c.Trends.Language, err)
	}
	if c.Logs.RetentionInterval <= 0 {
		return nil, fmt.Errorf("LOG_RETENTION_INTERVAL must be positive")
	}
	if c.Logs.RetentionMaxAge <= 0 {
		return nil, fmt.Errorf("LOG_RETENTION_MAX_AGE must be positive")
	}

	return c, nil
}

// LogDir resolves only the log directory, for commands that read logs
// without needing the rest of the configuration.
func LogDir() (string, error) {
	f, err := loadFile(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		return "", err
	}
	return getEnv("LOG_DIR", f.str(f.Logs.Dir, ".")), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvOrEmpty is getEnv for list keys, where a set but empty variable
// means "none" rather than "default".
func getEnvOrEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseAliases reads "from=to" pairs separated by commas.
func parseAliases(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range splitAndTrim(raw) {
		from, to, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from != "" && to != "" {
			out[from] = to
		}
	}
	return out
}
