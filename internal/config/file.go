package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "dashboard.yaml"

// xdgConfigFile is the path relative to the XDG config directories.
const xdgConfigFile = "trend-dashboard/config.yaml"

// File is the optional YAML configuration. Environment variables take
// precedence over every value in it.
type File struct {
	BindAddr string `yaml:"bind_addr"`
	News     struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Query    string `yaml:"query"`
		PageSize int    `yaml:"page_size"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"news"`
	Trends struct {
		Keywords  []string `yaml:"keywords"`
		Timeframe string   `yaml:"timeframe"`
		Geo       string   `yaml:"geo"`
		Language  string   `yaml:"language"`
		CacheTTL  string   `yaml:"cache_ttl"`
	} `yaml:"trends"`
	Geo struct {
		BoundariesPath string            `yaml:"boundaries_path"`
		Exclude        []string          `yaml:"exclude"`
		Aliases        map[string]string `yaml:"aliases"`
	} `yaml:"geo"`
	Logs struct {
		Dir               string `yaml:"dir"`
		RetentionInterval string `yaml:"retention_interval"`
		RetentionMaxAge   string `yaml:"retention_max_age"`
	} `yaml:"logs"`
}

// FindConfigFile resolves the config file location:
// 1. explicit path, if given
// 2. dashboard.yaml in the working directory
// 3. trend-dashboard/config.yaml in the XDG config directories
//
// It returns an empty string when nothing is found.
func FindConfigFile(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if found, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return found
	}

	return ""
}

// LoadConfigFile parses a YAML config file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for name, raw := range map[string]string{
		"news.timeout":            f.News.Timeout,
		"trends.cache_ttl":        f.Trends.CacheTTL,
		"logs.retention_interval": f.Logs.RetentionInterval,
		"logs.retention_max_age":  f.Logs.RetentionMaxAge,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("parse %s: %s: %w", path, name, err)
		}
	}

	return &f, nil
}

// loadFile returns an empty File when no config file exists and none was
// explicitly requested.
func loadFile(explicit string) (*File, error) {
	path := FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return nil, fmt.Errorf("%s: %w", explicit, ErrConfigNotFound)
		}
		return &File{}, nil
	}
	return LoadConfigFile(path)
}

func (f *File) str(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func (f *File) num(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

// list and aliases treat an explicitly empty YAML value as "none".
func (f *File) list(v []string, fallback string) string {
	if v != nil {
		return strings.Join(v, ",")
	}
	return fallback
}

func (f *File) aliases(v map[string]string, fallback string) string {
	if v == nil {
		return fallback
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+v[k])
	}
	return strings.Join(pairs, ",")
}
