// Package web serves the dashboard pages.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/trend-dashboard/internal/geo"
	"github.com/DeafMist/trend-dashboard/internal/models"
	"github.com/DeafMist/trend-dashboard/internal/trends"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Headlines fetches news articles.
type Headlines interface {
	TopHeadlines(ctx context.Context, query string, pageSize int) ([]models.Article, error)
	Health(ctx context.Context, query string) error
}

// BoundarySource returns the country boundaries to draw.
type BoundarySource func() ([]geo.Boundary, error)

// Settings are the fixed query parameters of the pages.
type Settings struct {
	NewsQuery     string
	PageSize      int
	Trends        trends.Query
	RegionKeyword string
	Exclude       []string
	Aliases       map[string]string
	LogDir        string
}

// Server renders the dashboard pages.
type Server struct {
	log        *slog.Logger
	news       Headlines
	trends     trends.Source
	boundaries BoundarySource
	settings   Settings
	now        func() time.Time
	pages      map[string]*template.Template
}

// New builds a Server. now may be nil.
func New(log *slog.Logger, news Headlines, src trends.Source, boundaries BoundarySource, settings Settings, now func() time.Time) (*Server, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if now == nil {
		now = time.Now
	}
	if settings.RegionKeyword == "" && len(settings.Trends.Keywords) > 0 {
		settings.RegionKeyword = settings.Trends.Keywords[0]
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		log:        log,
		news:       news,
		trends:     src,
		boundaries: boundaries,
		settings:   settings,
		now:        now,
		pages:      pages,
	}, nil
}

// Routes returns the HTTP handler of the dashboard.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Get("/region", s.handleRegion)
	r.Get("/errors", s.handleErrors)
	r.Get("/health", s.handleHealth)
	return r
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"lower": strings.ToLower,
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"index", "region", "errors"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
