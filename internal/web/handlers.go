package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeafMist/trend-dashboard/internal/chart"
	"github.com/DeafMist/trend-dashboard/internal/geo"
	"github.com/DeafMist/trend-dashboard/internal/logger"
	"github.com/DeafMist/trend-dashboard/internal/logs"
	"github.com/DeafMist/trend-dashboard/internal/models"
	"github.com/DeafMist/trend-dashboard/internal/trends"
)

type page struct {
	Title       string
	Active      string
	ChartScript string
}

type indexPage struct {
	page
	Query    string
	Articles []models.Article
	Chart    chart.Fragment
}

type regionPage struct {
	page
	Keyword   string
	HasScores bool
	Low       float64
	High      float64
	Matched   int
	Total     int
	Chart     chart.Fragment
}

type errorsPage struct {
	page
	Day     string
	File    string
	Missing bool
	Entries []models.LogEntry
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := trends.NewSession(s.trends, s.settings.Trends)

	var (
		articles []models.Article
		frag     chart.Fragment
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		articles, err = s.news.TopHeadlines(ctx, s.settings.NewsQuery, s.settings.PageSize)
		return err
	})
	g.Go(func() error {
		series, err := session.Series(ctx)
		if err != nil {
			return err
		}
		frag, err = chart.TimeSeries(series, chart.TimeSeriesOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, "render index", err)
		return
	}

	s.render(w, r, "index", indexPage{
		page:     page{Title: "Headlines", Active: "home", ChartScript: chart.ScriptURL},
		Query:    s.settings.NewsQuery,
		Articles: articles,
		Chart:    frag,
	})
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := trends.NewSession(s.trends, s.settings.Trends)
	keyword := s.settings.RegionKeyword

	scores, err := session.ByRegion(ctx, keyword)
	if err != nil {
		s.fail(w, r, "fetch interest by region", err)
		return
	}

	boundaries, err := s.boundaries()
	if err != nil {
		s.fail(w, r, "load boundaries", err)
		return
	}

	boundaries = geo.Exclude(boundaries, s.settings.Exclude...)
	rows := geo.LeftJoin(boundaries, geo.Rename(scores, s.settings.Aliases))
	low, high, ok := geo.ScoreRange(rows)

	frag, err := chart.Choropleth(rows, low, high, chart.ChoroplethOptions{Label: keyword + " Interest"})
	if err != nil {
		s.fail(w, r, "build choropleth", err)
		return
	}

	matched := 0
	for _, row := range rows {
		if row.Score.Valid {
			matched++
		}
	}
	logger.FromContext(ctx).Debug("joined region scores",
		slog.String("keyword", keyword),
		slog.String("timeframe", session.Query().Timeframe),
		slog.Int("boundaries", len(rows)),
		slog.Int("scores", len(scores)),
		slog.Int("matched", matched),
	)

	s.render(w, r, "region", regionPage{
		page:      page{Title: "By region", Active: "region", ChartScript: chart.ScriptURL},
		Keyword:   keyword,
		HasScores: ok,
		Low:       low,
		High:      high,
		Matched:   matched,
		Total:     len(rows),
		Chart:     frag,
	})
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	name := logs.FileName(now)

	data := errorsPage{
		page: page{Title: "Log", Active: "errors", ChartScript: chart.ScriptURL},
		Day:  now.Format("01-02-2006"),
		File: name,
	}

	entries, err := logs.ReadFile(filepath.Join(s.settings.LogDir, name))
	switch {
	case errors.Is(err, logs.ErrNotFound):
		data.Missing = true
	case err != nil:
		s.fail(w, r, "read log", err)
		return
	default:
		data.Entries = entries
	}

	s.render(w, r, "errors", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.news.Health(ctx, s.settings.NewsQuery); err != nil {
		logger.FromContext(r.Context()).Warn("health check failed", slog.Any("err", err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "news source unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		s.fail(w, r, "execute "+name+" template", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// fail reports err at the request boundary. No fallback content is served.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.FromContext(r.Context()).Error(op, slog.Any("err", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
