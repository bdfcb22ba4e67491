package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/models"
	"github.com/DeafMist/trend-dashboard/internal/processing"
)

const headlinesPath = "/v2/top-headlines"

// Client wraps the news search endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
	text    *processing.Sanitizer
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("newsapi: http %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi: http %d", e.StatusCode)
}

// New instantiates the news client. httpClient may be nil.
func New(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("newsapi: api key is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("newsapi: base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     logger,
		text:    processing.NewSanitizer(),
	}, nil
}

type article struct {
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PublishedAt *string `json:"publishedAt"`
	URLToImage  *string `json:"urlToImage"`
}

type headlinesResponse struct {
	Status   string     `json:"status"`
	Articles *[]article `json:"articles"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TopHeadlines returns at most pageSize articles matching query, in the order
// the endpoint returned them.
func (c *Client) TopHeadlines(ctx context.Context, query string, pageSize int) ([]models.Article, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("newsapi: page size must be positive, got %d", pageSize)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+headlinesPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: http: %w", c.redact(err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("newsapi: read body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		serr := &StatusError{StatusCode: res.StatusCode}
		var parsed errorResponse
		if json.Unmarshal(body, &parsed) == nil {
			serr.Code = parsed.Code
			serr.Message = parsed.Message
		}
		return nil, serr
	}

	var parsed headlinesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}
	if parsed.Articles == nil {
		return nil, errors.New("newsapi: response has no articles array")
	}

	raw := *parsed.Articles
	if len(raw) > pageSize {
		raw = raw[:pageSize]
	}

	out := make([]models.Article, 0, len(raw))
	for _, a := range raw {
		out = append(out, models.Article{
			Author:      deref(a.Author),
			Title:       c.text.Plain(deref(a.Title)),
			Description: c.text.Plain(deref(a.Description)),
			PublishedAt: parseDate(deref(a.PublishedAt)),
			ImageURL:    deref(a.URLToImage),
		})
	}

	c.log.Debug("fetched headlines",
		slog.String("query", query),
		slog.Int("count", len(out)),
		slog.Duration("took", time.Since(start)),
	)
	return out, nil
}

// Health issues the smallest possible headline request for query.
func (c *Client) Health(ctx context.Context, query string) error {
	_, err := c.TopHeadlines(ctx, query, 1)
	return err
}

// redact removes the api key from transport errors, which quote the
// request URL.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(c.apiKey), "REDACTED")
		uerr.URL = strings.ReplaceAll(uerr.URL, c.apiKey, "REDACTED")
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseDate keeps only the calendar date of an RFC 3339 timestamp.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}
