package newsapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/newsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *newsapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newsapi.New(srv.URL, "test-key", srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func TestTopHeadlinesMissingAuthor(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		assert.Equal(t, "stock market", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NotContains(t, r.URL.RawQuery, "test-key")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","totalResults":2,"articles":[
			{"title":"Stocks rally","description":"Markets &amp; <b>bonds</b> rise","publishedAt":"2024-03-07T21:45:10Z","urlToImage":"https://img.example/1.jpg"},
			{"author":"Jane Roe","title":"Futures slip","description":null,"publishedAt":"2024-03-06T08:00:00+02:00","urlToImage":null}
		]}`)
	})

	got, err := c.TopHeadlines(context.Background(), "stock market", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Empty(t, got[0].Author)
	require.Equal(t, "Stocks rally", got[0].Title)
	require.Equal(t, "Markets & bonds rise", got[0].Description)
	require.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), got[0].PublishedAt)
	require.Equal(t, "https://img.example/1.jpg", got[0].ImageURL)

	require.Equal(t, "Jane Roe", got[1].Author)
	require.Empty(t, got[1].Description)
	require.Empty(t, got[1].ImageURL)
	require.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), got[1].PublishedAt)
}

func TestTopHeadlinesBoundedByPageSize(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","articles":[{"title":"a"},{"title":"b"},{"title":"c"}]}`)
	})

	got, err := c.TopHeadlines(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Title)
	require.Equal(t, "b", got[1].Title)
}

func TestTopHeadlinesUnparsableDate(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","articles":[{"title":"a","publishedAt":"yesterday"}]}`)
	})

	got, err := c.TopHeadlines(context.Background(), "q", 5)
	require.NoError(t, err)
	require.True(t, got[0].PublishedAt.IsZero())
}

func TestTopHeadlinesStatusError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`)
	})

	_, err := c.TopHeadlines(context.Background(), "q", 5)
	var serr *newsapi.StatusError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	require.Equal(t, "apiKeyInvalid", serr.Code)
}

func TestTopHeadlinesMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>`},
		{name: "no articles", body: `{"status":"ok"}`},
		{name: "articles not array", body: `{"status":"ok","articles":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			_, err := c.TopHeadlines(context.Background(), "q", 5)
			require.Error(t, err)
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := newsapi.New("https://newsapi.org", " ", nil, nil)
	require.Error(t, err)
}

func TestTransportErrorDoesNotLeakKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := newsapi.New(srv.URL, "test-key", srv.Client(), nil)
	require.NoError(t, err)

	err = c.Health(context.Background(), "stock market")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "test-key")
}
