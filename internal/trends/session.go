package trends

import (
	"context"
	"fmt"
	"sync"
)

// Session is one request's view of the search-interest API. Every operation
// reaches the upstream at most once per session; later calls reuse the
// first result, including its error.
type Session struct {
	src   Source
	query Query

	seriesOnce sync.Once
	series     Series
	seriesErr  error

	regionOnce sync.Once
	regions    []RawRegion
	regionErr  error
}

// NewSession binds src to q.
func NewSession(src Source, q Query) *Session {
	return &Session{src: src, query: q}
}

// Query returns the query the session was built for.
func (s *Session) Query() Query {
	return s.query
}

// Series returns the interest-over-time table for the session's keywords.
func (s *Session) Series(ctx context.Context) (Series, error) {
	s.seriesOnce.Do(func() {
		raw, err := s.src.InterestOverTime(ctx, s.query)
		if err != nil {
			s.seriesErr = err
			return
		}
		s.series = BuildSeries(s.query.Keywords, raw)
	})
	return s.series, s.seriesErr
}

// ByRegion returns one score per country for keyword, which must be one of
// the session's keywords.
func (s *Session) ByRegion(ctx context.Context, keyword string) ([]CountryScore, error) {
	if !s.hasKeyword(keyword) {
		return nil, fmt.Errorf("trends: keyword %q is not part of the query", keyword)
	}
	s.regionOnce.Do(func() {
		s.regions, s.regionErr = s.src.InterestByRegion(ctx, s.query)
	})
	if s.regionErr != nil {
		return nil, s.regionErr
	}
	return BuildCountryScores(s.query.Keywords, keyword, s.regions), nil
}

func (s *Session) hasKeyword(keyword string) bool {
	for _, kw := range s.query.Keywords {
		if kw == keyword {
			return true
		}
	}
	return false
}
