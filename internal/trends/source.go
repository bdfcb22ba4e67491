// Package trends fetches search-interest data and shapes it for charts.
package trends

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Query selects keywords, window and scope of a search-interest request.
type Query struct {
	Keywords  []string
	Timeframe string
	Geo       string
	Category  int
	Property  string
}

// Key identifies the query for caching.
func (q Query) Key() string {
	return strings.Join([]string{
		strings.Join(q.Keywords, "\x1f"),
		q.Timeframe,
		q.Geo,
		strconv.Itoa(q.Category),
		q.Property,
	}, "\x1e")
}

// RawPoint is one sample of the interest-over-time response. Values are
// ordered like Query.Keywords.
type RawPoint struct {
	Time   time.Time
	Values []float64
}

// RawRegion is one country of the interest-by-region response.
type RawRegion struct {
	GeoName string
	GeoCode string
	Values  []float64
}

// Source is the search-interest API.
type Source interface {
	InterestOverTime(ctx context.Context, q Query) ([]RawPoint, error)
	InterestByRegion(ctx context.Context, q Query) ([]RawRegion, error)
}
