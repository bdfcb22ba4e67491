package trends

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/groovili/gogtrends"
	"golang.org/x/text/language"
)

const (
	timeseriesWidget = "TIMESERIES"
	geoMapWidget     = "GEO_MAP"
)

// ErrNoWidget is returned when the explore response lacks the widget an
// operation needs.
var ErrNoWidget = errors.New("trends: widget not found")

// GoogleSource queries Google Trends.
type GoogleSource struct {
	hl  string
	log *slog.Logger
}

// NewGoogleSource returns a Source speaking lang (a BCP 47 tag such as en-US).
func NewGoogleSource(lang string, logger *slog.Logger) (*GoogleSource, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("trends: language %q: %w", lang, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GoogleSource{hl: tag.String(), log: logger}, nil
}

func (g *GoogleSource) widget(ctx context.Context, q Query, id string) (*gogtrends.ExploreWidget, error) {
	items := make([]*gogtrends.ComparisonItem, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		items = append(items, &gogtrends.ComparisonItem{Keyword: kw, Geo: q.Geo, Time: q.Timeframe})
	}

	widgets, err := gogtrends.Explore(ctx, &gogtrends.ExploreRequest{
		ComparisonItems: items,
		Category:        q.Category,
		Property:        q.Property,
	}, g.hl)
	if err != nil {
		return nil, fmt.Errorf("trends: explore: %w", err)
	}

	for _, w := range widgets {
		if w != nil && strings.HasPrefix(w.ID, id) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoWidget, id)
}

// InterestOverTime implements Source.
func (g *GoogleSource) InterestOverTime(ctx context.Context, q Query) ([]RawPoint, error) {
	w, err := g.widget(ctx, q, timeseriesWidget)
	if err != nil {
		return nil, err
	}

	timeline, err := gogtrends.InterestOverTime(ctx, w, g.hl)
	if err != nil {
		return nil, fmt.Errorf("trends: interest over time: %w", err)
	}

	out := make([]RawPoint, 0, len(timeline))
	for _, t := range timeline {
		if t == nil {
			continue
		}
		sec, err := strconv.ParseInt(t.Time, 10, 64)
		if err != nil {
			g.log.Warn("skip timeline point", slog.String("time", t.Time), slog.Any("err", err))
			continue
		}
		out = append(out, RawPoint{
			Time:   time.Unix(sec, 0).UTC(),
			Values: toFloats(t.Value),
		})
	}
	return out, nil
}

// InterestByRegion implements Source.
func (g *GoogleSource) InterestByRegion(ctx context.Context, q Query) ([]RawRegion, error) {
	w, err := g.widget(ctx, q, geoMapWidget)
	if err != nil {
		return nil, err
	}

	geo, err := gogtrends.InterestByLocation(ctx, w, g.hl)
	if err != nil {
		return nil, fmt.Errorf("trends: interest by region: %w", err)
	}

	out := make([]RawRegion, 0, len(geo))
	for _, r := range geo {
		if r == nil {
			continue
		}
		out = append(out, RawRegion{
			GeoName: r.GeoName,
			GeoCode: r.GeoCode,
			Values:  toFloats(r.Value),
		})
	}
	return out, nil
}

func toFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
