package trends_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/trends"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	points     []trends.RawPoint
	regions    []trends.RawRegion
	err        error
	timeCalls  int
	regionCall int
}

func (f *fakeSource) InterestOverTime(context.Context, trends.Query) ([]trends.RawPoint, error) {
	f.timeCalls++
	return f.points, f.err
}

func (f *fakeSource) InterestByRegion(context.Context, trends.Query) ([]trends.RawRegion, error) {
	f.regionCall++
	return f.regions, f.err
}

var query = trends.Query{Keywords: []string{"Coronavirus", "Stock market"}, Timeframe: "today 3-m"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildSeriesOnePointPerDay(t *testing.T) {
	raw := []trends.RawPoint{
		{Time: day(2024, 1, 3), Values: []float64{30, 3}},
		{Time: day(2024, 1, 1), Values: []float64{10, 1}},
		{Time: day(2024, 1, 2).Add(6 * time.Hour), Values: []float64{20, 2}},
		{Time: day(2024, 1, 2), Values: []float64{21, 2}},
		{Time: day(2024, 2, 1), Values: []float64{40, 4}},
	}

	s := trends.BuildSeries(query.Keywords, raw)
	require.Len(t, s.Points, 4)
	require.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 2, 1)}, s.Dates())
	require.Equal(t, []float64{10, 21, 30, 40}, s.Values("Coronavirus"))
	require.Equal(t, []float64{1, 2, 3, 4}, s.Values("Stock market"))

	last := s.Points[3]
	require.Equal(t, 2024, last.Year)
	require.Equal(t, time.February, last.Month)
	require.Len(t, last.Values, 2)
}

func TestBuildCountryScores(t *testing.T) {
	raw := []trends.RawRegion{
		{GeoName: "Japan", GeoCode: "JP", Values: []float64{55, 12}},
		{GeoName: "Chad", GeoCode: "TD", Values: []float64{7}},
	}

	got := trends.BuildCountryScores(query.Keywords, "Stock market", raw)
	require.Equal(t, []trends.CountryScore{{Country: "Japan", GeoCode: "JP", Value: 12}}, got)

	got = trends.BuildCountryScores(query.Keywords, "Coronavirus", raw)
	require.Len(t, got, 2)

	require.Nil(t, trends.BuildCountryScores(query.Keywords, "Bitcoin", raw))
}

func TestSessionCallsUpstreamOnce(t *testing.T) {
	src := &fakeSource{
		points:  []trends.RawPoint{{Time: day(2024, 1, 1), Values: []float64{1, 2}}},
		regions: []trends.RawRegion{{GeoName: "Japan", GeoCode: "JP", Values: []float64{5, 6}}},
	}
	s := trends.NewSession(src, query)
	require.Equal(t, query.Key(), s.Query().Key())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		series, err := s.Series(ctx)
		require.NoError(t, err)
		require.Len(t, series.Points, 1)
	}
	for _, kw := range query.Keywords {
		_, err := s.ByRegion(ctx, kw)
		require.NoError(t, err)
	}

	require.Equal(t, 1, src.timeCalls)
	require.Equal(t, 1, src.regionCall)

	_, err := s.ByRegion(ctx, "unknown")
	require.Error(t, err)
}

func TestSessionPropagatesErrors(t *testing.T) {
	boom := errors.New("upstream down")
	s := trends.NewSession(&fakeSource{err: boom}, query)

	_, err := s.Series(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = s.ByRegion(context.Background(), "Coronavirus")
	require.ErrorIs(t, err, boom)
}

func TestCachedSharesResultsAcrossSessions(t *testing.T) {
	src := &fakeSource{points: []trends.RawPoint{{Time: day(2024, 1, 1), Values: []float64{1, 2}}}}
	cached := trends.NewCached(src, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := trends.NewSession(cached, query).Series(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 1, src.timeCalls)

	other := query
	other.Timeframe = "today 12-m"
	_, err := trends.NewSession(cached, other).Series(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, src.timeCalls)
}

func TestCachedDoesNotKeepErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("429")}
	cached := trends.NewCached(src, time.Minute)

	_, err := cached.InterestByRegion(context.Background(), query)
	require.Error(t, err)

	src.err = nil
	_, err = cached.InterestByRegion(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 2, src.regionCall)
}

func TestNewGoogleSourceValidatesLanguage(t *testing.T) {
	_, err := trends.NewGoogleSource("en-US", nil)
	require.NoError(t, err)

	_, err = trends.NewGoogleSource("!!", nil)
	require.Error(t, err)
}
