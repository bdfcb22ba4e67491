package trends

import (
	"sort"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/models"
)

// Series is the interest-over-time table: one point per calendar day,
// ascending, one value per keyword.
type Series struct {
	Keywords []string
	Points   []models.TrendPoint
}

// Values returns the column of keyword in date order.
func (s Series) Values(keyword string) []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, p.Values[keyword])
	}
	return out
}

// Dates returns the date column.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, p.Date)
	}
	return out
}

// BuildSeries shapes raw samples into a Series. Samples are reduced to their
// UTC calendar day and a later sample for the same day replaces an earlier
// one. Provisional days are kept as reported.
func BuildSeries(keywords []string, raw []RawPoint) Series {
	byDay := make(map[time.Time]models.TrendPoint, len(raw))
	for _, r := range raw {
		t := r.Time.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

		values := make(map[string]float64, len(keywords))
		for i, kw := range keywords {
			if i < len(r.Values) {
				values[kw] = r.Values[i]
			}
		}
		byDay[day] = models.TrendPoint{
			Date:   day,
			Year:   day.Year(),
			Month:  day.Month(),
			Values: values,
		}
	}

	points := make([]models.TrendPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return Series{Keywords: append([]string(nil), keywords...), Points: points}
}

// CountryScore is one country's interest for a single keyword.
type CountryScore struct {
	Country string
	GeoCode string
	Value   float64
}

// BuildCountryScores picks the column of keyword out of raw region rows.
// Rows that do not carry a value for the keyword are dropped.
func BuildCountryScores(keywords []string, keyword string, raw []RawRegion) []CountryScore {
	idx := -1
	for i, kw := range keywords {
		if kw == keyword {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	out := make([]CountryScore, 0, len(raw))
	for _, r := range raw {
		if idx >= len(r.Values) {
			continue
		}
		out = append(out, CountryScore{Country: r.GeoName, GeoCode: r.GeoCode, Value: r.Values[idx]})
	}
	return out
}
