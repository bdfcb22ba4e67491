package models

import (
	"strconv"
	"time"

	"github.com/paulmach/orb"
)

// NoDataLabel is how a missing score is displayed.
const NoDataLabel = "No data"

// TrendPoint is a single sampled day of search interest.
type TrendPoint struct {
	Date   time.Time
	Year   int
	Month  time.Month
	Values map[string]float64
}

// Score is either a numeric interest value or the "no data" sentinel.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf wraps a numeric interest value.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// NoData returns the sentinel used for countries without a score.
func NoData() Score {
	return Score{}
}

func (s Score) String() string {
	if !s.Valid {
		return NoDataLabel
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// RegionScore is one boundary polygon joined with its interest score.
type RegionScore struct {
	Country  string
	GeoCode  string
	Geometry orb.Geometry
	Score    Score
}
