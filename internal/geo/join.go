package geo

import (
	"github.com/paulmach/orb/geojson"

	"github.com/DeafMist/trend-dashboard/internal/models"
	"github.com/DeafMist/trend-dashboard/internal/trends"
)

// Feature properties written by FeatureCollection.
const (
	NameKey         = "name"
	CountryProperty = "Country"
	GeoCodeProperty = "geoCode"
	ScoreProperty   = "score"
)

// Rename maps score country names through aliases before the join.
func Rename(scores []trends.CountryScore, aliases map[string]string) []trends.CountryScore {
	out := make([]trends.CountryScore, len(scores))
	for i, s := range scores {
		if to, ok := aliases[s.Country]; ok {
			s.Country = to
		}
		out[i] = s
	}
	return out
}

// LeftJoin keeps every boundary, in order, and attaches the score whose
// country name matches exactly. Boundaries without a match get NoData.
// When several scores share a name the last one wins.
func LeftJoin(bs []Boundary, scores []trends.CountryScore) []models.RegionScore {
	byName := make(map[string]float64, len(scores))
	for _, s := range scores {
		byName[s.Country] = s.Value
	}

	out := make([]models.RegionScore, 0, len(bs))
	for _, b := range bs {
		score := models.NoData()
		if v, ok := byName[b.Country]; ok {
			score = models.ScoreOf(v)
		}
		out = append(out, models.RegionScore{
			Country:  b.Country,
			GeoCode:  b.GeoCode,
			Geometry: b.Geometry,
			Score:    score,
		})
	}
	return out
}

// ScoreRange returns the minimum and maximum of the numeric scores. ok is
// false when no row has a score.
func ScoreRange(rows []models.RegionScore) (low, high float64, ok bool) {
	for _, r := range rows {
		if !r.Score.Valid {
			continue
		}
		if !ok {
			low, high, ok = r.Score.Value, r.Score.Value, true
			continue
		}
		low = min(low, r.Score.Value)
		high = max(high, r.Score.Value)
	}
	return low, high, ok
}

// FeatureCollection re-emits joined rows as GeoJSON. Rows without a score
// carry the "No data" label in the score property.
func FeatureCollection(rows []models.RegionScore) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range rows {
		f := geojson.NewFeature(r.Geometry)
		f.Properties[NameKey] = r.Country
		f.Properties[CountryProperty] = r.Country
		f.Properties[GeoCodeProperty] = r.GeoCode
		if r.Score.Valid {
			f.Properties[ScoreProperty] = r.Score.Value
		} else {
			f.Properties[ScoreProperty] = models.NoDataLabel
		}
		fc.Append(f)
	}
	return fc
}
