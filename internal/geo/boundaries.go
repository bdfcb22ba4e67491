// Package geo loads country boundaries and joins them with interest scores.
package geo

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Column names of the boundary dataset.
const (
	NameProperty = "ADMIN"
	CodeProperty = "ADM0_A3"
)

//go:embed data/countries.geojson
var bundled []byte

// Boundary is one country polygon of the boundary dataset.
type Boundary struct {
	Country  string
	GeoCode  string
	Geometry orb.Geometry
}

// Default returns the bundled Natural Earth 1:110m admin-0 countries.
func Default() ([]Boundary, error) {
	return LoadBoundaries(bytes.NewReader(bundled))
}

// LoadFile reads a GeoJSON boundary file such as the Natural Earth
// admin-0 countries export.
func LoadFile(path string) ([]Boundary, error) {
	f, err := os.Open(path) //nolint:gosec // operator-provided dataset path
	if err != nil {
		return nil, fmt.Errorf("open boundaries: %w", err)
	}
	defer f.Close()
	return LoadBoundaries(f)
}

// LoadBoundaries parses a GeoJSON feature collection. Features without a
// polygonal geometry or without an ADMIN name are rejected.
func LoadBoundaries(r io.Reader) ([]Boundary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}

	out := make([]Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := f.Properties.MustString(NameProperty, "")
		if name == "" {
			return nil, fmt.Errorf("feature %d: missing %s", i, NameProperty)
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, fmt.Errorf("feature %d (%s): unsupported geometry %T", i, name, f.Geometry)
		}
		out = append(out, Boundary{
			Country:  name,
			GeoCode:  f.Properties.MustString(CodeProperty, ""),
			Geometry: f.Geometry,
		})
	}
	return out, nil
}

// Exclude drops boundaries whose country is one of names.
func Exclude(bs []Boundary, names ...string) []Boundary {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := make([]Boundary, 0, len(bs))
	for _, b := range bs {
		if _, ok := skip[b.Country]; ok {
			continue
		}
		out = append(out, b)
	}
	return out
}
