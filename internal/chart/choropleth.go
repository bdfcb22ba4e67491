package chart

import (
	"fmt"
	"html"
	"math"

	"github.com/DeafMist/trend-dashboard/internal/geo"
	"github.com/DeafMist/trend-dashboard/internal/models"
)

// Palette is the reversed 8-step OrRd scale, light for low interest.
var Palette = []string{
	"#fff7ec", "#fee8c8", "#fdd49e", "#fdbb84",
	"#fc8d59", "#ef6548", "#d7301f", "#990000",
}

// NoDataColor fills polygons that have no score.
const NoDataColor = "#7f7f7f"

// Color maps v linearly onto Palette between low and high. Values outside
// the range are clamped to the first or last colour.
func Color(v, low, high float64) string {
	n := len(Palette)
	if high <= low {
		return Palette[n-1]
	}
	idx := int(math.Floor((v - low) / (high - low) * float64(n)))
	idx = max(0, min(idx, n-1))
	return Palette[idx]
}

// Bin is one colour step of the map legend. Values v with
// Low <= v < High fall into the bin; the last bin also holds High.
type Bin struct {
	Low   float64
	High  float64
	Color string
}

// Bins splits low..high into the len(Palette) equal steps Color uses. A
// degenerate range yields a single bin in the darkest colour.
func Bins(low, high float64) []Bin {
	n := len(Palette)
	if high <= low {
		return []Bin{{Low: low, High: high, Color: Palette[n-1]}}
	}
	step := (high - low) / float64(n)
	out := make([]Bin, n)
	for i := range out {
		out[i] = Bin{Low: low + float64(i)*step, High: low + float64(i+1)*step, Color: Palette[i]}
	}
	out[n-1].High = high
	return out
}

// ScoreColor is Color for a Score, with NoData mapped to NoDataColor.
func ScoreColor(s models.Score, low, high float64) string {
	if !s.Valid {
		return NoDataColor
	}
	return Color(s.Value, low, high)
}

// ChoroplethOptions size and label the map.
type ChoroplethOptions struct {
	ID      string
	Width   string
	Height  string
	MapName string
	Label   string
}

func (o ChoroplethOptions) withDefaults() ChoroplethOptions {
	if o.ID == "" {
		o.ID = "trend-region"
	}
	if o.Width == "" {
		o.Width = "860px"
	}
	if o.Height == "" {
		o.Height = "370px"
	}
	if o.MapName == "" {
		o.MapName = "countries"
	}
	if o.Label == "" {
		o.Label = "Interest"
	}
	return o
}

type mapOption struct {
	BackgroundColor string      `json:"backgroundColor"`
	Tooltip         tooltip     `json:"tooltip"`
	VisualMap       *visualMap  `json:"visualMap,omitempty"`
	Series          []mapSeries `json:"series"`
}

type tooltip struct {
	Show      bool   `json:"show"`
	Trigger   string `json:"trigger,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

type visualMap struct {
	Type        string    `json:"type"`
	Pieces      []piece   `json:"pieces"`
	Orient      string    `json:"orient"`
	Left        string    `json:"left"`
	Top         string    `json:"top"`
	ItemWidth   int       `json:"itemWidth"`
	ItemHeight  int       `json:"itemHeight"`
	OutOfRange  colorList `json:"outOfRange"`
	TextStyle   textStyle `json:"textStyle"`
	SeriesIndex []int     `json:"seriesIndex"`
}

// piece bounds are inclusive below and exclusive above, except for the
// last piece, which closes the range.
type piece struct {
	Gte   float64  `json:"gte"`
	Lt    *float64 `json:"lt,omitempty"`
	Lte   *float64 `json:"lte,omitempty"`
	Color string   `json:"color"`
}

func pieces(bins []Bin) []piece {
	out := make([]piece, len(bins))
	for i, b := range bins {
		high := b.High
		out[i] = piece{Gte: b.Low, Color: b.Color}
		if i == len(bins)-1 {
			out[i].Lte = &high
		} else {
			out[i].Lt = &high
		}
	}
	return out
}

type colorList struct {
	Color []string `json:"color"`
}

type textStyle struct {
	Color string `json:"color"`
}

type mapSeries struct {
	Type         string    `json:"type"`
	Map          string    `json:"map"`
	NameProperty string    `json:"nameProperty"`
	Roam         bool      `json:"roam"`
	ItemStyle    itemStyle `json:"itemStyle"`
	Emphasis     emphasis  `json:"emphasis"`
	Data         []mapItem `json:"data"`
}

type itemStyle struct {
	AreaColor   string  `json:"areaColor,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
}

type emphasis struct {
	Label     label     `json:"label"`
	ItemStyle itemStyle `json:"itemStyle"`
}

type label struct {
	Show bool `json:"show"`
}

type mapItem struct {
	Name      string    `json:"name"`
	Value     *float64  `json:"value,omitempty"`
	ItemStyle itemStyle `json:"itemStyle"`
	Tooltip   tooltip   `json:"tooltip"`
}

// Choropleth draws one filled polygon per row, coloured on a linear scale
// between low and high, with a colour legend and a tooltip per country.
// Rows without a score are drawn in NoDataColor and stay off the scale.
func Choropleth(rows []models.RegionScore, low, high float64, o ChoroplethOptions) (Fragment, error) {
	o = o.withDefaults()

	items := make([]mapItem, 0, len(rows))
	for _, r := range rows {
		item := mapItem{
			Name:      r.Country,
			ItemStyle: itemStyle{AreaColor: ScoreColor(r.Score, low, high)},
			Tooltip: tooltip{
				Show:      true,
				Formatter: fmt.Sprintf("Country: %s<br/>%s: %s", html.EscapeString(r.Country), html.EscapeString(o.Label), r.Score),
			},
		}
		if r.Score.Valid {
			v := r.Score.Value
			item.Value = &v
		}
		items = append(items, item)
	}

	option := mapOption{
		BackgroundColor: "transparent",
		Tooltip:         tooltip{Show: true, Trigger: "item"},
		VisualMap: &visualMap{
			Type:        "piecewise",
			Pieces:      pieces(Bins(low, high)),
			Orient:      "vertical",
			Left:        "right",
			Top:         "center",
			ItemWidth:   9,
			ItemHeight:  20,
			OutOfRange:  colorList{Color: []string{NoDataColor}},
			TextStyle:   textStyle{Color: "white"},
			SeriesIndex: []int{0},
		},
		Series: []mapSeries{{
			Type:         "map",
			Map:          o.MapName,
			NameProperty: geo.NameKey,
			Roam:         true,
			ItemStyle:    itemStyle{AreaColor: NoDataColor, BorderColor: "black", BorderWidth: 0.5},
			Emphasis:     emphasis{ItemStyle: itemStyle{BorderColor: "white", BorderWidth: 1}},
			Data:         items,
		}},
	}

	optionJS, err := marshalJS(option)
	if err != nil {
		return Fragment{}, fmt.Errorf("encode map chart: %w", err)
	}
	geoJS, err := marshalJS(geo.FeatureCollection(rows))
	if err != nil {
		return Fragment{}, fmt.Errorf("encode map geometry: %w", err)
	}

	return render(snippet{
		ID:      o.ID,
		Width:   o.Width,
		Height:  o.Height,
		Option:  optionJS,
		MapName: o.MapName,
		GeoJSON: geoJS,
	})
}
