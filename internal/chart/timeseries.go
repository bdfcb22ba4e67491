package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/DeafMist/trend-dashboard/internal/trends"
)

// SeriesColors are the line colours, in keyword order.
var SeriesColors = []string{"red", "deepskyblue"}

// TimeSeriesOptions size and name the line chart.
type TimeSeriesOptions struct {
	ID     string
	Width  string
	Height string
	YLabel string
}

func (o TimeSeriesOptions) withDefaults() TimeSeriesOptions {
	if o.ID == "" {
		o.ID = "trend-series"
	}
	if o.Width == "" {
		o.Width = "950px"
	}
	if o.Height == "" {
		o.Height = "350px"
	}
	if o.YLabel == "" {
		o.YLabel = "Google Trend"
	}
	return o
}

// TimeSeries draws one line per keyword of s on a shared date axis. The
// axis tooltip shows the exact date and value of every line.
func TimeSeries(s trends.Series, o TimeSeriesOptions) (Fragment, error) {
	o = o.withDefaults()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         o.ID,
			Width:           o.Width,
			Height:          o.Height,
			BackgroundColor: "transparent",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Left:      "left",
			Top:       "top",
			TextStyle: &opts.TextStyle{Color: "white"},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "time",
			AxisLabel: &opts.AxisLabel{Color: "white"},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      o.YLabel,
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: "white"},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show:  opts.Bool(true),
			Right: "2%",
			Feature: &opts.ToolBoxFeature{
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Name: o.ID},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
			},
		}),
	)

	for i, kw := range s.Keywords {
		color := SeriesColors[i%len(SeriesColors)]
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.LineData{
				Name:  p.Date.Format("2006-01-02"),
				Value: []interface{}{p.Date.Format("2006-01-02"), p.Values[kw]},
			})
		}
		line.AddSeries(kw, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}
	line.Validate()

	option, err := marshalJS(line.JSON())
	if err != nil {
		return Fragment{}, fmt.Errorf("encode line chart: %w", err)
	}
	return render(snippet{ID: o.ID, Width: o.Width, Height: o.Height, Option: option})
}
