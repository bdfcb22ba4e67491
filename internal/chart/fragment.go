// Package chart builds embeddable ECharts fragments.
package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// ScriptURL is the ECharts build the pages load before any fragment.
const ScriptURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// Fragment is a chart ready to be embedded in a page: a container element
// and the script that draws into it.
type Fragment struct {
	Script template.HTML
	Div    template.HTML
}

var divTmpl = template.Must(template.New("div").Parse(
	`<div id="{{.ID}}" class="chart" style="width:{{.Width}};height:{{.Height}};"></div>`))

var scriptTmpl = template.Must(template.New("script").Parse(`<script type="text/javascript">
(function () {
	var el = document.getElementById({{.ID}});
	{{- if .MapName}}
	echarts.registerMap({{.MapName}}, {{.GeoJSON}});
	{{- end}}
	var chart = echarts.init(el, null, {renderer: "canvas"});
	chart.setOption({{.Option}});
	window.addEventListener("resize", function () { chart.resize(); });
})();
</script>`))

type snippet struct {
	ID      string
	Width   string
	Height  string
	Option  template.JS
	MapName string
	GeoJSON template.JS
}

func render(s snippet) (Fragment, error) {
	var div, script bytes.Buffer
	if err := divTmpl.Execute(&div, s); err != nil {
		return Fragment{}, fmt.Errorf("render chart div: %w", err)
	}
	if err := scriptTmpl.Execute(&script, s); err != nil {
		return Fragment{}, fmt.Errorf("render chart script: %w", err)
	}
	return Fragment{
		Script: template.HTML(script.String()), //nolint:gosec // produced by html/template
		Div:    template.HTML(div.String()),    //nolint:gosec // produced by html/template
	}, nil
}

func marshalJS(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil //nolint:gosec // JSON literal
}
