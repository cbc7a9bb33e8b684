package insights

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	goerrors "github.com/goliatone/go-errors"
)

const (
	defaultChartHeight = "360px"
	valueTickFormatter = "function (value) { return '$' + Math.round(value / 1000) + 'k'; }"
)

// EChartsRenderer turns a ChartSpec into embeddable go-echarts HTML.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	height     string
}

// EChartsOption customizes the renderer.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache. A nil cache disables memoization.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if strings.TrimSpace(theme) != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight sets the canvas height.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewEChartsRenderer builds a renderer with a private chart cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  NewChartCache(defaultChartCacheSize, defaultChartCacheTTL),
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Theme returns the configured theme.
func (r *EChartsRenderer) Theme() string {
	return r.theme
}

// Render returns the chart HTML for spec.
func (r *EChartsRenderer) Render(spec ChartSpec) (string, error) {
	hash := specHash(spec)
	renderFn := func() (string, error) {
		return r.render(spec, hash)
	}
	var (
		html string
		err  error
	)
	if r.cache != nil {
		html, err = r.cache.GetOrRender(fmt.Sprintf("%s:%s:%s", spec.Encoding, r.theme, hash), renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "insights: render chart").
			WithCode(goerrors.CodeInternal).
			WithTextCode("CHART_RENDER_FAILED")
	}
	return html, nil
}

func (r *EChartsRenderer) render(spec ChartSpec, hash string) (string, error) {
	global, err := r.globalOptions(spec, hash)
	if err != nil {
		return "", err
	}
	switch spec.Encoding {
	case EncodingArea, EncodingLine:
		return r.renderLine(spec, global)
	case EncodingBar:
		return r.renderBar(spec, global)
	}
	return "", fmt.Errorf("unsupported chart encoding: %s", spec.Encoding)
}

func (r *EChartsRenderer) renderLine(spec ChartSpec, global []charts.GlobalOpts) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(global...)
	line.SetXAxis(spec.Categories)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(spec.Style.Smooth),
			ShowSymbol: opts.Bool(spec.Style.MarkerRadius > 0),
			SymbolSize: spec.Style.MarkerRadius * 2,
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Color: spec.Color,
			Width: float32(spec.Style.StrokeWidth),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}),
	}
	if grow := spec.Style.ActiveMarkerRadius - spec.Style.MarkerRadius; grow > 0 && spec.Style.MarkerRadius > 0 {
		// A border of twice the growth widens the hovered marker to the active radius.
		seriesOpts = append(seriesOpts, charts.WithEmphasisOpts(opts.Emphasis{
			ItemStyle: &opts.ItemStyle{
				Color:       spec.Color,
				BorderColor: spec.Color,
				BorderWidth: float32(grow * 2),
			},
		}))
	}
	if spec.Style.Filled {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{
			Color:   string(opts.FuncOpts(areaGradient(spec.Color, spec.Style.FillOpacityTop, spec.Style.FillOpacityBottom))),
			Opacity: opts.Float(1),
		}))
	}
	line.AddSeries(spec.Series, toLineData(spec), seriesOpts...)
	return renderChart(line)
}

func (r *EChartsRenderer) renderBar(spec ChartSpec, global []charts.GlobalOpts) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(spec.Categories)
	bar.AddSeries(spec.Series, toBarData(spec),
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        spec.Color,
			BorderRadius: string(opts.FuncOpts(cornerRadii(spec.Style.CornerRadii))),
		}),
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "20%"}),
	)
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalOptions(spec ChartSpec, hash string) ([]charts.GlobalOpts, error) {
	initOpts := opts.Initialization{
		ChartID: "insights-" + hash[:min(12, len(hash))],
		Theme:   r.theme,
		Width:   "100%",
		Height:  r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	tooltipFn := tooltipFormatter(spec.Tooltips)
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithColorsOpts(opts.Colors{spec.Color}),
		charts.WithGridOpts(opts.Grid{
			Top:          fmt.Sprintf("%dpx", spec.Margin.Top),
			Right:        fmt.Sprintf("%dpx", spec.Margin.Right),
			Bottom:       fmt.Sprintf("%dpx", spec.Margin.Bottom),
			Left:         fmt.Sprintf("%dpx", spec.Margin.Left),
			ContainLabel: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: opts.FuncOpts(tooltipFn),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			SplitLine: &opts.SplitLine{Show: opts.Bool(spec.Grid.Vertical)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min:         spec.ValueAxis.Min,
			Max:         spec.ValueAxis.Max,
			SplitNumber: max(len(spec.ValueAxis.Ticks)-1, 1),
			AxisLabel:   &opts.AxisLabel{Formatter: opts.FuncOpts(valueTickFormatter)},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(spec.Grid.Horizontal),
				LineStyle: &opts.LineStyle{
					Type:    "dashed",
					Opacity: opts.Float(float32(spec.Grid.Opacity)),
				},
			},
		}),
	}, nil
}

// tooltipFormatter embeds the precomputed tooltips so the browser shows
// exactly the server formatted text. Option values are JSON encoded after
// this, so the script must not carry double quotes or backslashes; tooltip
// text is HTML escaped instead.
func tooltipFormatter(tips []Tooltip) string {
	rendered := make([]string, len(tips))
	for i, tip := range tips {
		lines := make([]string, 0, len(tip.Lines)+1)
		for _, line := range append([]string{tip.Header}, tip.Lines...) {
			lines = append(lines, htmlText(line))
		}
		rendered[i] = jsString(strings.Join(lines, "<br/>"))
	}
	return fmt.Sprintf("function (params) { var tips = [%s]; var p = Array.isArray(params) ? params[0] : params; return tips[p.dataIndex] || ''; }", strings.Join(rendered, ", "))
}

var backslashEscaper = strings.NewReplacer(`\`, "&#92;", "\n", " ", "\r", " ")

func htmlText(s string) string {
	return html.EscapeString(backslashEscaper.Replace(s))
}

func jsString(s string) string {
	return "'" + s + "'"
}

// areaGradient fades the fill from top to bottom opacity.
func areaGradient(color string, top, bottom float64) string {
	return fmt.Sprintf("new echarts.graphic.LinearGradient(0, 0, 0, 1, [{offset: 0, color: %s}, {offset: 1, color: %s}])",
		jsString(rgba(color, top)), jsString(rgba(color, bottom)))
}

// rgba converts a #rrggbb color. Other notations pass through unchanged.
func rgba(color string, alpha float64) string {
	var r, g, b uint8
	if len(color) != 7 || color[0] != '#' {
		return color
	}
	if _, err := fmt.Sscanf(color[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

func cornerRadii(radii [4]int) string {
	return fmt.Sprintf("[%d, %d, %d, %d]", radii[0], radii[1], radii[2], radii[3])
}

func toLineData(spec ChartSpec) []opts.LineData {
	data := make([]opts.LineData, len(spec.Values))
	for i, value := range spec.Values {
		data[i] = opts.LineData{Name: spec.Categories[i], Value: value}
	}
	return data
}

func toBarData(spec ChartSpec) []opts.BarData {
	data := make([]opts.BarData, len(spec.Values))
	for i, value := range spec.Values {
		data[i] = opts.BarData{Name: spec.Categories[i], Value: value}
	}
	return data
}
