package insights

import (
	"math"
	"strconv"
)

// Shared chart styling.
const (
	ChartColor      = "#4F46E5"
	gridDash        = "3 3"
	gridOpacity     = 0.5
	valueAxisTicks  = 5
	strokeWidth     = 3
	markerRadius    = 4
	activeMarkerRad = 6
)

// Margin is the plot inset in pixels.
type Margin struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// AxisTick is one labelled value axis tick.
type AxisTick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// ValueAxis describes the numeric axis.
type ValueAxis struct {
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Ticks []AxisTick `json:"ticks"`
}

// GridStyle describes the background gridlines.
type GridStyle struct {
	Horizontal bool    `json:"horizontal"`
	Vertical   bool    `json:"vertical"`
	Dash       string  `json:"dash"`
	Opacity    float64 `json:"opacity"`
}

// SeriesStyle is the encoding specific look of the plotted series.
type SeriesStyle struct {
	Smooth             bool    `json:"smooth"`
	Filled             bool    `json:"filled"`
	FillOpacityTop     float64 `json:"fill_opacity_top,omitempty"`
	FillOpacityBottom  float64 `json:"fill_opacity_bottom,omitempty"`
	StrokeWidth        int     `json:"stroke_width,omitempty"`
	MarkerRadius       int     `json:"marker_radius,omitempty"`
	ActiveMarkerRadius int     `json:"active_marker_radius,omitempty"`
	CornerRadii        [4]int  `json:"corner_radii,omitempty"`
}

// ChartSpec is a renderer agnostic description of the revenue chart.
type ChartSpec struct {
	Encoding   ChartEncoding `json:"encoding"`
	Series     string        `json:"series"`
	Color      string        `json:"color"`
	Margin     Margin        `json:"margin"`
	Categories []string      `json:"categories"`
	Values     []float64     `json:"values"`
	ValueAxis  ValueAxis     `json:"value_axis"`
	Grid       GridStyle     `json:"grid"`
	Style      SeriesStyle   `json:"style"`
	Tooltips   []Tooltip     `json:"tooltips"`
}

// Empty reports whether there is nothing to plot.
func (s ChartSpec) Empty() bool {
	return len(s.Categories) == 0
}

// ChartRenderer maps an encoding and a series to a ChartSpec.
type ChartRenderer struct {
	year int
}

// NewChartRenderer builds a renderer whose tooltip headers carry year.
// A non-positive year falls back to DefaultTooltipYear.
func NewChartRenderer(year int) ChartRenderer {
	if year <= 0 {
		year = DefaultTooltipYear
	}
	return ChartRenderer{year: year}
}

// Year returns the tooltip header year.
func (r ChartRenderer) Year() int {
	if r.year <= 0 {
		return DefaultTooltipYear
	}
	return r.year
}

// BuildSpec builds a chart spec with the default renderer.
func BuildSpec(encoding ChartEncoding, points []RevenuePoint) ChartSpec {
	return NewChartRenderer(DefaultTooltipYear).Build(encoding, points)
}

// Build maps the encoding and points to a chart spec. It is pure.
func (r ChartRenderer) Build(encoding ChartEncoding, points []RevenuePoint) ChartSpec {
	spec := ChartSpec{
		Encoding:   encoding,
		Series:     SeriesRevenue,
		Color:      ChartColor,
		Margin:     Margin{Top: 20, Right: 30, Bottom: 5, Left: 20},
		Categories: make([]string, 0, len(points)),
		Values:     make([]float64, 0, len(points)),
		Grid: GridStyle{
			Horizontal: true,
			Vertical:   false,
			Dash:       gridDash,
			Opacity:    gridOpacity,
		},
		Style:    styleFor(encoding),
		Tooltips: make([]Tooltip, 0, len(points)),
	}

	var peak float64
	for _, point := range points {
		value := float64(point.Revenue)
		spec.Categories = append(spec.Categories, point.Period)
		spec.Values = append(spec.Values, value)
		spec.Tooltips = append(spec.Tooltips, r.FormatTooltip(point.Period, []TooltipEntry{
			{Name: SeriesRevenue, Value: value},
		}))
		peak = math.Max(peak, value)
	}
	spec.ValueAxis = valueAxis(peak)
	return spec
}

// FormatTooltip formats a payload with the renderer's header year.
func (r ChartRenderer) FormatTooltip(label string, entries []TooltipEntry) Tooltip {
	return formatTooltip(r.Year(), label, entries)
}

func styleFor(encoding ChartEncoding) SeriesStyle {
	switch encoding {
	case EncodingArea:
		return SeriesStyle{
			Smooth:            true,
			Filled:            true,
			FillOpacityTop:    0.3,
			FillOpacityBottom: 0,
			StrokeWidth:       strokeWidth,
		}
	case EncodingLine:
		return SeriesStyle{
			Smooth:             true,
			StrokeWidth:        strokeWidth,
			MarkerRadius:       markerRadius,
			ActiveMarkerRadius: activeMarkerRad,
		}
	case EncodingBar:
		return SeriesStyle{
			CornerRadii: [4]int{4, 4, 0, 0},
		}
	}
	return SeriesStyle{}
}

// FormatValueTick renders a value axis label ("$61k").
func FormatValueTick(v float64) string {
	return "$" + strconv.FormatInt(int64(math.Round(v/1000)), 10) + "k"
}

func valueAxis(peak float64) ValueAxis {
	if peak <= 0 {
		return ValueAxis{Ticks: []AxisTick{{Value: 0, Label: FormatValueTick(0)}}}
	}
	step := niceStep(peak / float64(valueAxisTicks-1))
	axis := ValueAxis{
		Max:   step * float64(valueAxisTicks-1),
		Ticks: make([]AxisTick, 0, valueAxisTicks),
	}
	for i := 0; i < valueAxisTicks; i++ {
		value := step * float64(i)
		axis.Ticks = append(axis.Ticks, AxisTick{Value: value, Label: FormatValueTick(value)})
	}
	return axis
}

// niceStep rounds raw up to 1, 2, 2.5, 5 or 10 times a power of ten.
func niceStep(raw float64) float64 {
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, factor := range []float64{1, 2, 2.5, 5, 10} {
		if step := factor * magnitude; step >= raw {
			return step
		}
	}
	return 10 * magnitude
}
