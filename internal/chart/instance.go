package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dyike/ForecastGo/internal/format"
	"github.com/dyike/ForecastGo/internal/theme"
	"github.com/dyike/ForecastGo/models"
)

const (
	// ChartID names the chart element. go-echarts also builds JS variable
	// names from it, so it must be a valid identifier.
	ChartID = "priceChart"

	minWidth  = 30
	minHeight = 8
)

// Instance is one built chart. It is owned by a Surface and must be
// destroyed before the next one is built.
type Instance struct {
	id        uint64
	series    models.ChartSeries
	dark      bool
	terminal  string
	line      *charts.Line
	destroyed bool
}

func (i *Instance) ID() uint64                 { return i.id }
func (i *Instance) Series() models.ChartSeries { return i.series }
func (i *Instance) Dark() bool                 { return i.dark }
func (i *Instance) Live() bool                 { return !i.destroyed }

// View is the terminal rendition.
func (i *Instance) View() string {
	if i.destroyed {
		return ""
	}
	return i.terminal
}

// Render writes the HTML document of the chart.
func (i *Instance) Render(w io.Writer) error {
	if i.destroyed {
		return fmt.Errorf("chart %d already destroyed", i.id)
	}
	return i.line.Render(w)
}

func (i *Instance) destroy() {
	i.destroyed = true
	i.terminal = ""
	i.line = nil
}

// SeriesLabel is the legend text of a price series.
func SeriesLabel(asset string) string {
	return asset + " Price (USD)"
}

func build(id uint64, series models.ChartSeries, dark bool, width, height int) *Instance {
	palette := theme.PaletteFor(dark)
	colors := ColorFor(series.Asset)
	return &Instance{
		id:       id,
		series:   series,
		dark:     dark,
		terminal: buildTerminal(series, palette, colors, width, height),
		line:     buildLine(series, dark, palette, colors),
	}
}

func buildTerminal(series models.ChartSeries, p theme.Palette, c Colors, width, height int) string {
	width = max(width, minWidth)
	height = max(height, minHeight)

	title := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)).Bold(true).
		Render(fmt.Sprintf("%s · %dd", SeriesLabel(series.Asset), series.Days))
	if series.Empty() {
		empty := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).
			Render("No price data for this period")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}

	prices := series.Prices()
	labels := series.Labels()
	lo, hi := bounds(prices)
	maxX := math.Max(float64(len(prices)-1), 1)

	stroke := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Border))
	axis := lipgloss.NewStyle().Foreground(lipgloss.Color(p.TermGrid))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text))

	lc := linechart.New(width, height-1,
		0, maxX,
		lo, hi,
		linechart.WithXYSteps(4, 4),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			idx := int(math.Round(v))
			if idx < 0 || idx >= len(labels) {
				return ""
			}
			return format.ShortDate(labels[idx])
		}),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return format.AxisLabel(v)
		}),
		linechart.WithStyles(axis, label, stroke),
	)
	if len(prices) == 1 {
		pt := canvas.Float64Point{X: 0, Y: prices[0]}
		lc.DrawBrailleLineWithStyle(pt, canvas.Float64Point{X: maxX, Y: prices[0]}, stroke)
	}
	for i := 0; i < len(prices)-1; i++ {
		p1 := canvas.Float64Point{X: float64(i), Y: prices[i]}
		p2 := canvas.Float64Point{X: float64(i + 1), Y: prices[i+1]}
		lc.DrawBrailleLineWithStyle(p1, p2, stroke)
	}
	lc.DrawXYAxisAndLabel()

	last := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).
		Render(format.Tooltip(prices[len(prices)-1]))
	return lipgloss.JoinVertical(lipgloss.Left, title, lc.View(), last)
}

// bounds pads the price range so flat series still get a drawable axis.
func bounds(prices []float64) (lo, hi float64) {
	lo, hi = prices[0], prices[0]
	for _, v := range prices[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	margin := (hi - lo) * 0.05
	if margin == 0 {
		margin = math.Max(math.Abs(hi)*0.01, 1)
	}
	return lo - margin, hi + margin
}

func buildLine(series models.ChartSeries, dark bool, p theme.Palette, c Colors) *charts.Line {
	echartsTheme := "white"
	if dark {
		echartsTheme = "dark"
	}
	name := SeriesLabel(series.Asset)

	xs := series.Labels()
	ys := make([]opts.LineData, len(series.Points))
	for i, pt := range series.Points {
		ys[i] = opts.LineData{Value: pt.Price.InexactFloat64()}
	}

	gridLine := &opts.SplitLine{
		Show:      opts.Bool(true),
		LineStyle: &opts.LineStyle{Color: p.Grid},
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       name,
			Width:           "100%",
			Height:          "420px",
			ChartID:         ChartID,
			Theme:           echartsTheme,
			BackgroundColor: p.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      name,
			Subtitle:   fmt.Sprintf("Last %d days", series.Days),
			TitleStyle: &opts.TextStyle{Color: p.Legend},
			Left:       "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: p.Legend},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			Formatter: opts.FuncOpts(`function (params) {
				var v = params[0].value;
				return 'Price: $' + v.toLocaleString('en-US', {minimumFractionDigits: 2, maximumFractionDigits: 2});
			}`),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: p.Text},
			SplitLine: gridLine,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
			AxisLabel: &opts.AxisLabel{
				Color:     p.Text,
				Formatter: opts.FuncOpts(`function (v) { return '$' + v.toLocaleString('en-US'); }`),
			},
			SplitLine: gridLine,
		}),
		charts.WithGridOpts(opts.Grid{
			Left: "6%", Right: "5%", Top: "15%", Bottom: "15%",
			ContainLabel: opts.Bool(true),
		}),
	)
	line.SetXAxis(xs).
		AddSeries(name, ys).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(len(ys) <= 31),
				SymbolSize: 6,
			}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: c.Border, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c.Border, BorderColor: p.PointBorder}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: c.Background, Opacity: 1}),
		)
	line.AddJSFuncs(tooltipStyle(p))
	return line
}

// tooltipStyle applies the palette's tooltip colors after init; opts.Tooltip
// has no fields for them.
func tooltipStyle(p theme.Palette) string {
	return fmt.Sprintf(`%s.setOption({tooltip: {backgroundColor: %q, borderColor: %q, textStyle: {color: %q}}});`,
		echartsInstance, p.TooltipBg, p.Grid, p.Legend)
}

// echartsInstance is replaced by go-echarts with the chart's JS variable.
const echartsInstance = "%MY_ECHARTS%"
