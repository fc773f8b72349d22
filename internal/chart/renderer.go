// Package chart draws the price series of the selected asset, in the
// terminal and as an HTML document.
package chart

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/internal/theme"
	"github.com/dyike/ForecastGo/models"
)

// ErrNoChart is returned when there is no live chart to export.
var ErrNoChart = errors.New("no chart rendered")

// Source fetches price series.
type Source interface {
	ChartData(ctx context.Context, in models.ChartDataInput) (models.ChartSeries, error)
}

// Surface is the single drawing area. It holds at most one live instance,
// or an error glyph.
type Surface struct {
	current   *Instance
	glyph     string
	built     int
	destroyed int
}

// Live is the number of live instances on the surface, 0 or 1.
func (s *Surface) Live() int {
	if s.current != nil && s.current.Live() {
		return 1
	}
	return 0
}

// Built and Destroyed count instances over the surface's lifetime.
func (s *Surface) Built() int     { return s.built }
func (s *Surface) Destroyed() int { return s.destroyed }

// Glyph is the error text painted on the surface, if any.
func (s *Surface) Glyph() string { return s.glyph }

// Current returns the live instance.
func (s *Surface) Current() (*Instance, bool) {
	if s.Live() == 0 {
		return nil, false
	}
	return s.current, true
}

func (s *Surface) clear() {
	if s.current != nil {
		s.current.destroy()
		s.current = nil
		s.destroyed++
	}
	s.glyph = ""
}

func (s *Surface) mount(i *Instance) {
	s.current = i
	s.built++
}

// Renderer owns the Surface. It keeps the last rendered series so a theme
// change can redraw without fetching.
type Renderer struct {
	surface *Surface
	lc      *lifecycle.Lifecycle
	series  *models.ChartSeries
	dark    bool
	seq     uint64
	width   int
	height  int
	log     zerolog.Logger
}

func NewRenderer(width, height int, log zerolog.Logger) *Renderer {
	log = log.With().Str("component", "chart").Logger()
	return &Renderer{
		surface: &Surface{},
		lc:      lifecycle.New("chart-data", log),
		width:   width,
		height:  height,
		log:     log,
	}
}

func (r *Renderer) Surface() *Surface               { return r.surface }
func (r *Renderer) Lifecycle() *lifecycle.Lifecycle { return r.lc }

// Series returns the last rendered series.
func (r *Renderer) Series() (models.ChartSeries, bool) {
	if r.series == nil {
		return models.ChartSeries{}, false
	}
	return *r.series, true
}

// Begin starts a data fetch, superseding one still in flight.
func (r *Renderer) Begin() lifecycle.Token {
	return r.lc.Restart()
}

// Complete applies a fetch result: success renders the series, failure
// paints the error glyph.
func (r *Renderer) Complete(tok lifecycle.Token, series models.ChartSeries, err error, dark bool) bool {
	if !r.lc.Resolve(tok, err) {
		return false
	}
	if err != nil {
		r.log.Warn().Err(err).Str("asset", series.Asset).Msg("chart data failed")
		r.RenderError(models.UserMessage(err, consts.MsgChartFailed))
		return true
	}
	r.Render(series, dark)
	return true
}

// Load fetches and renders a series synchronously.
func (r *Renderer) Load(ctx context.Context, src Source, asset string, days int, dark bool) error {
	tok := r.Begin()
	series, err := src.ChartData(ctx, models.ChartDataInput{Asset: asset, Days: days})
	if err == nil && series.Asset == "" {
		series.Asset = asset
	}
	r.Complete(tok, series, err, dark)
	return err
}

// Render destroys the live instance, if any, and builds one for series.
func (r *Renderer) Render(series models.ChartSeries, dark bool) *Instance {
	r.surface.clear()
	r.seq++
	inst := build(r.seq, series, dark, r.width, r.height)
	r.surface.mount(inst)

	kept := series
	r.series = &kept
	r.dark = dark
	r.log.Debug().
		Str("asset", series.Asset).
		Int("days", series.Days).
		Int("points", len(series.Points)).
		Bool("dark", dark).
		Msg("chart rendered")
	return inst
}

// Redraw rebuilds the chart from the retained series. It reports false when
// nothing has been rendered yet.
func (r *Renderer) Redraw(dark bool) bool {
	if r.series == nil {
		r.dark = dark
		return false
	}
	r.Render(*r.series, dark)
	return true
}

// RenderError destroys the live instance and paints msg on the surface. The
// retained series is dropped so a later redraw cannot resurrect it.
func (r *Renderer) RenderError(msg string) {
	r.surface.clear()
	r.surface.glyph = msg
	r.series = nil
}

// SetSize changes the terminal chart size and redraws.
func (r *Renderer) SetSize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.Redraw(r.dark)
}

// View is the terminal rendition of the surface.
func (r *Renderer) View() string {
	if g := r.surface.Glyph(); g != "" {
		p := theme.PaletteFor(r.dark)
		return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Negative)).Render("⚠ " + g)
	}
	if inst, ok := r.surface.Current(); ok {
		return inst.View()
	}
	if r.lc.Pending() {
		return "Loading chart..."
	}
	return ""
}

// WriteHTML writes the live chart as an HTML document.
func (r *Renderer) WriteHTML(w io.Writer) error {
	inst, ok := r.surface.Current()
	if !ok {
		return ErrNoChart
	}
	return inst.Render(w)
}
