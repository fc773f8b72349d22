package chart

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/models"
)

type fakeSource struct {
	series models.ChartSeries
	err    error
	calls  int
}

func (f *fakeSource) ChartData(_ context.Context, in models.ChartDataInput) (models.ChartSeries, error) {
	f.calls++
	if f.err != nil {
		return models.ChartSeries{}, f.err
	}
	s := f.series
	s.Days = in.Days
	return s, nil
}

func sampleSeries(asset string) models.ChartSeries {
	return models.ChartSeries{
		Asset: asset,
		Days:  7,
		Points: []models.PricePoint{
			{Date: "2024-06-01", Price: decimal.NewFromInt(50000)},
			{Date: "2024-06-02", Price: decimal.NewFromInt(50500)},
			{Date: "2024-06-03", Price: decimal.NewFromInt(49800)},
			{Date: "2024-06-04", Price: decimal.NewFromInt(52000)},
		},
	}
}

func htmlOf(t *testing.T, r *Renderer) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.WriteHTML(&buf))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc, buf.String()
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#f7931a", ColorFor("BTC").Border)
	assert.Equal(t, "rgba(98,126,234,0.1)", ColorFor("eth").Background)
	assert.Equal(t, ColorFor("BTC"), ColorFor("UNI"))
	assert.Equal(t, ColorFor("BTC"), ColorFor(""))
}

func TestRenderTwiceLeavesOneLiveInstance(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())

	first := r.Render(sampleSeries("BTC"), false)
	second := r.Render(sampleSeries("BTC"), false)

	assert.False(t, first.Live())
	assert.True(t, second.Live())
	assert.Equal(t, 1, r.Surface().Live())
	assert.Equal(t, 2, r.Surface().Built())
	assert.Equal(t, 1, r.Surface().Destroyed())

	cur, ok := r.Surface().Current()
	require.True(t, ok)
	assert.Same(t, second, cur)
	assert.Error(t, first.Render(&bytes.Buffer{}))
}

func TestRenderIsDeterministic(t *testing.T) {
	a := NewRenderer(60, 14, zerolog.Nop())
	b := NewRenderer(60, 14, zerolog.Nop())
	a.Render(sampleSeries("SOL"), true)
	b.Render(sampleSeries("SOL"), true)

	assert.Equal(t, a.View(), b.View())
	_, htmlA := htmlOf(t, a)
	_, htmlB := htmlOf(t, b)
	assert.Equal(t, htmlA, htmlB)
}

func TestHTMLCarriesSeriesAndPalette(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	r.Render(sampleSeries("ETH"), true)

	doc, raw := htmlOf(t, r)
	assert.Equal(t, 1, doc.Find("#"+ChartID).Length())
	assert.Equal(t, "ETH Price (USD)", strings.TrimSpace(doc.Find("title").Text()))

	script := doc.Find("script").Text()
	assert.Contains(t, script, "ETH Price (USD)")
	assert.Contains(t, raw, "#627eea")
	assert.Contains(t, raw, "rgba(98,126,234,0.1)")
	assert.Contains(t, raw, "rgba(255,255,255,0.1)")
	assert.Contains(t, raw, "#1f2937")
	assert.Contains(t, raw, "2024-06-04")
}

func TestHTMLScriptUsesValidIdentifiers(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	r.Render(sampleSeries("BTC"), true)

	doc, _ := htmlOf(t, r)
	var script strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		script.WriteString(s.Text())
	})
	js := script.String()

	ident := regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	decl := regexp.MustCompile(`let\s+([^\s=]+)\s*=`)
	matches := decl.FindAllStringSubmatch(js, -1)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Regexp(t, ident, m[1])
	}
	assert.Contains(t, js, "goecharts_"+ChartID+" = echarts.init(")
	assert.Contains(t, js, "goecharts_"+ChartID+`.setOption({tooltip: {backgroundColor: "#1f2937"`)
	assert.NotContains(t, js, "%MY_ECHARTS%")
}

func TestTooltipFollowsTheme(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	r.Render(sampleSeries("BTC"), false)
	_, light := htmlOf(t, r)
	assert.Contains(t, light, `backgroundColor: "#ffffff"`)
	assert.NotContains(t, light, "#1f2937")

	require.True(t, r.Redraw(true))
	_, dark := htmlOf(t, r)
	assert.Contains(t, dark, `backgroundColor: "#1f2937"`)
}

func TestRedrawUsesRetainedSeriesWithoutFetch(t *testing.T) {
	src := &fakeSource{series: sampleSeries("BTC")}
	r := NewRenderer(60, 14, zerolog.Nop())
	require.NoError(t, r.Load(context.Background(), src, "BTC", 30, false))
	require.Equal(t, 1, src.calls)

	_, light := htmlOf(t, r)
	assert.Contains(t, light, "rgba(0,0,0,0.05)")

	require.True(t, r.Redraw(true))
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, r.Surface().Live())

	_, dark := htmlOf(t, r)
	assert.Contains(t, dark, "rgba(255,255,255,0.1)")
	assert.NotContains(t, dark, "rgba(0,0,0,0.05)")

	series, ok := r.Series()
	require.True(t, ok)
	assert.Equal(t, 30, series.Days)
}

func TestRedrawBeforeRenderIsNoop(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	assert.False(t, r.Redraw(true))
	assert.Equal(t, 0, r.Surface().Built())
	assert.ErrorIs(t, r.WriteHTML(&bytes.Buffer{}), ErrNoChart)
}

func TestFetchFailurePaintsGlyph(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	r.Render(sampleSeries("BTC"), false)

	src := &fakeSource{err: errors.New("timeout")}
	require.Error(t, r.Load(context.Background(), src, "BTC", 7, false))

	assert.Equal(t, 0, r.Surface().Live())
	assert.Equal(t, consts.MsgChartFailed, r.Surface().Glyph())
	assert.Contains(t, r.View(), consts.MsgChartFailed)
	assert.False(t, r.Redraw(true), "error drops the retained series")
}

func TestServerErrorGlyph(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	src := &fakeSource{err: &models.TransportError{Op: "chart-data", StatusCode: 400, Message: "Invalid cryptocurrency"}}
	_ = r.Load(context.Background(), src, "XYZ", 7, false)
	assert.Equal(t, "Invalid cryptocurrency", r.Surface().Glyph())
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	old := r.Begin()
	latest := r.Begin()

	require.True(t, r.Complete(latest, sampleSeries("ETH"), nil, false))
	assert.False(t, r.Complete(old, sampleSeries("BTC"), nil, false))

	series, _ := r.Series()
	assert.Equal(t, "ETH", series.Asset)
	assert.Equal(t, 1, r.Surface().Built())
}

func TestEmptyAndSinglePointSeries(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())

	r.Render(models.ChartSeries{Asset: "ADA", Days: 7}, false)
	assert.Contains(t, r.View(), "No price data")

	one := models.ChartSeries{Asset: "ADA", Days: 7, Points: []models.PricePoint{{Date: "2024-06-01", Price: decimal.NewFromFloat(0.45)}}}
	r.Render(one, false)
	assert.Contains(t, r.View(), "Price: $0.45")
	assert.Equal(t, 1, r.Surface().Live())
}

func TestSetSizeRedraws(t *testing.T) {
	r := NewRenderer(60, 14, zerolog.Nop())
	r.Render(sampleSeries("BTC"), false)
	before := r.View()

	r.SetSize(90, 20)
	assert.Equal(t, 2, r.Surface().Built())
	assert.NotEqual(t, before, r.View())
}
