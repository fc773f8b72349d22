package controller

import (
	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/portfolio"
	"github.com/dyike/ForecastGo/internal/theme"
)

// RenderModel is everything a view needs. It is rebuilt from State on every
// render and holds no references back into it.
type RenderModel struct {
	Dark      bool
	ThemeIcon string
	Palette   theme.Palette

	Asset   string
	Assets  []string
	Periods []PeriodButton

	Forecast  forecast.View
	History   history.View
	Portfolio portfolio.View

	Chart          string
	ChartError     string
	ChartLoading   bool
	TotalForecasts int

	Notice string
}

func (c *Controller) Render() RenderModel {
	s := c.state
	hist := s.History.View()
	return RenderModel{
		Dark:      s.Theme.Dark(),
		ThemeIcon: s.Theme.Icon(),
		Palette:   s.Theme.Palette(),

		Asset:   s.Asset,
		Assets:  consts.AssetSymbols(),
		Periods: append([]PeriodButton(nil), s.Periods...),

		Forecast:  s.Desk.View(),
		History:   hist,
		Portfolio: s.Ledger.View(),

		Chart:          s.Chart.View(),
		ChartError:     s.Chart.Surface().Glyph(),
		ChartLoading:   s.Chart.Lifecycle().Pending(),
		TotalForecasts: hist.TotalForecasts,

		Notice: c.notice,
	}
}
