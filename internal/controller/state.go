package controller

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/chart"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/portfolio"
	"github.com/dyike/ForecastGo/internal/theme"
)

// PeriodButton is one chart period control.
type PeriodButton struct {
	Days   int
	Label  string
	Active bool
}

// State is the whole application state. The update loop is its only writer.
type State struct {
	Theme   *theme.State
	Desk    *forecast.Desk
	History *history.Cache
	Ledger  *portfolio.Ledger
	Chart   *chart.Renderer
	Asset   string
	Periods []PeriodButton
}

// NewState builds the default state around an already loaded theme.
func NewState(th *theme.State, asset string, period int, log zerolog.Logger) *State {
	if !consts.IsAsset(asset) {
		asset = consts.DefaultAsset
	}
	if !consts.IsPeriod(period) {
		period = consts.DefaultPeriod
	}
	s := &State{
		Theme:   th,
		Desk:    forecast.NewDesk(log),
		History: history.NewCache(log),
		Ledger:  portfolio.NewLedger(log),
		Chart:   chart.NewRenderer(72, 16, log),
		Asset:   asset,
	}
	for _, days := range consts.Periods {
		s.Periods = append(s.Periods, PeriodButton{Days: days, Label: periodLabel(days)})
	}
	s.setPeriod(period)
	return s
}

// Period returns the active period.
func (s *State) Period() int {
	for _, p := range s.Periods {
		if p.Active {
			return p.Days
		}
	}
	return consts.DefaultPeriod
}

// setPeriod clears every button and activates days.
func (s *State) setPeriod(days int) bool {
	found := false
	for i := range s.Periods {
		s.Periods[i].Active = false
	}
	for i := range s.Periods {
		if s.Periods[i].Days == days {
			s.Periods[i].Active = true
			found = true
		}
	}
	return found
}

func periodLabel(days int) string {
	if days == 365 {
		return "1Y"
	}
	return strconv.Itoa(days) + "D"
}
