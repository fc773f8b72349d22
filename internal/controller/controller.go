// Package controller turns user intents into state changes and backend
// commands, and builds the render model.
package controller

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/chart"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/internal/portfolio"
	"github.com/dyike/ForecastGo/models"
)

// Backend is everything the controller asks of the server.
type Backend interface {
	forecast.Source
	history.Source
	portfolio.Source
	chart.Source
}

// Retargetable backends can switch servers when the config changes.
type Retargetable interface {
	SetBaseURL(u string)
}

type Options struct {
	BannerTimeout time.Duration
}

// Controller is driven from a single goroutine: the update loop. Commands it
// returns only capture values and never touch State.
type Controller struct {
	state   *State
	backend Backend
	opts    Options
	notice  string
	log     zerolog.Logger
}

func New(state *State, backend Backend, opts Options, log zerolog.Logger) *Controller {
	if opts.BannerTimeout <= 0 {
		opts.BannerTimeout = 3 * time.Second
	}
	c := &Controller{
		state:   state,
		backend: backend,
		opts:    opts,
		log:     log.With().Str("component", "controller").Logger(),
	}
	state.Theme.Subscribe(func(dark bool) {
		state.Chart.Redraw(dark)
	})
	return c
}

func (c *Controller) State() *State {
	return c.state
}

// Init loads everything the first screen shows.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.RefreshHistory(), c.RefreshPortfolio(), c.loadChart())
}

// SelectAsset changes the selected asset and reloads the chart.
func (c *Controller) SelectAsset(asset string) tea.Cmd {
	if !consts.IsAsset(asset) {
		c.log.Debug().Str("asset", asset).Msg("ignoring unknown asset")
		return nil
	}
	if asset == c.state.Asset {
		return nil
	}
	c.state.Asset = asset
	return c.loadChart()
}

// CycleAsset moves the selection by delta through the catalog.
func (c *Controller) CycleAsset(delta int) tea.Cmd {
	symbols := consts.AssetSymbols()
	idx := 0
	for i, s := range symbols {
		if s == c.state.Asset {
			idx = i
			break
		}
	}
	n := len(symbols)
	return c.SelectAsset(symbols[((idx+delta)%n+n)%n])
}

// SelectPeriod activates exactly one period button and reloads the chart.
func (c *Controller) SelectPeriod(days int) tea.Cmd {
	if !consts.IsPeriod(days) {
		return nil
	}
	c.state.setPeriod(days)
	return c.loadChart()
}

// SubmitForecast requests a forecast for the selected asset.
func (c *Controller) SubmitForecast() tea.Cmd {
	req, err := c.state.Desk.BeginForecast(c.state.Asset, 0)
	if err != nil {
		c.logRefusal("forecast", err)
		return nil
	}
	backend := c.backend
	return func() tea.Msg {
		res, err := backend.Predict(context.Background(), req.Input)
		return ForecastDone{Req: req, Result: res, Err: err}
	}
}

// RequestAnalysis requests the narrative for the current forecast.
func (c *Controller) RequestAnalysis() tea.Cmd {
	req, err := c.state.Desk.BeginAnalysis()
	if err != nil {
		c.logRefusal("analysis", err)
		return nil
	}
	backend := c.backend
	return func() tea.Msg {
		res, err := backend.Analyze(context.Background(), req.Input)
		return AnalysisDone{Req: req, Result: res, Err: err}
	}
}

// ToggleTheme flips and persists the theme. The chart redraws from its
// retained series through the theme subscription; nothing is fetched.
func (c *Controller) ToggleTheme() tea.Cmd {
	if err := c.state.Theme.Toggle(); err != nil {
		c.notice = "Theme changed but could not be saved"
	} else {
		c.notice = ""
	}
	return nil
}

func (c *Controller) RefreshHistory() tea.Cmd {
	tok := c.state.History.Begin()
	backend := c.backend
	return func() tea.Msg {
		recs, err := backend.History(context.Background())
		return HistoryDone{Token: tok, Records: recs, Err: err}
	}
}

func (c *Controller) RefreshPortfolio() tea.Cmd {
	tok := c.state.Ledger.BeginRefresh()
	backend := c.backend
	return func() tea.Msg {
		out, err := backend.Portfolio(context.Background())
		return PortfolioDone{Token: tok, Output: out, Err: err}
	}
}

// AddHolding validates the typed holding and submits it.
func (c *Controller) AddHolding(asset, amount, purchasePrice string) tea.Cmd {
	in, err := portfolio.ParseInput(asset, amount, purchasePrice)
	if err != nil {
		c.state.Ledger.Reject(err)
		c.logRefusal("portfolio-add", err)
		return nil
	}
	m, err := c.state.Ledger.BeginAdd(in)
	if err != nil {
		c.logRefusal("portfolio-add", err)
		return nil
	}
	return c.mutate(m)
}

// RequestDelete asks for confirmation before removing id.
func (c *Controller) RequestDelete(id models.HoldingID) tea.Cmd {
	_ = c.state.Ledger.RequestDelete(id)
	return nil
}

// ConfirmDelete answers the pending confirmation.
func (c *Controller) ConfirmDelete(yes bool) tea.Cmd {
	m, started, err := c.state.Ledger.ConfirmDelete(yes)
	if err != nil {
		c.logRefusal("portfolio-delete", err)
		return nil
	}
	if !started {
		return nil
	}
	return c.mutate(m)
}

func (c *Controller) mutate(m portfolio.Mutation) tea.Cmd {
	backend := c.backend
	return func() tea.Msg {
		var err error
		switch m.Kind {
		case portfolio.DeleteMutation:
			err = backend.DeleteHolding(context.Background(), m.ID)
		default:
			_, err = backend.AddHolding(context.Background(), m.Input)
		}
		return MutationDone{Mutation: m, Err: err}
	}
}

func (c *Controller) loadChart() tea.Cmd {
	tok := c.state.Chart.Begin()
	in := models.ChartDataInput{Asset: c.state.Asset, Days: c.state.Period()}
	backend := c.backend
	return func() tea.Msg {
		series, err := backend.ChartData(context.Background(), in)
		if err == nil && series.Asset == "" {
			series.Asset = in.Asset
		}
		return ChartDone{Token: tok, Series: series, Err: err}
	}
}

// Update routes a result message to the component that owns it.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ForecastDone:
		if c.state.Desk.CompleteForecast(msg.Req, msg.Result, msg.Err) && msg.Err == nil {
			return c.RefreshHistory()
		}
	case AnalysisDone:
		c.state.Desk.CompleteAnalysis(msg.Req, msg.Result, msg.Err)
	case HistoryDone:
		c.state.History.Complete(msg.Token, msg.Records, msg.Err)
	case PortfolioDone:
		c.state.Ledger.CompleteRefresh(msg.Token, msg.Output, msg.Err)
	case MutationDone:
		if c.state.Ledger.CompleteMutation(msg.Mutation, msg.Err) {
			return tea.Batch(c.RefreshPortfolio(), c.bannerTimer())
		}
	case ChartDone:
		c.state.Chart.Complete(msg.Token, msg.Series, msg.Err, c.state.Theme.Dark())
	case BannerExpired:
		c.state.Ledger.DismissBanner(msg.ID)
	case ConfigChanged:
		return c.applyConfig(msg)
	}
	return nil
}

func (c *Controller) bannerTimer() tea.Cmd {
	b, ok := c.state.Ledger.Banner()
	if !ok || b.IsError {
		return nil
	}
	id := b.ID
	return tea.Tick(c.opts.BannerTimeout, func(time.Time) tea.Msg {
		return BannerExpired{ID: id}
	})
}

func (c *Controller) applyConfig(msg ConfigChanged) tea.Cmd {
	if msg.Config.BannerTimeoutSeconds > 0 {
		c.opts.BannerTimeout = msg.Config.BannerTimeout()
	}
	rt, ok := c.backend.(Retargetable)
	if !ok {
		return nil
	}
	rt.SetBaseURL(msg.Config.BackendURL)
	c.notice = "Backend changed to " + msg.Config.BackendURL
	return c.Init()
}

func (c *Controller) logRefusal(op string, err error) {
	if errors.Is(err, lifecycle.ErrBusy) {
		c.log.Debug().Str("op", op).Msg("ignored while pending")
		return
	}
	c.log.Info().Str("op", op).Err(err).Msg("rejected locally")
}
