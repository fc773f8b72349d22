// Package tui is the terminal dashboard. It owns the update loop and hands
// every intent to the controller.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/controller"
	"github.com/dyike/ForecastGo/models"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
)

// panel is the focused area; enter activates it.
type panel int

const (
	panelForecast panel = iota
	panelAnalysis
	panelHistory
	panelPortfolio
	panelCount
)

const (
	minChartWidth  = 30
	minChartHeight = 8
)

type Model struct {
	ctrl *controller.Controller

	mode     mode
	focus    panel
	form     holdingForm
	selected int

	width  int
	height int

	spinner spinner.Model
	help    help.Model
}

func New(ctrl *controller.Controller) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		ctrl:    ctrl,
		spinner: sp,
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := chartSize(msg.Width, msg.Height)
		m.ctrl.State().Chart.SetSize(w, h)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	cmd := m.ctrl.Update(msg)
	m.clampSelection()
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Focus):
		m.focus = (m.focus + 1) % panelCount
	case key.Matches(msg, keys.Submit):
		return m.activate()
	case key.Matches(msg, keys.Forecast):
		return m, m.ctrl.SubmitForecast()
	case key.Matches(msg, keys.Analyze):
		return m, m.ctrl.RequestAnalysis()
	case key.Matches(msg, keys.Theme):
		return m, m.ctrl.ToggleTheme()
	case key.Matches(msg, keys.PrevAsset):
		return m, m.ctrl.CycleAsset(-1)
	case key.Matches(msg, keys.NextAsset):
		return m, m.ctrl.CycleAsset(1)
	case key.Matches(msg, keys.Period):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(consts.Periods) {
			return m, m.ctrl.SelectPeriod(consts.Periods[idx])
		}
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		m.selected++
		m.clampSelection()
	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.ctrl.RefreshHistory(), m.ctrl.RefreshPortfolio())
	case key.Matches(msg, keys.NewHold):
		return m.openForm()
	case key.Matches(msg, keys.Delete):
		rows := m.ctrl.Render().Portfolio.Rows
		if m.selected < len(rows) {
			cmd := m.ctrl.RequestDelete(models.HoldingID(rows[m.selected].ID))
			if m.ctrl.Render().Portfolio.PendingDelete != "" {
				m.mode = modeConfirm
			}
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case panelAnalysis:
		return m, m.ctrl.RequestAnalysis()
	case panelHistory:
		return m, m.ctrl.RefreshHistory()
	case panelPortfolio:
		return m.openForm()
	}
	return m, m.ctrl.SubmitForecast()
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.mode = modeForm
	m.focus = panelPortfolio
	m.form = newHoldingForm(m.ctrl.State().Asset)
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, formKeys.Cancel):
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, formKeys.Submit):
		cmd := m.ctrl.AddHolding(m.form.values())
		// A local rejection returns no command and keeps the form open.
		if cmd != nil {
			m.mode = modeBrowse
		}
		return m, cmd
	case key.Matches(msg, formKeys.Next):
		return m, m.form.move(1)
	case key.Matches(msg, formKeys.Prev):
		return m, m.form.move(-1)
	}
	return m, m.form.update(msg)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, confirmKeys.Yes):
		cmd := m.ctrl.ConfirmDelete(true)
		if m.ctrl.Render().Portfolio.PendingDelete == "" {
			m.mode = modeBrowse
		}
		return m, cmd
	case key.Matches(msg, confirmKeys.No):
		m.mode = modeBrowse
		return m, m.ctrl.ConfirmDelete(false)
	}
	return m, nil
}

func (m *Model) clampSelection() {
	n := len(m.ctrl.Render().Portfolio.Rows)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func chartSize(width, height int) (int, int) {
	return max(width/2-6, minChartWidth), max(height/3, minChartHeight)
}
