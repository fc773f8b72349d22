package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/controller"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/theme"
)

type styles struct {
	title    lipgloss.Style
	panel    lipgloss.Style
	focused  lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	warning  lipgloss.Style
	selected lipgloss.Style
}

func stylesFor(p theme.Palette) styles {
	fg := lipgloss.Color(p.Foreground)
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Border)).Foreground(fg).Padding(0, 1),
		focused:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Accent)).Foreground(fg).Padding(0, 1),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		accent:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		positive: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Positive)),
		negative: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Negative)),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		selected: lipgloss.NewStyle().Reverse(true),
	}
}

func (s styles) class(c string, text string) string {
	switch c {
	case consts.ClassPositive, "completed":
		return s.positive.Render(text)
	case consts.ClassNegative:
		return s.negative.Render(text)
	case "pending":
		return s.warning.Render(text)
	}
	return text
}

func (m Model) View() string {
	rm := m.ctrl.Render()
	st := stylesFor(rm.Palette)

	colWidth := max(m.width/2-2, 40)
	box := func(p panel, content string) string {
		style := st.panel
		if p == m.focus {
			style = st.focused
		}
		return style.Width(colWidth).Render(content)
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		box(panelForecast, m.viewForecast(rm, st)),
		box(panelAnalysis, m.viewAnalysis(rm, st)),
	)
	right := st.panel.Width(colWidth).Render(m.viewChart(rm, st))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(rm, st),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		lipgloss.JoinHorizontal(lipgloss.Top,
			box(panelHistory, m.viewHistory(rm, st)),
			box(panelPortfolio, m.viewPortfolio(rm, st)),
		),
		m.viewHelp(st),
	)
}

func (m Model) viewHeader(rm controller.RenderModel, st styles) string {
	assets := make([]string, 0, len(rm.Assets))
	for _, a := range rm.Assets {
		if a == rm.Asset {
			assets = append(assets, st.accent.Render("["+a+"]"))
			continue
		}
		assets = append(assets, st.muted.Render(a))
	}
	line := st.title.Render("ForecastGo") + "  " + strings.Join(assets, " ") + "  " + rm.ThemeIcon
	if rm.TotalForecasts > 0 {
		line += st.muted.Render(fmt.Sprintf("  %d forecasts", rm.TotalForecasts))
	}
	if rm.Notice != "" {
		line += "\n" + st.warning.Render(rm.Notice)
	}
	return line
}

func (m Model) viewForecast(rm controller.RenderModel, st styles) string {
	f := rm.Forecast
	var b strings.Builder
	b.WriteString(st.heading.Render("Forecast") + "\n")
	switch {
	case f.Busy:
		b.WriteString(m.spinner.View() + " " + f.BusyLabel)
	case f.HasResult:
		fmt.Fprintf(&b, "%s  current %s\n", st.accent.Render(f.Asset), f.CurrentPrice)
		fmt.Fprintf(&b, "predicted %s  %s\n", f.PredictedPrice, st.class(f.ChangeClass, f.ChangeText))
		b.WriteString(st.muted.Render("target " + f.TargetDate))
	default:
		b.WriteString(st.muted.Render("Press p to forecast " + rm.Asset))
	}
	if f.ErrorText != "" {
		b.WriteString("\n" + st.negative.Render(f.ErrorText))
	}
	return b.String()
}

func (m Model) viewAnalysis(rm controller.RenderModel, st styles) string {
	f := rm.Forecast
	var b strings.Builder
	b.WriteString(st.heading.Render("Analysis") + "\n")
	switch {
	case f.AnalysisBusy:
		b.WriteString(m.spinner.View() + " " + f.AnalysisBusyLabel)
	case f.AnalysisIsError:
		b.WriteString(st.negative.Render(f.AnalysisText))
	default:
		b.WriteString(f.AnalysisText)
	}
	return b.String()
}

func (m Model) viewChart(rm controller.RenderModel, st styles) string {
	periods := make([]string, 0, len(rm.Periods))
	for i, p := range rm.Periods {
		label := fmt.Sprintf("%d:%s", i+1, p.Label)
		if p.Active {
			periods = append(periods, st.accent.Render(label))
			continue
		}
		periods = append(periods, st.muted.Render(label))
	}
	return st.heading.Render(rm.Asset+" chart") + "  " + strings.Join(periods, " ") + "\n" + rm.Chart
}

func (m Model) viewHistory(rm controller.RenderModel, st styles) string {
	h := rm.History
	var b strings.Builder
	b.WriteString(st.heading.Render("History") + "\n")
	if h.Message != "" {
		msg := st.muted.Render(h.Message)
		if h.State == history.Error {
			msg = st.negative.Render(h.Message)
		}
		b.WriteString(msg + "\n")
	}
	for _, r := range h.Rows {
		fmt.Fprintf(&b, "%-6s %-13s %12s %12s %s\n", r.Asset, r.Date, r.Predicted, r.Actual, st.class(r.StatusClass, r.Status))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewPortfolio(rm controller.RenderModel, st styles) string {
	p := rm.Portfolio
	var b strings.Builder
	b.WriteString(st.heading.Render("Portfolio"))
	if p.Loading || p.MutationBusy {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	if p.ErrorText != "" {
		b.WriteString(st.negative.Render(p.ErrorText) + "\n")
	}
	if p.Loaded {
		fmt.Fprintf(&b, "Value %s  P&L %s (%s)\n", p.Summary.TotalValue,
			st.class(p.Summary.TotalPnLClass, p.Summary.TotalPnL), p.Summary.TotalPnLPercent)
	}
	if p.Empty {
		b.WriteString(st.muted.Render(p.Message) + "\n")
	}
	for i, r := range p.Rows {
		line := fmt.Sprintf("%-6s %10s @ %-12s %12s %s", r.Asset, r.Amount, r.PurchasePrice, r.CurrentValue, st.class(r.PnLClass, r.PnL))
		if i == m.selected && m.mode == modeBrowse {
			line = st.selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	switch m.mode {
	case modeForm:
		b.WriteString("\n" + m.form.view() + "\n")
	case modeConfirm:
		b.WriteString("\n" + st.warning.Render(consts.ConfirmDeletePrompt+" (y/n)") + "\n")
	}
	if p.Banner != nil {
		if p.Banner.IsError {
			b.WriteString(st.negative.Render(p.Banner.Text))
		} else {
			b.WriteString(st.positive.Render(p.Banner.Text))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewHelp(st styles) string {
	switch m.mode {
	case modeForm:
		return st.muted.Render(m.help.View(formKeys))
	case modeConfirm:
		return st.muted.Render(m.help.View(confirmKeys))
	}
	return st.muted.Render(m.help.View(keys))
}
