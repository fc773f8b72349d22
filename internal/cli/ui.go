package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/portfolio"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// DisplayError shows an error message
func DisplayError(w io.Writer, err error) {
	fmt.Fprintln(w, negativeStyle.Render("✗ "+err.Error()))
}

// DisplayInfo shows an info message
func DisplayInfo(w io.Writer, message string) {
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Render("ℹ "+message))
}

// DisplaySuccess shows a success message
func DisplaySuccess(w io.Writer, message string) {
	fmt.Fprintln(w, positiveStyle.Render("✓ "+message))
}

func classStyle(class string) lipgloss.Style {
	switch class {
	case consts.ClassPositive, "completed":
		return positiveStyle
	case consts.ClassNegative:
		return negativeStyle
	case "pending":
		return pendingStyle
	}
	return lipgloss.NewStyle()
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-16s", label)) + value
}

func printForecast(w io.Writer, v forecast.View) {
	lines := []string{
		titleStyle.Render(v.Asset + " forecast"),
		field("Current price", v.CurrentPrice),
		field("Predicted price", v.PredictedPrice),
		field("Change", classStyle(v.ChangeClass).Render(v.ChangeText)),
		field("Target date", v.TargetDate),
	}
	fmt.Fprintln(w, panelStyle.Render(strings.Join(lines, "\n")))
}

func printAnalysis(w io.Writer, v forecast.View) {
	text := v.AnalysisText
	if v.AnalysisIsError {
		text = negativeStyle.Render(text)
	}
	fmt.Fprintln(w, panelStyle.Render(titleStyle.Render("Analysis")+"\n"+text))
}

func printHistory(w io.Writer, v history.View) {
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, labelStyle.Render(v.Message))
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Prediction history (%d)", v.TotalForecasts)))
	fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%-6s  %-13s  %14s  %14s  %s", "ASSET", "DATE", "PREDICTED", "ACTUAL", "STATUS")))
	for _, r := range v.Rows {
		fmt.Fprintf(w, "%-6s  %-13s  %14s  %14s  %s\n", r.Asset, r.Date, r.Predicted, r.Actual, classStyle(r.StatusClass).Render(r.Status))
	}
}

func printPortfolio(w io.Writer, v portfolio.View) {
	if v.ErrorText != "" {
		fmt.Fprintln(w, negativeStyle.Render(v.ErrorText))
		return
	}
	if v.Empty {
		fmt.Fprintln(w, labelStyle.Render(v.Message))
	} else {
		fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%-6s  %-6s  %12s  %14s  %14s  %14s", "ID", "ASSET", "AMOUNT", "BOUGHT AT", "VALUE", "P&L")))
		for _, r := range v.Rows {
			fmt.Fprintf(w, "%-6s  %-6s  %12s  %14s  %14s  %14s\n", r.ID, r.Asset, r.Amount, r.PurchasePrice, r.CurrentValue, classStyle(r.PnLClass).Render(r.PnL))
		}
	}
	s := v.Summary
	fmt.Fprintln(w, panelStyle.Render(strings.Join([]string{
		field("Total value", s.TotalValue),
		field("Total P&L", classStyle(s.TotalPnLClass).Render(s.TotalPnL+" ("+s.TotalPnLPercent+")")),
	}, "\n")))
}

func printConfig(w io.Writer, cfg config.Config, path string) {
	fmt.Fprintln(w, titleStyle.Render("ForecastGo configuration"))
	fmt.Fprintln(w, field("Config file", path))
	fmt.Fprintln(w, field("Backend URL", cfg.BackendURL))
	fmt.Fprintln(w, field("Timeout", cfg.RequestTimeout().String()))
	fmt.Fprintln(w, field("Data directory", cfg.DataDir))
	fmt.Fprintln(w, field("Preferences DB", cfg.PreferencesDB))
	fmt.Fprintln(w, field("Log file", cfg.LogFile))
	fmt.Fprintln(w, field("Log level", cfg.LogLevel))
	fmt.Fprintln(w, field("Default asset", cfg.DefaultAsset))
	fmt.Fprintln(w, field("Default period", fmt.Sprintf("%d days", cfg.DefaultPeriod)))
	fmt.Fprintln(w, field("Banner timeout", cfg.BannerTimeout().String()))
	fmt.Fprintln(w, field("Debug", fmt.Sprintf("%t", cfg.Debug)))
}
