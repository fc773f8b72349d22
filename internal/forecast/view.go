package forecast

import (
	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/format"
)

// View is the render model of the forecast and analysis panels.
type View struct {
	HasResult      bool
	Asset          string
	CurrentPrice   string
	PredictedPrice string
	ChangeText     string
	ChangeClass    string
	TargetDate     string

	Busy          bool
	BusyLabel     string
	SubmitEnabled bool
	ErrorText     string

	AnalysisBusy      bool
	AnalysisBusyLabel string
	AnalysisEnabled   bool
	AnalysisText      string
	AnalysisIsError   bool
}

func (d *Desk) View() View {
	v := View{
		Busy:            d.forecast.Pending(),
		SubmitEnabled:   d.forecast.Enabled(),
		ErrorText:       d.errText,
		AnalysisBusy:    d.analysis.Pending(),
		AnalysisEnabled: d.AnalysisEnabled(),
		AnalysisText:    d.analysisText,
		AnalysisIsError: d.analysisErr,
	}
	if v.Busy {
		v.BusyLabel = consts.BusyForecast
	}
	if v.AnalysisBusy {
		v.AnalysisBusyLabel = consts.BusyAnalysis
	}
	if d.current != nil {
		f := d.current
		v.HasResult = true
		v.Asset = f.Asset
		v.CurrentPrice = format.Money(f.CurrentPrice)
		v.PredictedPrice = format.Money(f.PredictedPrice)
		v.ChangeText = format.Percent(f.ChangePercent)
		v.ChangeClass = format.ChangeClass(f.ChangePercent)
		v.TargetDate = f.TargetDate
	}
	return v
}
