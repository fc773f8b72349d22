// Package forecast owns the current forecast and its analysis.
package forecast

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/models"
)

// Source is the part of the backend the desk talks to.
type Source interface {
	Predict(ctx context.Context, in models.ForecastInput) (models.ForecastResult, error)
	Analyze(ctx context.Context, in models.AnalysisInput) (models.AnalysisResult, error)
}

// ForecastRequest is a started forecast call.
type ForecastRequest struct {
	Token lifecycle.Token
	Input models.ForecastInput
}

// AnalysisRequest is a started analysis call, bound to the forecast
// generation it was made for.
type AnalysisRequest struct {
	Token         lifecycle.Token
	Input         models.AnalysisInput
	ForGeneration uint64
}

// Desk holds at most one current forecast. A new forecast request clears it,
// and any analysis requested for the cleared forecast is discarded when it
// arrives.
type Desk struct {
	forecast *lifecycle.Lifecycle
	analysis *lifecycle.Lifecycle

	current    *models.ForecastResult
	generation uint64

	errText      string
	analysisText string
	analysisErr  bool

	log zerolog.Logger
}

func NewDesk(log zerolog.Logger) *Desk {
	log = log.With().Str("component", "forecast").Logger()
	return &Desk{
		forecast:     lifecycle.New("forecast", log),
		analysis:     lifecycle.New("analysis", log),
		analysisText: consts.AnalysisPlaceholder,
		log:          log,
	}
}

// Lifecycles exposes the two lifecycles for observers.
func (d *Desk) Lifecycles() (forecast, analysis *lifecycle.Lifecycle) {
	return d.forecast, d.analysis
}

// Current returns the current forecast, if any.
func (d *Desk) Current() (models.ForecastResult, bool) {
	if d.current == nil {
		return models.ForecastResult{}, false
	}
	return *d.current, true
}

// Generation changes every time the current forecast is replaced or cleared.
func (d *Desk) Generation() uint64 {
	return d.generation
}

// AnalysisEnabled reports whether the analysis control accepts input.
func (d *Desk) AnalysisEnabled() bool {
	return d.current != nil && d.analysis.Enabled() && d.forecast.Enabled()
}

// BeginForecast starts a forecast for asset. It fails with a
// *models.ValidationError when no asset is selected and with
// lifecycle.ErrBusy while another forecast is pending.
func (d *Desk) BeginForecast(asset string, days int) (ForecastRequest, error) {
	if asset == "" {
		d.forecast.Reject(consts.MsgSelectAsset)
		d.errText = consts.MsgSelectAsset
		return ForecastRequest{}, models.NewValidationError("asset", consts.MsgSelectAsset)
	}
	tok, ok := d.forecast.Begin()
	if !ok {
		return ForecastRequest{}, lifecycle.ErrBusy
	}

	d.current = nil
	d.generation++
	d.errText = ""
	d.analysisText = consts.AnalysisPlaceholder
	d.analysisErr = false

	return ForecastRequest{
		Token: tok,
		Input: models.ForecastInput{Asset: asset, Days: days},
	}, nil
}

// CompleteForecast applies the outcome of req. It returns false when the
// response was stale and nothing changed.
func (d *Desk) CompleteForecast(req ForecastRequest, res models.ForecastResult, err error) bool {
	if !d.forecast.Resolve(req.Token, err) {
		return false
	}
	if err != nil {
		d.errText = models.UserMessage(err, consts.MsgForecastFailed)
		d.log.Warn().Err(err).Str("asset", req.Input.Asset).Msg("forecast failed")
		return true
	}
	if res.Asset == "" {
		res.Asset = req.Input.Asset
	}
	d.current = &res
	d.generation++
	d.analysisText = consts.AnalysisReady
	d.analysisErr = false
	d.log.Info().
		Str("asset", res.Asset).
		Str("predicted", res.PredictedPrice.String()).
		Float64("change_percent", res.ChangePercent).
		Msg("forecast ready")
	return true
}

// BeginAnalysis starts an analysis of the current forecast. With no current
// forecast it fails locally and no request is made.
func (d *Desk) BeginAnalysis() (AnalysisRequest, error) {
	if d.current == nil {
		d.analysis.Reject(consts.MsgForecastFirst)
		d.analysisText = consts.MsgForecastFirst
		d.analysisErr = true
		return AnalysisRequest{}, models.NewValidationError("forecast", consts.MsgForecastFirst)
	}
	tok, ok := d.analysis.Begin()
	if !ok {
		return AnalysisRequest{}, lifecycle.ErrBusy
	}
	d.analysisText = consts.AnalysisWaiting
	d.analysisErr = false
	return AnalysisRequest{
		Token:         tok,
		Input:         models.NewAnalysisInput(*d.current),
		ForGeneration: d.generation,
	}, nil
}

// CompleteAnalysis applies the outcome of req unless it is stale or the
// forecast it was made for is no longer current. Failures only touch the
// analysis output.
func (d *Desk) CompleteAnalysis(req AnalysisRequest, res models.AnalysisResult, err error) bool {
	if !d.analysis.Resolve(req.Token, err) {
		return false
	}
	if req.ForGeneration != d.generation {
		d.log.Debug().
			Uint64("for", req.ForGeneration).
			Uint64("current", d.generation).
			Msg("discarding analysis for a superseded forecast")
		return false
	}
	if err != nil {
		d.analysisText = consts.AnalystErrorPrefix + models.UserMessage(err, consts.MsgAnalysisFailed)
		d.analysisErr = true
		d.log.Warn().Err(err).Str("asset", req.Input.Asset).Msg("analysis failed")
		return true
	}
	d.analysisText = res.Narrative
	d.analysisErr = false
	return true
}

// Forecast runs a forecast start to finish.
func (d *Desk) Forecast(ctx context.Context, src Source, asset string, days int) (models.ForecastResult, error) {
	req, err := d.BeginForecast(asset, days)
	if err != nil {
		return models.ForecastResult{}, err
	}
	res, err := src.Predict(ctx, req.Input)
	d.CompleteForecast(req, res, err)
	if err != nil {
		return models.ForecastResult{}, err
	}
	cur, _ := d.Current()
	return cur, nil
}

// Analyze runs an analysis of the current forecast start to finish.
func (d *Desk) Analyze(ctx context.Context, src Source) (models.AnalysisResult, error) {
	req, err := d.BeginAnalysis()
	if err != nil {
		return models.AnalysisResult{}, err
	}
	res, err := src.Analyze(ctx, req.Input)
	d.CompleteAnalysis(req, res, err)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	res.ForAsset = req.Input.Asset
	res.ForGeneration = req.ForGeneration
	return res, nil
}
