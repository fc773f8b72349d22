package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ForecastInput is the body of POST /api/predict.
type ForecastInput struct {
	Asset string `json:"asset"`
	Days  int    `json:"days,omitempty"`
}

// MarshalJSON also writes the asset under the legacy "crypto" key.
func (in ForecastInput) MarshalJSON() ([]byte, error) {
	type plain ForecastInput
	return json.Marshal(struct {
		plain
		Crypto string `json:"crypto"`
	}{plain(in), in.Asset})
}

// ForecastResult is a single predicted price for an asset at a future date.
// It is immutable once produced and is superseded, never merged, by the next
// successful forecast.
type ForecastResult struct {
	Asset          string          `json:"asset"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	PredictedPrice decimal.Decimal `json:"predicted_price"`
	ChangePercent  float64         `json:"change_percent"`
	TargetDate     string          `json:"prediction_date"`
	PredictionID   int64           `json:"prediction_id,omitempty"`
}

func (f *ForecastResult) UnmarshalJSON(b []byte) error {
	type plain ForecastResult
	var raw struct {
		plain
		Crypto string `json:"crypto"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = ForecastResult(raw.plain)
	if f.Asset == "" {
		f.Asset = raw.Crypto
	}
	return nil
}

// Rising reports whether the forecast is a non-negative change.
func (f ForecastResult) Rising() bool {
	return f.ChangePercent >= 0
}

// AnalysisInput is the body of POST /api/analyze.
type AnalysisInput struct {
	Asset          string          `json:"asset"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	PredictedPrice decimal.Decimal `json:"predicted_price"`
}

func (in AnalysisInput) MarshalJSON() ([]byte, error) {
	type plain AnalysisInput
	return json.Marshal(struct {
		plain
		Crypto string `json:"crypto"`
	}{plain(in), in.Asset})
}

// NewAnalysisInput builds the analysis request for a forecast.
func NewAnalysisInput(f ForecastResult) AnalysisInput {
	return AnalysisInput{
		Asset:          f.Asset,
		CurrentPrice:   f.CurrentPrice,
		PredictedPrice: f.PredictedPrice,
	}
}

// AnalysisResult is the narrative produced for one forecast. It is only
// valid for the forecast generation it was requested for.
type AnalysisResult struct {
	Narrative     string `json:"analysis"`
	ForAsset      string `json:"-"`
	ForGeneration uint64 `json:"-"`
}
