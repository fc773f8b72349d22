package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// the backend reads prices as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// ChartDataInput is the query for GET /api/chart-data.
type ChartDataInput struct {
	Asset string `json:"asset"`
	Days  int    `json:"days"`
}

// ChartDataOutput is the body returned by GET /api/chart-data.
type ChartDataOutput struct {
	Asset string       `json:"asset"`
	Data  []PricePoint `json:"data"`
}

func (o *ChartDataOutput) UnmarshalJSON(b []byte) error {
	type plain ChartDataOutput
	var raw struct {
		plain
		Crypto string `json:"crypto"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*o = ChartDataOutput(raw.plain)
	if o.Asset == "" {
		o.Asset = raw.Crypto
	}
	return nil
}

// PricePoint is one (date, price) sample of a chart series.
type PricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// ChartSeries is the last rendered data set for one asset and period.
type ChartSeries struct {
	Asset  string
	Days   int
	Points []PricePoint
}

// Empty reports whether the series has nothing to draw.
func (s ChartSeries) Empty() bool {
	return len(s.Points) == 0
}

// Prices returns the series prices as float64 for plotting.
func (s ChartSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price.InexactFloat64()
	}
	return out
}

// Labels returns the x-axis labels in series order.
func (s ChartSeries) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}
