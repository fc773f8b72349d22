package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// HistoryStatus describes whether a past forecast has been scored yet.
type HistoryStatus string

const (
	HistoryPending   HistoryStatus = "Pending"
	HistoryCompleted HistoryStatus = "Completed"
)

// HistoryRecord is one past forecast as reported by GET /api/history.
type HistoryRecord struct {
	ID             int64            `json:"id,omitempty"`
	Asset          string           `json:"asset"`
	Date           string           `json:"date"`
	PredictedPrice decimal.Decimal  `json:"predicted_price"`
	ActualPrice    *decimal.Decimal `json:"actual_price"`
	PredictionDate string           `json:"prediction_date,omitempty"`
}

func (r *HistoryRecord) UnmarshalJSON(b []byte) error {
	type plain HistoryRecord
	var raw struct {
		plain
		Crypto string `json:"crypto"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = HistoryRecord(raw.plain)
	if r.Asset == "" {
		r.Asset = raw.Crypto
	}
	return nil
}

// Status is Completed once the backend has recorded an actual price.
func (r HistoryRecord) Status() HistoryStatus {
	if r.ActualPrice == nil {
		return HistoryPending
	}
	return HistoryCompleted
}

// HistoryOutput is the body returned by GET /api/history.
type HistoryOutput struct {
	Predictions []HistoryRecord `json:"predictions"`
	Message     string          `json:"message,omitempty"`
}
