package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// HoldingID is the backend's opaque identifier for a holding. The backend
// may send it as a JSON number or a string.
type HoldingID string

func (id *HoldingID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = HoldingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("holding id: %w", err)
	}
	*id = HoldingID(n.String())
	return nil
}

func (id HoldingID) String() string {
	return string(id)
}

// Holding is a user-declared quantity of an asset bought at a stated price.
// CurrentValue and PnL are computed by the backend only.
type Holding struct {
	ID            HoldingID       `json:"id"`
	Asset         string          `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	PnL           decimal.Decimal `json:"pnl"`
}

// PortfolioSummary aggregates all holdings. It is always taken from the
// backend and never re-derived from cached holdings.
type PortfolioSummary struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	TotalPnLPercent float64         `json:"total_pnl_percent"`
}

// PortfolioOutput is the body returned by GET /api/portfolio.
type PortfolioOutput struct {
	Holdings []Holding `json:"holdings"`
	PortfolioSummary
}

// HoldingInput is the body of POST /api/portfolio.
type HoldingInput struct {
	Asset         string          `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// HoldingCreated is the body returned by POST /api/portfolio.
type HoldingCreated struct {
	ID HoldingID `json:"id"`
}
