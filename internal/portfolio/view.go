package portfolio

import (
	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/format"
)

type HoldingRow struct {
	ID            string
	Asset         string
	Amount        string
	PurchasePrice string
	CurrentValue  string
	PnL           string
	PnLClass      string
}

type SummaryView struct {
	TotalValue      string
	TotalPnL        string
	TotalPnLClass   string
	TotalPnLPercent string
}

// View is the render model of the portfolio panel.
type View struct {
	Loading bool
	Loaded  bool
	Empty   bool
	Message string

	Rows    []HoldingRow
	Summary SummaryView

	ErrorText       string
	Banner          *Banner
	PendingDelete   string
	MutationBusy    bool
	MutationEnabled bool
}

func (l *Ledger) View() View {
	v := View{
		Loading:         l.refresh.Pending(),
		Loaded:          l.loaded,
		ErrorText:       l.refreshErr,
		MutationBusy:    l.mutation.Pending(),
		MutationEnabled: l.mutation.Enabled(),
	}
	if b, ok := l.Banner(); ok {
		v.Banner = &b
	}
	if id, ok := l.PendingDelete(); ok {
		v.PendingDelete = id.String()
	}
	if !l.loaded {
		return v
	}

	v.Rows = make([]HoldingRow, 0, len(l.holdings))
	for _, h := range l.holdings {
		v.Rows = append(v.Rows, HoldingRow{
			ID:            h.ID.String(),
			Asset:         h.Asset,
			Amount:        h.Amount.String(),
			PurchasePrice: format.Money(h.PurchasePrice),
			CurrentValue:  format.Money(h.CurrentValue),
			PnL:           format.SignedMoney(h.PnL),
			PnLClass:      format.DecimalClass(h.PnL),
		})
	}
	v.Empty = len(v.Rows) == 0
	if v.Empty {
		v.Message = consts.PortfolioEmpty
	}
	v.Summary = SummaryView{
		TotalValue:      format.Money(l.summary.TotalValue),
		TotalPnL:        format.SignedMoney(l.summary.TotalPnL),
		TotalPnLClass:   format.DecimalClass(l.summary.TotalPnL),
		TotalPnLPercent: format.Percent(l.summary.TotalPnLPercent),
	}
	return v
}
