// Package history caches the list of past forecasts.
package history

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/format"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/models"
)

// Source lists past forecasts.
type Source interface {
	History(ctx context.Context) ([]models.HistoryRecord, error)
}

// ViewState is exactly one of Loading, Ready, Empty or Error.
type ViewState int

const (
	Loading ViewState = iota
	Ready
	Empty
	Error
)

func (s ViewState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Cache keeps the last successfully fetched records. A refresh supersedes
// any refresh still in flight.
type Cache struct {
	lc      *lifecycle.Lifecycle
	records []models.HistoryRecord
	loaded  bool
	state   ViewState
	errText string
	log     zerolog.Logger
}

func NewCache(log zerolog.Logger) *Cache {
	log = log.With().Str("component", "history").Logger()
	return &Cache{
		lc:    lifecycle.New("history", log),
		state: Loading,
		log:   log,
	}
}

func (c *Cache) Lifecycle() *lifecycle.Lifecycle {
	return c.lc
}

// Begin starts a refresh.
func (c *Cache) Begin() lifecycle.Token {
	c.state = Loading
	return c.lc.Restart()
}

// Complete applies a refresh result. Success replaces the records wholesale;
// failure keeps the previous records.
func (c *Cache) Complete(tok lifecycle.Token, records []models.HistoryRecord, err error) bool {
	if !c.lc.Resolve(tok, err) {
		return false
	}
	if err != nil {
		c.state = Error
		c.errText = models.UserMessage(err, consts.MsgHistoryFailed)
		c.log.Warn().Err(err).Msg("history refresh failed")
		return true
	}
	c.records = append([]models.HistoryRecord(nil), records...)
	c.loaded = true
	c.errText = ""
	if len(c.records) == 0 {
		c.state = Empty
	} else {
		c.state = Ready
	}
	return true
}

// Refresh fetches and applies the history synchronously.
func (c *Cache) Refresh(ctx context.Context, src Source) error {
	tok := c.Begin()
	records, err := src.History(ctx)
	c.Complete(tok, records, err)
	return err
}

// Records returns the cached records in server order.
func (c *Cache) Records() []models.HistoryRecord {
	return append([]models.HistoryRecord(nil), c.records...)
}

// TotalForecasts is the record count of the last successful refresh.
func (c *Cache) TotalForecasts() int {
	return len(c.records)
}

func (c *Cache) State() ViewState {
	return c.state
}

// Row is the render model of one history record.
type Row struct {
	Asset       string
	Date        string
	Predicted   string
	Actual      string
	Status      string
	StatusClass string
}

// View is the render model of the history panel.
type View struct {
	State          ViewState
	Rows           []Row
	TotalForecasts int
	Message        string
}

func (c *Cache) View() View {
	v := View{State: c.state, TotalForecasts: c.TotalForecasts()}
	switch c.state {
	case Loading:
		v.Message = consts.HistoryLoading
	case Empty:
		v.Message = consts.HistoryEmpty
	case Error:
		v.Message = c.errText
	}
	if c.state == Ready || (c.state == Loading && c.loaded) {
		v.Rows = make([]Row, 0, len(c.records))
		for _, r := range c.records {
			v.Rows = append(v.Rows, rowFor(r))
		}
	}
	return v
}

func rowFor(r models.HistoryRecord) Row {
	row := Row{
		Asset:     r.Asset,
		Date:      format.Date(r.Date),
		Predicted: format.Money(r.PredictedPrice),
		Actual:    "-",
	}
	if r.ActualPrice != nil {
		row.Actual = format.Money(*r.ActualPrice)
	}
	switch r.Status() {
	case models.HistoryCompleted:
		row.Status = consts.StatusCompleted
		row.StatusClass = "completed"
	default:
		row.Status = consts.StatusPending
		row.StatusClass = "pending"
	}
	return row
}
