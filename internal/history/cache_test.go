package history

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/models"
)

type fakeSource struct {
	records []models.HistoryRecord
	err     error
}

func (f fakeSource) History(context.Context) ([]models.HistoryRecord, error) {
	return f.records, f.err
}

func sampleRecords() []models.HistoryRecord {
	actual := decimal.RequireFromString("3050.5")
	return []models.HistoryRecord{
		{ID: 2, Asset: "BTC", Date: "2024-06-02 10:00:00", PredictedPrice: decimal.NewFromInt(51000)},
		{ID: 1, Asset: "ETH", Date: "2024-06-01 09:30:00", PredictedPrice: decimal.NewFromInt(3000), ActualPrice: &actual},
	}
}

func TestInitialViewIsLoading(t *testing.T) {
	c := NewCache(zerolog.Nop())
	v := c.View()
	assert.Equal(t, Loading, v.State)
	assert.Equal(t, consts.HistoryLoading, v.Message)
	assert.Zero(t, v.TotalForecasts)
}

func TestRefreshReady(t *testing.T) {
	c := NewCache(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), fakeSource{records: sampleRecords()}))

	v := c.View()
	assert.Equal(t, Ready, v.State)
	assert.Equal(t, 2, v.TotalForecasts)
	require.Len(t, v.Rows, 2)

	assert.Equal(t, Row{
		Asset:       "BTC",
		Date:        "Jun 02, 2024",
		Predicted:   "$51,000.00",
		Actual:      "-",
		Status:      "Pending",
		StatusClass: "pending",
	}, v.Rows[0])
	assert.Equal(t, "$3,050.50", v.Rows[1].Actual)
	assert.Equal(t, "Completed", v.Rows[1].Status)
}

func TestEmptySuccessIsEmptyNotError(t *testing.T) {
	c := NewCache(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), fakeSource{records: []models.HistoryRecord{}}))

	v := c.View()
	assert.Equal(t, Empty, v.State)
	assert.Equal(t, consts.HistoryEmpty, v.Message)
	assert.Zero(t, v.TotalForecasts)
	assert.Empty(t, v.Rows)
}

func TestFailureIsErrorNotEmpty(t *testing.T) {
	c := NewCache(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), fakeSource{records: sampleRecords()}))

	err := c.Refresh(context.Background(), fakeSource{err: errors.New("connection reset")})
	require.Error(t, err)

	v := c.View()
	assert.Equal(t, Error, v.State)
	assert.Equal(t, consts.MsgHistoryFailed, v.Message)
	// previous records survive a failed refresh
	assert.Equal(t, 2, c.TotalForecasts())
	assert.Len(t, c.Records(), 2)
}

func TestServerMessageOnFailure(t *testing.T) {
	c := NewCache(zerolog.Nop())
	err := &models.TransportError{Op: "history", StatusCode: 500, Message: "database locked"}
	_ = c.Refresh(context.Background(), fakeSource{err: err})
	assert.Equal(t, "database locked", c.View().Message)
}

func TestSupersededRefreshIsDiscarded(t *testing.T) {
	c := NewCache(zerolog.Nop())
	first := c.Begin()
	second := c.Begin()

	assert.True(t, c.Complete(second, sampleRecords(), nil))
	assert.False(t, c.Complete(first, nil, nil))
	assert.Equal(t, Ready, c.State())
	assert.Equal(t, 2, c.TotalForecasts())
}

func TestReplaceIsWholesale(t *testing.T) {
	c := NewCache(zerolog.Nop())
	require.NoError(t, c.Refresh(context.Background(), fakeSource{records: sampleRecords()}))
	require.NoError(t, c.Refresh(context.Background(), fakeSource{records: sampleRecords()[:1]}))
	assert.Equal(t, 1, c.TotalForecasts())
	assert.Equal(t, int64(2), c.Records()[0].ID)
}
