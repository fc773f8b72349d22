package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ForecastGo/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.New(nil).Level(zerolog.Disabled)), &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestPredict(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BTC", body["asset"])
		assert.Equal(t, "BTC", body["crypto"])
		writeJSON(w, 200, `{"current_price":50000,"predicted_price":52000,"change_percent":4.0,"prediction_date":"2024-06-01","asset":"BTC","prediction_id":7}`)
	})

	res, err := c.Predict(context.Background(), models.ForecastInput{Asset: "BTC"})
	require.NoError(t, err)
	assert.Equal(t, "BTC", res.Asset)
	assert.True(t, decimal.NewFromInt(50000).Equal(res.CurrentPrice))
	assert.True(t, decimal.NewFromInt(52000).Equal(res.PredictedPrice))
	assert.Equal(t, 4.0, res.ChangePercent)
	assert.Equal(t, "2024-06-01", res.TargetDate)
	assert.Equal(t, int64(7), res.PredictionID)
}

func TestPredictAcceptsLegacyCryptoKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"crypto":"ETH","current_price":3000,"predicted_price":2900,"change_percent":-3.33,"prediction_date":"2024-06-01"}`)
	})
	res, err := c.Predict(context.Background(), models.ForecastInput{Asset: "ETH"})
	require.NoError(t, err)
	assert.Equal(t, "ETH", res.Asset)
	assert.False(t, res.Rising())
}

func TestServerErrorIsSurfacedVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 503, `{"error":"Model is warming up"}`)
	})
	_, err := c.Predict(context.Background(), models.ForecastInput{Asset: "BTC"})
	require.Error(t, err)

	var te *models.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 503, te.StatusCode)
	assert.Equal(t, "Model is warming up", te.Message)
	assert.Equal(t, "Model is warming up", models.UserMessage(err, "fallback"))
}

func TestNonSuccessWithoutErrorFieldUsesFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, `<html>oops</html>`)
	})
	_, err := c.History(context.Background())
	assert.Equal(t, "Failed to load history", models.UserMessage(err, "unused"))
}

func TestNonSuccessWithSuccessLookingBodyIsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, `{"predictions":[]}`)
	})
	_, err := c.History(context.Background())
	require.Error(t, err)
}

func TestTransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, zerolog.Nop())
	_, err := c.Portfolio(context.Background())
	var te *models.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.Equal(t, "Failed to load portfolio", te.Message)
	assert.NotNil(t, te.Unwrap())
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"predictions": "nope"`)
	})
	_, err := c.History(context.Background())
	assert.Equal(t, "Failed to load history", models.UserMessage(err, ""))
}

func TestAnalyze(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"asset":"BTC","crypto":"BTC","current_price":50000,"predicted_price":52000}`, string(raw))
		writeJSON(w, 200, `{"analysis":"Momentum looks constructive."}`)
	})
	res, err := c.Analyze(context.Background(), models.AnalysisInput{
		Asset:          "BTC",
		CurrentPrice:   decimal.NewFromInt(50000),
		PredictedPrice: decimal.NewFromInt(52000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Momentum looks constructive.", res.Narrative)
	assert.Equal(t, "BTC", res.ForAsset)
}

func TestHistoryPreservesOrderAndNullActual(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"success":true,"predictions":[
			{"id":2,"crypto":"BTC","date":"2024-06-02 10:00:00","predicted_price":51000,"actual_price":null},
			{"id":1,"asset":"ETH","date":"2024-06-01 10:00:00","predicted_price":3000,"actual_price":3050.5}
		]}`)
	})
	recs, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(2), recs[0].ID)
	assert.Equal(t, "BTC", recs[0].Asset)
	assert.Equal(t, models.HistoryPending, recs[0].Status())
	assert.Equal(t, models.HistoryCompleted, recs[1].Status())
	assert.Equal(t, "3050.5", recs[1].ActualPrice.String())
}

func TestHistoryEmptyIsNotNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"predictions":[]}`)
	})
	recs, err := c.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestChartData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chart-data", r.URL.Path)
		assert.Equal(t, "SOL", r.URL.Query().Get("asset"))
		assert.Equal(t, "SOL", r.URL.Query().Get("crypto"))
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		writeJSON(w, 200, `{"crypto":"SOL","data":[{"date":"2024-06-01","price":150.25},{"date":"2024-06-02","price":152}]}`)
	})
	series, err := c.ChartData(context.Background(), models.ChartDataInput{Asset: "SOL", Days: 7})
	require.NoError(t, err)
	assert.Equal(t, "SOL", series.Asset)
	assert.Equal(t, 7, series.Days)
	assert.Equal(t, []float64{150.25, 152}, series.Prices())
	assert.Equal(t, []string{"2024-06-01", "2024-06-02"}, series.Labels())
}

func TestPortfolioAcceptsNumericAndStringIDs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"holdings":[
			{"id":12,"asset":"ETH","amount":2,"purchase_price":1500,"current_value":6000,"pnl":3000},
			{"id":"h-9","asset":"BTC","amount":0.1,"purchase_price":40000,"current_value":5000,"pnl":1000}
		],"total_value":11000,"total_pnl":4000,"total_pnl_percent":57.14}`)
	})
	out, err := c.Portfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Holdings, 2)
	assert.Equal(t, models.HoldingID("12"), out.Holdings[0].ID)
	assert.Equal(t, models.HoldingID("h-9"), out.Holdings[1].ID)
	assert.Equal(t, "11000", out.TotalValue.String())
	assert.Equal(t, 57.14, out.TotalPnLPercent)
}

func TestAddAndDeleteHolding(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"asset":"ETH","amount":2,"purchase_price":1500}`, string(raw))
			writeJSON(w, 201, `{"id":42,"message":"Holding added"}`)
		case http.MethodDelete:
			assert.Equal(t, "/api/portfolio/42", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	created, err := c.AddHolding(context.Background(), models.HoldingInput{
		Asset:         "ETH",
		Amount:        decimal.NewFromInt(2),
		PurchasePrice: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, models.HoldingID("42"), created.ID)

	require.NoError(t, c.DeleteHolding(context.Background(), created.ID))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestDeleteHoldingFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := c.DeleteHolding(context.Background(), "99")
	assert.Equal(t, "Failed to remove holding", models.UserMessage(err, ""))
}

func TestSetBaseURL(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.SetBaseURL("http://other.example:5000/")
	assert.Equal(t, "http://other.example:5000", c.BaseURL())
}
