// Package api is the client for the forecast backend.
package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/models"
)

// Client wraps the seven backend calls. Every failure comes back as a
// *models.TransportError.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		http: client,
		log:  log.With().Str("component", "api").Logger(),
	}
}

// BaseURL returns the backend address in use.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// SetBaseURL points the client at a different backend. It is called from the
// update loop when the config file changes.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(strings.TrimRight(u, "/"))
	c.log.Info().Str("base_url", u).Msg("backend changed")
}

// Predict requests a forecast.
func (c *Client) Predict(ctx context.Context, in models.ForecastInput) (models.ForecastResult, error) {
	var out models.ForecastResult
	err := c.do(ctx, call{
		op:       "predict",
		method:   resty.MethodPost,
		path:     "/api/predict",
		body:     in,
		fallback: consts.MsgForecastFailed,
	}, &out)
	if err != nil {
		return models.ForecastResult{}, err
	}
	if out.Asset == "" {
		out.Asset = in.Asset
	}
	return out, nil
}

// Analyze requests the narrative for a forecast.
func (c *Client) Analyze(ctx context.Context, in models.AnalysisInput) (models.AnalysisResult, error) {
	var out models.AnalysisResult
	err := c.do(ctx, call{
		op:       "analyze",
		method:   resty.MethodPost,
		path:     "/api/analyze",
		body:     in,
		fallback: consts.MsgAnalysisFailed,
	}, &out)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	out.ForAsset = in.Asset
	return out, nil
}

// History lists past forecasts in server order.
func (c *Client) History(ctx context.Context) ([]models.HistoryRecord, error) {
	var out models.HistoryOutput
	err := c.do(ctx, call{
		op:       "history",
		method:   resty.MethodGet,
		path:     "/api/history",
		fallback: consts.MsgHistoryFailed,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Predictions == nil {
		out.Predictions = []models.HistoryRecord{}
	}
	return out.Predictions, nil
}

// ChartData fetches the price series for an asset over the last days.
func (c *Client) ChartData(ctx context.Context, in models.ChartDataInput) (models.ChartSeries, error) {
	var out models.ChartDataOutput
	err := c.do(ctx, call{
		op:     "chart-data",
		method: resty.MethodGet,
		path:   "/api/chart-data",
		query: url.Values{
			"asset":  {in.Asset},
			"crypto": {in.Asset},
			"days":   {strconv.Itoa(in.Days)},
		},
		fallback: consts.MsgChartFailed,
	}, &out)
	if err != nil {
		return models.ChartSeries{}, err
	}
	asset := out.Asset
	if asset == "" {
		asset = in.Asset
	}
	return models.ChartSeries{Asset: asset, Days: in.Days, Points: out.Data}, nil
}

// Portfolio reads holdings and the server-computed summary.
func (c *Client) Portfolio(ctx context.Context) (models.PortfolioOutput, error) {
	var out models.PortfolioOutput
	err := c.do(ctx, call{
		op:       "portfolio",
		method:   resty.MethodGet,
		path:     "/api/portfolio",
		fallback: consts.MsgPortfolioFailed,
	}, &out)
	if err != nil {
		return models.PortfolioOutput{}, err
	}
	if out.Holdings == nil {
		out.Holdings = []models.Holding{}
	}
	return out, nil
}

// AddHolding records a new holding.
func (c *Client) AddHolding(ctx context.Context, in models.HoldingInput) (models.HoldingCreated, error) {
	var out models.HoldingCreated
	err := c.do(ctx, call{
		op:       "portfolio-add",
		method:   resty.MethodPost,
		path:     "/api/portfolio",
		body:     in,
		fallback: consts.MsgAddFailed,
	}, &out)
	return out, err
}

// DeleteHolding removes a holding. An empty success body is fine.
func (c *Client) DeleteHolding(ctx context.Context, id models.HoldingID) error {
	return c.do(ctx, call{
		op:       "portfolio-delete",
		method:   resty.MethodDelete,
		path:     "/api/portfolio/" + url.PathEscape(id.String()),
		fallback: consts.MsgDeleteFailed,
	}, nil)
}

type call struct {
	op       string
	method   string
	path     string
	body     any
	query    url.Values
	fallback string
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, cl call, target any) error {
	start := time.Now()
	req := c.http.R().SetContext(ctx)
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	if cl.query != nil {
		req.SetQueryParamsFromValues(cl.query)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		c.log.Warn().Err(err).Str("op", cl.op).Msg("request failed")
		return &models.TransportError{Op: cl.op, Message: cl.fallback, Err: err}
	}

	if !resp.IsSuccess() {
		msg := cl.fallback
		var eb errorBody
		if json.Unmarshal(resp.Body(), &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
		c.log.Warn().
			Str("op", cl.op).
			Int("status", resp.StatusCode()).
			Str("error", msg).
			Msg("backend returned an error")
		return &models.TransportError{Op: cl.op, StatusCode: resp.StatusCode(), Message: msg}
	}
	c.log.Debug().
		Str("op", cl.op).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request ok")

	if target == nil || len(strings.TrimSpace(string(resp.Body()))) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		c.log.Warn().Err(err).Str("op", cl.op).Msg("malformed response body")
		return &models.TransportError{Op: cl.op, StatusCode: resp.StatusCode(), Message: cl.fallback, Err: err}
	}
	return nil
}
