package controller

import (
	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/internal/portfolio"
	"github.com/dyike/ForecastGo/models"
)

// Result messages delivered back to the update loop by commands.

type ForecastDone struct {
	Req    forecast.ForecastRequest
	Result models.ForecastResult
	Err    error
}

type AnalysisDone struct {
	Req    forecast.AnalysisRequest
	Result models.AnalysisResult
	Err    error
}

type HistoryDone struct {
	Token   lifecycle.Token
	Records []models.HistoryRecord
	Err     error
}

type PortfolioDone struct {
	Token  lifecycle.Token
	Output models.PortfolioOutput
	Err    error
}

type MutationDone struct {
	Mutation portfolio.Mutation
	Err      error
}

type ChartDone struct {
	Token  lifecycle.Token
	Series models.ChartSeries
	Err    error
}

// BannerExpired dismisses the success banner with ID, if it is still shown.
type BannerExpired struct {
	ID uint64
}

// ConfigChanged carries a config reloaded from disk.
type ConfigChanged struct {
	Config config.Config
}
