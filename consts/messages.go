package consts

const (
	// 校验
	MsgSelectAsset     = "Please select a cryptocurrency"
	MsgForecastFirst   = "Please generate a forecast first."
	MsgAmountPositive  = "Amount must be greater than 0"
	MsgPricePositive   = "Purchase price must be greater than 0"
	MsgHoldingRequired = "Please select a holding to remove"
	MsgInvalidAmount   = "Amount must be a number"
	MsgInvalidPrice    = "Purchase price must be a number"

	// 通用失败兜底
	MsgForecastFailed  = "Failed to generate prediction"
	MsgAnalysisFailed  = "Analysis failed"
	MsgHistoryFailed   = "Failed to load history"
	MsgChartFailed     = "Failed to load chart data"
	MsgPortfolioFailed = "Failed to load portfolio"
	MsgAddFailed       = "Failed to add holding"
	MsgDeleteFailed    = "Failed to remove holding"
	MsgPortfolioBusy   = "Another portfolio change is still in progress"

	// 成功提示
	MsgHoldingAdded   = "Holding added successfully"
	MsgHoldingRemoved = "Holding removed successfully"

	// 占位与忙碌
	AnalysisPlaceholder = "Generate a forecast to unlock the AI analyst."
	AnalysisReady       = "Forecast ready. Press analyze for the AI analyst's view."
	AnalysisWaiting     = "Consulting the AI analyst..."
	AnalystErrorPrefix  = "Analyst error: "
	BusyForecast        = "Processing..."
	BusyAnalysis        = "Analyzing..."
	HistoryEmpty        = "No Predictions Yet"
	HistoryLoading      = "Loading history..."
	PortfolioEmpty      = "No holdings yet"
	ConfirmDeletePrompt = "Are you sure you want to remove this holding?"
)

// Change and status classes consumed by the rendering layer.
const (
	ClassPositive = "positive"
	ClassNegative = "negative"

	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)
