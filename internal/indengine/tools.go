package indengine

import (
	"context"

	"talib-mcp-server/internal/indicator"
	"talib-mcp-server/internal/metrics"
	"talib-mcp-server/internal/tool"
)

var pricesParam = tool.Param{
	Name:        "prices",
	Type:        tool.TypeSeries,
	Description: "Prices ordered oldest to newest, typically closes.",
	Required:    true,
}

func periodParam(name, desc string, def int, min float64) tool.Param {
	return tool.Param{
		Name:        name,
		Type:        tool.TypeInteger,
		Description: desc,
		Default:     def,
		Minimum:     tool.Min(min),
	}
}

// Tools declares the indicator tool set. m may be nil.
func Tools(m *metrics.Metrics) []tool.Tool {
	observe := func(prices []float64) {
		if m != nil {
			m.InputSeriesSize.Observe(float64(len(prices)))
		}
	}

	return []tool.Tool{
		{
			Name: "rsi",
			Description: "Relative Strength Index with Wilder smoothing. Bounded to [0, 100]; " +
				"the first period positions are null.",
			Params: []tool.Param{
				pricesParam,
				periodParam("period", "Lookback window.", indicator.DefaultRSIPeriod, indicator.MinRSIPeriod),
			},
			Handler: func(_ context.Context, a tool.Args) (any, error) {
				prices := a.Series("prices")
				observe(prices)
				return indicator.RSI(prices, a.Int("period"))
			},
		},
		{
			Name: "macd",
			Description: "Moving Average Convergence Divergence. Returns macd, signal and histogram " +
				"series, null until max(fastperiod, slowperiod) + signalperiod - 2.",
			Params: []tool.Param{
				pricesParam,
				periodParam("fastperiod", "Fast EMA period.", indicator.DefaultMACDFast, 1),
				periodParam("slowperiod", "Slow EMA period.", indicator.DefaultMACDSlow, 1),
				periodParam("signalperiod", "Signal EMA period.", indicator.DefaultMACDSignal, 1),
			},
			Handler: func(_ context.Context, a tool.Args) (any, error) {
				prices := a.Series("prices")
				observe(prices)
				return indicator.MACD(prices, a.Int("fastperiod"), a.Int("slowperiod"), a.Int("signalperiod"))
			},
		},
		{
			Name:        "ema",
			Description: "Exponential Moving Average seeded with the SMA of the first period prices.",
			Params: []tool.Param{
				pricesParam,
				periodParam("period", "Smoothing window.", indicator.DefaultEMAPeriod, 1),
			},
			Handler: func(_ context.Context, a tool.Args) (any, error) {
				prices := a.Series("prices")
				observe(prices)
				return indicator.EMA(prices, a.Int("period"))
			},
		},
		{
			Name:        "sma",
			Description: "Simple Moving Average over a rolling window.",
			Params: []tool.Param{
				pricesParam,
				periodParam("period", "Rolling window.", indicator.DefaultSMAPeriod, 1),
			},
			Handler: func(_ context.Context, a tool.Args) (any, error) {
				prices := a.Series("prices")
				observe(prices)
				return indicator.SMA(prices, a.Int("period"))
			},
		},
		{
			Name: "bbands",
			Description: "Bollinger Bands: SMA middle band with upper and lower bands at " +
				"nbdevup / nbdevdn standard deviations.",
			Params: []tool.Param{
				pricesParam,
				periodParam("period", "Moving average and deviation window.", indicator.DefaultBBandsPeriod, 1),
				{Name: "nbdevup", Type: tool.TypeNumber, Description: "Upper band width in standard deviations.", Default: indicator.DefaultBBandsDevUp},
				{Name: "nbdevdn", Type: tool.TypeNumber, Description: "Lower band width in standard deviations.", Default: indicator.DefaultBBandsDevDn},
			},
			Handler: func(_ context.Context, a tool.Args) (any, error) {
				prices := a.Series("prices")
				observe(prices)
				return indicator.BBands(prices, a.Int("period"), a.Float("nbdevup"), a.Float("nbdevdn"))
			},
		},
	}
}

// NewRegistry builds the registry of indicator tools.
func NewRegistry(m *metrics.Metrics) (*tool.Registry, error) {
	return tool.NewRegistry(Tools(m)...)
}
