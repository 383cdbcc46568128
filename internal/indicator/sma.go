package indicator

import talib "github.com/markcheno/go-talib"

// DefaultSMAPeriod is used when the caller does not supply a period.
const DefaultSMAPeriod = 10

// SMA returns the simple moving average of prices over period samples.
func SMA(prices []float64, period int) (Series, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	if err := checkPeriod("period", period, 1); err != nil {
		return nil, err
	}

	lb := SMALookback(period)
	if len(prices) <= lb {
		return nulls(len(prices)), nil
	}
	return pad(talib.Sma(prices, period), len(prices), lb), nil
}
