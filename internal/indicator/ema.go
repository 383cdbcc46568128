package indicator

import talib "github.com/markcheno/go-talib"

// DefaultEMAPeriod is used when the caller does not supply a period.
const DefaultEMAPeriod = 10

// EMA returns the exponential moving average of prices. The library seeds
// the recurrence with the SMA of the first period samples, then applies
// k = 2/(period+1).
func EMA(prices []float64, period int) (Series, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	if err := checkPeriod("period", period, 1); err != nil {
		return nil, err
	}

	lb := EMALookback(period)
	if len(prices) <= lb {
		return nulls(len(prices)), nil
	}
	return pad(talib.Ema(prices, period), len(prices), lb), nil
}
