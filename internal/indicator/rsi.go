package indicator

import talib "github.com/markcheno/go-talib"

const (
	// DefaultRSIPeriod is used when the caller does not supply a period.
	DefaultRSIPeriod = 14
	// MinRSIPeriod is the smallest window the library computes; below it
	// go-talib returns a zero-filled slice.
	MinRSIPeriod = 2
)

// RSI returns the relative strength index using Wilder's smoothing.
// Values are bounded to [0, 100].
func RSI(prices []float64, period int) (Series, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	if err := checkPeriod("period", period, MinRSIPeriod); err != nil {
		return nil, err
	}

	lb := RSILookback(period)
	if len(prices) <= lb {
		return nulls(len(prices)), nil
	}
	return pad(talib.Rsi(prices, period), len(prices), lb), nil
}
