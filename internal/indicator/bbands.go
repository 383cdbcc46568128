package indicator

import talib "github.com/markcheno/go-talib"

// Bollinger Bands defaults.
const (
	DefaultBBandsPeriod = 20
	DefaultBBandsDevUp  = 2.0
	DefaultBBandsDevDn  = 2.0
)

// BBands returns an SMA middle band with upper and lower bands offset by
// devUp and devDn population standard deviations over the same window.
func BBands(prices []float64, period int, devUp, devDn float64) (BandsResult, error) {
	if err := checkPrices(prices); err != nil {
		return BandsResult{}, err
	}
	if err := checkPeriod("period", period, 1); err != nil {
		return BandsResult{}, err
	}
	if err := checkFinite("nbdevup", devUp); err != nil {
		return BandsResult{}, err
	}
	if err := checkFinite("nbdevdn", devDn); err != nil {
		return BandsResult{}, err
	}

	n := len(prices)
	lb := BBandsLookback(period)
	if n <= lb {
		return BandsResult{Upper: nulls(n), Middle: nulls(n), Lower: nulls(n)}, nil
	}

	u, m, l := talib.BBands(prices, period, devUp, devDn, talib.SMA)
	return BandsResult{
		Upper:  pad(u, n, lb),
		Middle: pad(m, n, lb),
		Lower:  pad(l, n, lb),
	}, nil
}
