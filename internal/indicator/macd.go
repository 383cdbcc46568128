package indicator

import talib "github.com/markcheno/go-talib"

// MACD defaults.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD returns the difference of a fast and slow EMA, an EMA of that
// difference (signal) and their difference (histogram). If fast > slow the
// periods are swapped.
//
// Both EMAs are seeded so that their first value lands on index slow-1:
// the slow one from prices[0:slow], the fast one from prices[slow-fast:slow].
// The signal EMA runs over the MACD line starting at that index. This is
// the TA-Lib C alignment; talib.Macd seeds the fast EMA at index 0 and
// feeds the zero-filled warm-up into the signal, so it is not used.
func MACD(prices []float64, fast, slow, signal int) (MACDResult, error) {
	if err := checkPrices(prices); err != nil {
		return MACDResult{}, err
	}
	if err := checkPeriod("fastperiod", fast, 1); err != nil {
		return MACDResult{}, err
	}
	if err := checkPeriod("slowperiod", slow, 1); err != nil {
		return MACDResult{}, err
	}
	if err := checkPeriod("signalperiod", signal, 1); err != nil {
		return MACDResult{}, err
	}
	if fast > slow {
		fast, slow = slow, fast
	}

	n := len(prices)
	lb := MACDLookback(fast, slow, signal)
	if n <= lb {
		return MACDResult{MACD: nulls(n), Signal: nulls(n), Histogram: nulls(n)}, nil
	}

	start := slow - 1
	slowEMA := talib.Ema(prices, slow)
	fastEMA := talib.Ema(prices[slow-fast:], fast)

	line := make([]float64, n-start)
	for j := range line {
		line[j] = fastEMA[start-(slow-fast)+j] - slowEMA[start+j]
	}
	sig := talib.Ema(line, signal)

	m, s, h := nulls(n), nulls(n), nulls(n)
	for i := lb; i < n; i++ {
		j := i - start
		m[i] = finite(line[j])
		s[i] = finite(sig[j])
		if m[i].Valid && s[i].Valid {
			h[i] = Some(line[j] - sig[j])
		}
	}
	return MACDResult{MACD: m, Signal: s, Histogram: h}, nil
}
