package indicator

// Lookback values are the index of the first defined output, which is one
// less than the number of samples the indicator needs before it produces
// anything. They mirror TA-Lib's *_Lookback functions.

// SMALookback returns the SMA warm-up offset.
func SMALookback(period int) int { return period - 1 }

// EMALookback returns the EMA warm-up offset.
func EMALookback(period int) int { return period - 1 }

// RSILookback returns the RSI warm-up offset. RSI needs one extra sample
// because it works on price deltas.
func RSILookback(period int) int { return period }

// MACDLookback returns the offset at which all three MACD lines are defined.
func MACDLookback(fast, slow, signal int) int {
	if fast > slow {
		slow = fast
	}
	return (slow - 1) + (signal - 1)
}

// BBandsLookback returns the Bollinger Bands warm-up offset.
func BBandsLookback(period int) int { return period - 1 }
