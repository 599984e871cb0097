package factor

import (
	"sectoralpha/internal/calculator"
	"sectoralpha/internal/domain"
)

// VolatilityEwmSpan is the span of the exponentially weighted leg of the
// volatility blend, roughly a quarter of trading days.
const VolatilityEwmSpan = 63

// Volatility computes annualized volatility per symbol: an even blend of
// the sample standard deviation of daily returns and an exponentially
// weighted one, both annualized, then winsorized across the universe.
func Volatility(prices *domain.PriceTable) map[string]*float64 {
	out := map[string]*float64{}
	if prices.Empty() {
		return out
	}

	for _, symbol := range prices.Symbols() {
		returns := prices.DailyReturns(symbol)
		simple, errSimple := calculator.AnnualizedStdev(returns)
		ewm, errEwm := calculator.AnnualizedEwmStdev(returns, VolatilityEwmSpan)
		if errSimple != nil || errEwm != nil {
			out[symbol] = nil
			continue
		}
		blended := 0.5*simple + 0.5*ewm
		out[symbol] = &blended
	}

	return calculator.Winsorize(out, calculator.WinsorLowerPercentile, calculator.WinsorUpperPercentile)
}

// RiskPenalty ranks volatility so that higher volatility always maps to a
// higher penalty in [0,1], regardless of the raw scale of the blend.
func RiskPenalty(volatility map[string]*float64) map[string]*float64 {
	return calculator.Normalize(volatility, true)
}
