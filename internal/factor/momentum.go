package factor

import (
	"sectoralpha/internal/calculator"
	"sectoralpha/internal/domain"
)

const (
	MomentumWindowDays      = 252
	MomentumShortWindowDays = 63

	longWeight  = 0.75
	shortWeight = 0.25
)

// Momentum computes the raw (non-normalized) momentum factor for every
// symbol in the table: a 0.75/0.25 blend of the ~12 month and ~3 month
// returns relative to the last available trading day, winsorized across the
// universe. Lookback dates absent from the calendar snap to the nearest
// available trading day. Normalization happens later, alongside the other
// factors.
func Momentum(prices *domain.PriceTable) map[string]*float64 {
	out := map[string]*float64{}
	if prices.Empty() {
		return out
	}

	lastDate, _ := prices.LastDate()
	longTarget, _ := prices.NearestDate(lastDate.AddDate(0, 0, -MomentumWindowDays))
	shortTarget, _ := prices.NearestDate(lastDate.AddDate(0, 0, -MomentumShortWindowDays))

	for _, symbol := range prices.Symbols() {
		last, okLast := prices.Get(symbol, lastDate)
		long, okLong := prices.Get(symbol, longTarget)
		short, okShort := prices.Get(symbol, shortTarget)
		if !okLast || !okLong || !okShort || long == 0 || short == 0 {
			out[symbol] = nil
			continue
		}
		blended := longWeight*(last/long-1) + shortWeight*(last/short-1)
		out[symbol] = &blended
	}

	return calculator.Winsorize(out, calculator.WinsorLowerPercentile, calculator.WinsorUpperPercentile)
}
