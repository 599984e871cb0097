package factor

import (
	"math"

	"sectoralpha/internal/calculator"
	"sectoralpha/internal/domain"
)

// Quality is an even blend of normalized return on equity and normalized
// profit margin. A symbol missing either field stays missing - the nil
// propagates through the blend rather than being treated as zero.
func Quality(fundamentals map[string]domain.FundamentalSnapshot) map[string]*float64 {
	roe := map[string]*float64{}
	margin := map[string]*float64{}
	for symbol, f := range fundamentals {
		roe[symbol] = f.ROE
		margin[symbol] = f.ProfitMargin
	}

	roeNorm := calculator.Normalize(roe, true)
	marginNorm := calculator.Normalize(margin, true)

	out := map[string]*float64{}
	for symbol := range fundamentals {
		r, m := roeNorm[symbol], marginNorm[symbol]
		if r == nil || m == nil {
			out[symbol] = nil
			continue
		}
		blended := 0.5**r + 0.5**m
		out[symbol] = &blended
	}
	return out
}

// Value converts price/earnings ratios to earnings yield (1/PE), winsorizes
// across the universe and normalizes so cheaper stocks score higher.
// Non-positive and non-finite ratios are treated as missing.
func Value(fundamentals map[string]domain.FundamentalSnapshot) map[string]*float64 {
	yield := map[string]*float64{}
	for symbol, f := range fundamentals {
		if f.PE == nil || *f.PE <= 0 || math.IsInf(*f.PE, 0) || math.IsNaN(*f.PE) {
			yield[symbol] = nil
			continue
		}
		y := 1 / *f.PE
		yield[symbol] = &y
	}

	winsorized := calculator.Winsorize(yield, calculator.WinsorLowerPercentile, calculator.WinsorUpperPercentile)
	return calculator.Normalize(winsorized, true)
}
