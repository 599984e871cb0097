package calculator

import (
	"github.com/montanaflynn/stats"
)

const (
	WinsorLowerPercentile = 5
	WinsorUpperPercentile = 95
)

// Winsorize clips the present values of a series to the [lower, upper]
// percentile range of the present values, suppressing outlier distortion.
// Missing values pass through untouched. The bounds come from the whole
// series, so this takes full-universe context rather than a per-symbol loop.
func Winsorize(series map[string]*float64, lowerPct, upperPct float64) map[string]*float64 {
	present := []float64{}
	for _, v := range series {
		if v != nil {
			present = append(present, *v)
		}
	}

	out := make(map[string]*float64, len(series))
	if len(present) == 0 {
		for symbol := range series {
			out[symbol] = nil
		}
		return out
	}

	// Percentile refuses tiny samples; a sample too small for percentile
	// bounds gets no clipping at all.
	lower, err := stats.Percentile(present, lowerPct)
	if err != nil {
		lower, _ = stats.Min(present)
	}
	upper, err := stats.Percentile(present, upperPct)
	if err != nil {
		upper, _ = stats.Max(present)
	}

	for symbol, v := range series {
		if v == nil {
			out[symbol] = nil
			continue
		}
		clipped := *v
		if clipped < lower {
			clipped = lower
		}
		if clipped > upper {
			clipped = upper
		}
		out[symbol] = &clipped
	}
	return out
}
