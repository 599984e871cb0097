package calculator

import (
	"math"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// AnnualizedStdev is the sample standard deviation of daily returns scaled
// to a yearly horizon.
func AnnualizedStdev(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, stats.ErrSize
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	return stdev * math.Sqrt(tradingDaysPerYear), nil
}

// AnnualizedEwmStdev is the exponentially weighted standard deviation of
// daily returns over the full series, scaled to a yearly horizon. Weights
// decay with alpha = 2/(span+1) so recent observations dominate, with the
// usual bias correction on the weighted variance.
func AnnualizedEwmStdev(returns []float64, span float64) (float64, error) {
	stdev, err := ewmStdev(returns, span)
	if err != nil {
		return 0, err
	}
	return stdev * math.Sqrt(tradingDaysPerYear), nil
}

func ewmStdev(values []float64, span float64) (float64, error) {
	if len(values) < 2 {
		return 0, stats.ErrSize
	}
	alpha := 2 / (span + 1)

	var sumW, sumW2, weightedSum float64
	n := len(values)
	for i, v := range values {
		w := math.Pow(1-alpha, float64(n-1-i))
		sumW += w
		sumW2 += w * w
		weightedSum += w * v
	}
	mean := weightedSum / sumW

	var variance float64
	for i, v := range values {
		w := math.Pow(1-alpha, float64(n-1-i))
		variance += w * (v - mean) * (v - mean)
	}
	variance /= sumW

	denom := sumW*sumW - sumW2
	if denom <= 0 {
		return 0, stats.ErrSize
	}
	variance *= sumW * sumW / denom

	return math.Sqrt(variance), nil
}
