package calculator

import (
	"math"
	"sort"
)

// Normalize maps a series into [0,1] comparability space using rank-based
// scaling. Missing (nil) values are temporarily filled below the minimum
// present value so they rank last, but are restored to nil in the output -
// a missing input never receives a numeric normalized value. Ties receive
// the average of the ranks they span. If every present value is identical,
// every present position maps to exactly 0.5. When higherIsBetter is false
// the scaled value is inverted.
func Normalize(series map[string]*float64, higherIsBetter bool) map[string]*float64 {
	out := make(map[string]*float64, len(series))

	minPresent := math.Inf(1)
	numPresent := 0
	for _, v := range series {
		if v != nil {
			numPresent++
			if *v < minPresent {
				minPresent = *v
			}
		}
	}
	if numPresent == 0 {
		for symbol := range series {
			out[symbol] = nil
		}
		return out
	}

	type entry struct {
		symbol string
		value  float64
	}
	entries := make([]entry, 0, len(series))
	for symbol, v := range series {
		value := minPresent - 1
		if v != nil {
			value = *v
		}
		entries = append(entries, entry{symbol: symbol, value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].value < entries[j].value
	})

	ranks := averageRanks(entries, func(e entry) float64 { return e.value })

	minRank, maxRank := ranks[0], ranks[0]
	for _, r := range ranks {
		if r < minRank {
			minRank = r
		}
		if r > maxRank {
			maxRank = r
		}
	}

	for i, e := range entries {
		var norm float64
		if maxRank == minRank {
			norm = 0.5
		} else {
			norm = (ranks[i] - minRank) / (maxRank - minRank)
		}
		if !higherIsBetter {
			norm = 1 - norm
		}
		v := norm
		out[e.symbol] = &v
	}

	// positions that came in missing go back out missing
	for symbol, v := range series {
		if v == nil {
			out[symbol] = nil
		}
	}

	return out
}

// averageRanks assigns 1-based ranks over the sorted entries, giving tied
// values the mean of the ranks they occupy.
func averageRanks[T any](sorted []T, value func(T) float64) []float64 {
	ranks := make([]float64, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i
		for j+1 < len(sorted) && value(sorted[j+1]) == value(sorted[i]) {
			j++
		}
		// ranks i+1 .. j+1 averaged
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[k] = avg
		}
		i = j + 1
	}
	return ranks
}
