package calculator

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

func TestAnnualizedStdev(t *testing.T) {
	t.Run("scales sample stdev by sqrt of trading days", func(t *testing.T) {
		got, err := AnnualizedStdev([]float64{0.01, 0.03})
		require.NoError(t, err)

		// sample stdev of {0.01, 0.03} is sqrt(2e-4)
		want := math.Sqrt(0.0002) * math.Sqrt(252)
		require.InDelta(t, want, got, 1e-12)
	})

	t.Run("zero variance gives zero", func(t *testing.T) {
		got, err := AnnualizedStdev([]float64{0.02, 0.02, 0.02})
		require.NoError(t, err)
		require.Equal(t, 0.0, got)
	})

	t.Run("too few observations errors", func(t *testing.T) {
		_, err := AnnualizedStdev([]float64{0.01})
		require.ErrorIs(t, err, stats.ErrSize)
	})
}

func TestAnnualizedEwmStdev(t *testing.T) {
	t.Run("matches hand-computed two-point case", func(t *testing.T) {
		// span 3 gives alpha 0.5, so weights are {0.5, 1} oldest to
		// newest. Weighted mean of {0, 1} is 2/3, biased variance 2/9,
		// bias correction factor 2.25, stdev sqrt(0.5).
		got, err := AnnualizedEwmStdev([]float64{0, 1}, 3)
		require.NoError(t, err)

		want := math.Sqrt(0.5) * math.Sqrt(252)
		require.InDelta(t, want, got, 1e-12)
	})

	t.Run("constant series gives zero", func(t *testing.T) {
		got, err := AnnualizedEwmStdev([]float64{0.01, 0.01, 0.01, 0.01}, 63)
		require.NoError(t, err)
		require.InDelta(t, 0.0, got, 1e-15)
	})

	t.Run("recent observations dominate", func(t *testing.T) {
		// same values, different order: volatility concentrated in
		// recent observations weighs more than the same volatility
		// far in the past
		quietRecent := []float64{0.05, -0.05, 0.05, 0, 0, 0, 0, 0, 0, 0}
		wildRecent := []float64{0, 0, 0, 0, 0, 0, 0, 0.05, -0.05, 0.05}

		quiet, err := AnnualizedEwmStdev(quietRecent, 3)
		require.NoError(t, err)
		wild, err := AnnualizedEwmStdev(wildRecent, 3)
		require.NoError(t, err)

		require.Greater(t, wild, quiet)
	})

	t.Run("too few observations errors", func(t *testing.T) {
		_, err := AnnualizedEwmStdev([]float64{0.01}, 63)
		require.ErrorIs(t, err, stats.ErrSize)
	})
}
