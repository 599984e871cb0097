package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 {
	return &v
}

func TestNormalize(t *testing.T) {
	t.Run("distinct values span [0,1]", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(10),
			"B": f(20),
			"C": f(30),
		}, true)

		require.Equal(t, 0.0, *out["A"])
		require.Equal(t, 0.5, *out["B"])
		require.Equal(t, 1.0, *out["C"])
	})

	t.Run("lower is better inverts", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(10),
			"B": f(20),
			"C": f(30),
		}, false)

		require.Equal(t, 1.0, *out["A"])
		require.Equal(t, 0.5, *out["B"])
		require.Equal(t, 0.0, *out["C"])
	})

	t.Run("missing values stay missing and rank below the minimum", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": nil,
			"B": f(5),
			"C": f(10),
		}, true)

		require.Nil(t, out["A"])
		require.Equal(t, 0.5, *out["B"])
		require.Equal(t, 1.0, *out["C"])
	})

	t.Run("identical values collapse to 0.5", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(7),
			"B": f(7),
			"C": f(7),
		}, true)

		require.Equal(t, 0.5, *out["A"])
		require.Equal(t, 0.5, *out["B"])
		require.Equal(t, 0.5, *out["C"])
	})

	t.Run("single present value maps to 0.5", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(42),
		}, true)

		require.Equal(t, 0.5, *out["A"])
	})

	t.Run("all missing stays all missing", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": nil,
			"B": nil,
		}, true)

		require.Nil(t, out["A"])
		require.Nil(t, out["B"])
	})

	t.Run("ties receive averaged ranks", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(1),
			"B": f(1),
			"C": f(2),
		}, true)

		// tied values occupy ranks 1 and 2, averaged to 1.5, which is
		// also the minimum rank
		require.Equal(t, 0.0, *out["A"])
		require.Equal(t, 0.0, *out["B"])
		require.Equal(t, 1.0, *out["C"])
	})

	t.Run("outputs stay in bounds", func(t *testing.T) {
		out := Normalize(map[string]*float64{
			"A": f(-100), "B": f(0), "C": f(3.5), "D": f(1e9), "E": nil,
		}, true)

		for symbol, v := range out {
			if v == nil {
				continue
			}
			require.GreaterOrEqual(t, *v, 0.0, symbol)
			require.LessOrEqual(t, *v, 1.0, symbol)
		}
	})
}
