package factor

import (
	"math"
	"testing"

	"sectoralpha/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestQuality(t *testing.T) {
	out := Quality(map[string]domain.FundamentalSnapshot{
		"MID":  {ROE: f(0.2), ProfitMargin: f(0.1)},
		"HALF": {ROE: f(0.1)},
		"TOP":  {ROE: f(0.3), ProfitMargin: f(0.3)},
	})

	t.Run("missing either field propagates missing", func(t *testing.T) {
		require.Nil(t, out["HALF"])
	})

	t.Run("even blend of the normalized fields", func(t *testing.T) {
		// ROE ranks MID between HALF and TOP (0.5), profit margin
		// ranks it between the filled missing slot and TOP (0.5)
		require.InDelta(t, 0.5, *out["MID"], 1e-12)
		require.InDelta(t, 1.0, *out["TOP"], 1e-12)
	})
}

func TestValue(t *testing.T) {
	out := Value(map[string]domain.FundamentalSnapshot{
		"CHEAP":    {PE: f(10)},
		"RICH":     {PE: f(20)},
		"LOSING":   {PE: f(-5)},
		"NOPE":     {},
		"INFINITE": {PE: f(math.Inf(1))},
		"BROKEN":   {PE: f(math.NaN())},
	})

	t.Run("lower PE scores higher", func(t *testing.T) {
		require.Equal(t, 1.0, *out["CHEAP"])
		require.Equal(t, 0.0, *out["RICH"])
	})

	t.Run("unusable ratios are missing", func(t *testing.T) {
		require.Nil(t, out["LOSING"])
		require.Nil(t, out["NOPE"])
		require.Nil(t, out["INFINITE"])
		require.Nil(t, out["BROKEN"])
	})
}
