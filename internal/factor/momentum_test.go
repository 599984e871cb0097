package factor

import (
	"sort"
	"testing"
	"time"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/util"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 {
	return &v
}

// newTable builds a price table from per-symbol columns keyed by
// YYYY-MM-DD, deriving the date axis from the union of keys.
func newTable(columns map[string]map[string]float64) *domain.PriceTable {
	t := domain.NewPriceTable()
	seen := map[string]bool{}
	for symbol, column := range columns {
		t.Prices[symbol] = column
		for key := range column {
			if !seen[key] {
				seen[key] = true
				date, err := time.Parse(time.DateOnly, key)
				if err != nil {
					panic(err)
				}
				t.Dates = append(t.Dates, date)
			}
		}
	}
	sort.Slice(t.Dates, func(i, j int) bool {
		return t.Dates[i].Before(t.Dates[j])
	})
	return t
}

func TestMomentum(t *testing.T) {
	last := util.NewDate(2024, 12, 31)
	long := last.AddDate(0, 0, -MomentumWindowDays).Format(time.DateOnly)
	short := last.AddDate(0, 0, -MomentumShortWindowDays).Format(time.DateOnly)
	lastKey := last.Format(time.DateOnly)

	t.Run("blends long and short window returns", func(t *testing.T) {
		prices := newTable(map[string]map[string]float64{
			"GROW1": {long: 100, short: 110, lastKey: 120},
			"GROW2": {long: 100, short: 110, lastKey: 120},
			"FLAT":  {long: 100, short: 100, lastKey: 100},
		})

		out := Momentum(prices)

		// 0.75 * 20% + 0.25 * (120/110 - 1)
		want := 0.75*0.20 + 0.25*(120.0/110.0-1)
		require.InDelta(t, want, *out["GROW1"], 1e-12)
		require.InDelta(t, want, *out["GROW2"], 1e-12)
		require.InDelta(t, 0.0, *out["FLAT"], 1e-12)
	})

	t.Run("symbol missing a lookback price is missing", func(t *testing.T) {
		prices := newTable(map[string]map[string]float64{
			"GROW1": {long: 100, short: 110, lastKey: 120},
			"GROW2": {long: 100, short: 110, lastKey: 120},
			"GAP":   {long: 100, lastKey: 120},
		})

		out := Momentum(prices)

		require.Nil(t, out["GAP"])
		require.NotNil(t, out["GROW1"])
	})

	t.Run("lookback dates snap to the nearest trading day", func(t *testing.T) {
		// the exact lookback day is absent, the closest available bar
		// is one day earlier
		nearLong := last.AddDate(0, 0, -MomentumWindowDays-1).Format(time.DateOnly)
		prices := newTable(map[string]map[string]float64{
			"GROW1": {nearLong: 100, short: 110, lastKey: 120},
			"GROW2": {nearLong: 100, short: 110, lastKey: 120},
		})

		out := Momentum(prices)

		want := 0.75*0.20 + 0.25*(120.0/110.0-1)
		require.InDelta(t, want, *out["GROW1"], 1e-12)
	})

	t.Run("empty table", func(t *testing.T) {
		out := Momentum(domain.NewPriceTable())
		require.Empty(t, out)
	})
}
