package screener

import (
	"sort"
	"testing"
	"time"

	"sectoralpha/internal/domain"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 {
	return &v
}

func screenerFixture() Screener {
	table := domain.NewPriceTable()
	table.Prices = map[string]map[string]float64{
		"AAPL": {},
		"MSFT": {},
	}
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		d := first.AddDate(0, 0, i)
		key := d.Format(time.DateOnly)
		table.Dates = append(table.Dates, d)
		table.Prices["AAPL"][key] = 100 + float64(i)
		table.Prices["MSFT"][key] = 400 - float64(i)
	}
	sort.Slice(table.Dates, func(i, j int) bool { return table.Dates[i].Before(table.Dates[j]) })

	return Screener{
		Prices: table,
		Fundamentals: map[string]domain.FundamentalSnapshot{
			"AAPL": {PE: fptr(28), ROE: fptr(0.5), ProfitMargin: fptr(0.25)},
			"MSFT": {PE: fptr(35), ROE: fptr(0.4)},
		},
	}
}

func TestScreener_Rank(t *testing.T) {
	s := screenerFixture()
	date := time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)

	t.Run("ranks by price change descending", func(t *testing.T) {
		ranked, failures, err := s.Rank("pricePercentChange(nDaysAgo(30), currentDate)", date)
		require.NoError(t, err)
		require.Empty(t, failures)
		require.Len(t, ranked, 2)

		// AAPL rises, MSFT falls
		require.Equal(t, "AAPL", ranked[0].Symbol)
		require.Equal(t, "MSFT", ranked[1].Symbol)
		require.Greater(t, ranked[0].Value, 0.0)
		require.Less(t, ranked[1].Value, 0.0)
	})

	t.Run("price resolves the most recent bar on or before the date", func(t *testing.T) {
		ranked, _, err := s.Rank("price(currentDate)", date)
		require.NoError(t, err)

		// day index 119 of the fixture
		byName := map[string]float64{}
		for _, r := range ranked {
			byName[r.Symbol] = r.Value
		}
		require.Equal(t, 219.0, byName["AAPL"])
		require.Equal(t, 281.0, byName["MSFT"])
	})

	t.Run("expressions compose arithmetic and fundamentals", func(t *testing.T) {
		ranked, failures, err := s.Rank("roe() / peRatio() * 100", date)
		require.NoError(t, err)
		require.Empty(t, failures)
		require.Equal(t, "AAPL", ranked[0].Symbol)
		require.InDelta(t, 0.5/28*100, ranked[0].Value, 1e-12)
	})

	t.Run("missing fundamentals fail per symbol without aborting", func(t *testing.T) {
		ranked, failures, err := s.Rank("profitMargin()", date)
		require.NoError(t, err)

		require.Len(t, ranked, 1)
		require.Equal(t, "AAPL", ranked[0].Symbol)
		require.Contains(t, failures, "MSFT")
	})

	t.Run("stdev is positive for a moving series", func(t *testing.T) {
		ranked, failures, err := s.Rank("stdev(nMonthsAgo(3), currentDate)", date)
		require.NoError(t, err)
		require.Empty(t, failures)
		for _, r := range ranked {
			require.Greater(t, r.Value, 0.0)
		}
	})

	t.Run("expression failing everywhere is an error", func(t *testing.T) {
		_, failures, err := s.Rank("price(nYearsAgo(10))", date)
		require.Error(t, err)
		require.Len(t, failures, 2)
	})

	t.Run("malformed expression fails per symbol", func(t *testing.T) {
		_, failures, err := s.Rank("thisIsNotAFunction()", date)
		require.Error(t, err)
		require.NotEmpty(t, failures)
	})

	t.Run("empty table", func(t *testing.T) {
		empty := Screener{Prices: domain.NewPriceTable()}
		_, _, err := empty.Rank("price(currentDate)", date)
		require.Error(t, err)
	})
}
