package repository

import (
	"fmt"
	"time"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/util"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// PriceRepository fetches daily adjusted closing bars for one symbol over a
// date range.
type PriceRepository interface {
	DailyBars(symbol string, start, end time.Time) ([]domain.PriceBar, error)
}

type yahooPriceHandler struct{}

func NewPriceRepository() PriceRepository {
	return yahooPriceHandler{}
}

func (h yahooPriceHandler) DailyBars(symbol string, start, end time.Time) ([]domain.PriceBar, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	bars := []domain.PriceBar{}
	for iter.Next() {
		bars = append(bars, domain.PriceBar{
			Date:  util.StripTime(time.Unix(int64(iter.Bar().Timestamp), 0).UTC()),
			Close: iter.Bar().AdjClose,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return bars, nil
}
