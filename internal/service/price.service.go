package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/logger"
	"sectoralpha/internal/repository"
	"sectoralpha/internal/util"
)

// PriceService assembles the date-aligned price table for a set of symbols.
// The bulk download fans out over a bounded worker pool; per-symbol failures
// drop that column, matching the provider contract that unusable columns
// are removed rather than aborting the batch.
type PriceService interface {
	DailyPriceTable(ctx context.Context, symbols []string, start, end time.Time) (*domain.PriceTable, error)
}

type priceServiceHandler struct {
	PriceRepository repository.PriceRepository
	NumWorkers      int
	MaxAttempts     int
	InitialDelay    time.Duration
	Sleep           func(time.Duration)
}

func NewPriceService(priceRepository repository.PriceRepository) PriceService {
	return priceServiceHandler{
		PriceRepository: priceRepository,
		NumWorkers:      10,
		MaxAttempts:     3,
		InitialDelay:    time.Second,
	}
}

type priceFetchResult struct {
	Symbol string
	Bars   []domain.PriceBar
	Err    error
}

func (h priceServiceHandler) DailyPriceTable(ctx context.Context, symbols []string, start, end time.Time) (*domain.PriceTable, error) {
	log := logger.FromContext(ctx)

	if len(symbols) == 0 {
		return nil, domain.DataUnavailableError{Err: fmt.Errorf("no symbols to fetch prices for")}
	}

	inputCh := make(chan string, len(symbols))
	resultCh := make(chan priceFetchResult, len(symbols))
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		inputCh <- symbol
	}
	close(inputCh)

	for i := 0; i < h.NumWorkers; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case symbol, ok := <-inputCh:
					if !ok {
						return
					}
					var bars []domain.PriceBar
					err := util.Retry(func() error {
						var fetchErr error
						bars, fetchErr = h.PriceRepository.DailyBars(symbol, start, end)
						return fetchErr
					}, h.MaxAttempts, h.InitialDelay, h.Sleep)
					resultCh <- priceFetchResult{Symbol: symbol, Bars: bars, Err: err}
					wg.Done()
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	table := domain.NewPriceTable()
	dateSet := map[string]time.Time{}
	for result := range resultCh {
		if result.Err != nil {
			log.Warnf("dropping %s from price table: %s", result.Symbol, result.Err.Error())
			continue
		}
		if len(result.Bars) == 0 {
			continue
		}
		column := map[string]float64{}
		for _, bar := range result.Bars {
			key := bar.Date.Format(time.DateOnly)
			column[key] = bar.Close.InexactFloat64()
			dateSet[key] = bar.Date
		}
		table.Prices[result.Symbol] = column
	}

	if len(table.Prices) == 0 {
		return nil, domain.DataUnavailableError{
			Err: fmt.Errorf("no usable price data for any of %d symbols between %s and %s",
				len(symbols), start.Format(time.DateOnly), end.Format(time.DateOnly)),
		}
	}

	for _, date := range dateSet {
		table.Dates = append(table.Dates, date)
	}
	sort.Slice(table.Dates, func(i, j int) bool {
		return table.Dates[i].Before(table.Dates[j])
	})

	return table, nil
}
