package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is a single daily bar from the price provider.
type PriceBar struct {
	Date  time.Time
	Close decimal.Decimal
}

// PriceTable is a date-aligned table of adjusted closing prices. Dates holds
// the union of trading days across all symbols, strictly increasing. Prices
// maps symbol -> date (YYYY-MM-DD) -> close. A symbol missing an entry for a
// date simply has no bar on that day.
type PriceTable struct {
	Dates  []time.Time
	Prices map[string]map[string]float64
}

func NewPriceTable() *PriceTable {
	return &PriceTable{
		Dates:  []time.Time{},
		Prices: map[string]map[string]float64{},
	}
}

func (t *PriceTable) Empty() bool {
	return t == nil || len(t.Dates) == 0 || len(t.Prices) == 0
}

// Symbols lists the table's columns in lexical order.
func (t *PriceTable) Symbols() []string {
	out := make([]string, 0, len(t.Prices))
	for symbol := range t.Prices {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

func (t *PriceTable) HasSymbol(symbol string) bool {
	_, ok := t.Prices[symbol]
	return ok
}

func (t *PriceTable) Get(symbol string, date time.Time) (float64, bool) {
	if column, ok := t.Prices[symbol]; ok {
		if price, ok := column[date.Format(time.DateOnly)]; ok {
			return price, true
		}
	}
	return 0, false
}

func (t *PriceTable) LastDate() (time.Time, bool) {
	if len(t.Dates) == 0 {
		return time.Time{}, false
	}
	return t.Dates[len(t.Dates)-1], true
}

// NearestDate returns the trading day closest to target by absolute distance.
// Ties resolve toward the earlier date; the same policy is applied everywhere
// a requested date is aligned to the trading calendar.
func (t *PriceTable) NearestDate(target time.Time) (time.Time, bool) {
	if len(t.Dates) == 0 {
		return time.Time{}, false
	}
	i := sort.Search(len(t.Dates), func(i int) bool {
		return !t.Dates[i].Before(target)
	})
	if i == 0 {
		return t.Dates[0], true
	}
	if i == len(t.Dates) {
		return t.Dates[len(t.Dates)-1], true
	}
	before, after := t.Dates[i-1], t.Dates[i]
	if target.Sub(before) <= after.Sub(target) {
		return before, true
	}
	return after, true
}

// Truncate returns a new table restricted to dates on or before asOf. Symbol
// columns left with no bars are dropped.
func (t *PriceTable) Truncate(asOf time.Time) *PriceTable {
	out := NewPriceTable()
	for _, date := range t.Dates {
		if date.After(asOf) {
			break
		}
		out.Dates = append(out.Dates, date)
	}
	for symbol, column := range t.Prices {
		kept := map[string]float64{}
		for _, date := range out.Dates {
			key := date.Format(time.DateOnly)
			if price, ok := column[key]; ok {
				kept[key] = price
			}
		}
		if len(kept) > 0 {
			out.Prices[symbol] = kept
		}
	}
	return out
}

// LastPriceInRange returns the symbol's most recent price within
// [start, end], inclusive on both ends.
func (t *PriceTable) LastPriceInRange(symbol string, start, end time.Time) (float64, bool) {
	column, ok := t.Prices[symbol]
	if !ok {
		return 0, false
	}
	for i := len(t.Dates) - 1; i >= 0; i-- {
		date := t.Dates[i]
		if date.After(end) {
			continue
		}
		if date.Before(start) {
			break
		}
		if price, ok := column[date.Format(time.DateOnly)]; ok {
			return price, true
		}
	}
	return 0, false
}

// DailyReturns computes the percent change between the symbol's consecutive
// available closes, in date order.
func (t *PriceTable) DailyReturns(symbol string) []float64 {
	column, ok := t.Prices[symbol]
	if !ok {
		return nil
	}
	returns := []float64{}
	prev := 0.0
	havePrev := false
	for _, date := range t.Dates {
		price, ok := column[date.Format(time.DateOnly)]
		if !ok {
			continue
		}
		if havePrev && prev != 0 {
			returns = append(returns, (price-prev)/prev)
		}
		prev = price
		havePrev = true
	}
	return returns
}
