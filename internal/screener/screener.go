package screener

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sectoralpha/internal/calculator"
	"sectoralpha/internal/domain"

	"github.com/maja42/goval"
)

// Screener ranks a universe by an arbitrary factor expression evaluated
// per symbol against the loaded price table and fundamentals. Expressions
// see the evaluation date as the currentDate variable, helpers like
// nDaysAgo/addDate, and metric functions over prices and fundamentals.
type Screener struct {
	Prices       *domain.PriceTable
	Fundamentals map[string]domain.FundamentalSnapshot
}

type RankedSymbol struct {
	Symbol string
	Value  float64
}

type missingDataError struct {
	Err error
}

func (e missingDataError) Error() string {
	return e.Err.Error()
}

// Rank evaluates the expression for every symbol in the table on the given
// date and returns the usable results sorted descending. Symbols whose
// expression cannot be computed are reported in the error map rather than
// aborting the screen.
func (s Screener) Rank(expression string, date time.Time) ([]RankedSymbol, map[string]error, error) {
	if s.Prices.Empty() {
		return nil, nil, fmt.Errorf("cannot screen an empty price table")
	}

	ranked := []RankedSymbol{}
	failures := map[string]error{}
	for _, symbol := range s.Prices.Symbols() {
		value, err := s.evaluate(expression, symbol, date)
		if err != nil {
			failures[symbol] = fmt.Errorf("failed to evaluate expression for %s on %s: %w",
				symbol, date.Format(time.DateOnly), err)
			continue
		}
		ranked = append(ranked, RankedSymbol{Symbol: symbol, Value: value})
	}
	if len(ranked) == 0 && len(failures) > 0 {
		return nil, failures, fmt.Errorf("expression produced no usable values for %d symbols", len(failures))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	return ranked, failures, nil
}

func (s Screener) evaluate(expression string, symbol string, date time.Time) (float64, error) {
	eval := goval.NewEvaluator()
	variables := map[string]interface{}{
		"currentDate": date.Format(time.DateOnly),
	}

	result, err := eval.Evaluate(expression, variables, s.functionMap(symbol, date))
	if err != nil {
		return 0, err
	}

	var value float64
	switch r := result.(type) {
	case float64:
		value = r
	case int:
		value = float64(r)
	default:
		return 0, fmt.Errorf("expression result is not numeric: %v", result)
	}
	if math.IsNaN(value) {
		return 0, fmt.Errorf("calculated NaN as expression result")
	}
	if math.IsInf(value, 0) {
		return 0, fmt.Errorf("calculated infinity as expression result")
	}

	return value, nil
}

func (s Screener) functionMap(symbol string, currentDate time.Time) map[string]goval.ExpressionFunction {
	return map[string]goval.ExpressionFunction{
		// date helpers

		"addDate": func(args ...interface{}) (interface{}, error) {
			// addDate(date, years, months, days)
			if len(args) < 4 {
				return 0, fmt.Errorf("addDate needs 4 args, got %d", len(args))
			}
			date, err := time.Parse(time.DateOnly, args[0].(string))
			if err != nil {
				return 0, err
			}
			years, months, days := args[1].(int), args[2].(int), args[3].(int)
			return date.AddDate(years, months, days).Format(time.DateOnly), nil
		},

		"nDaysAgo": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("nDaysAgo needs 1 arg, got %d", len(args))
			}
			return currentDate.AddDate(0, 0, -args[0].(int)).Format(time.DateOnly), nil
		},
		"nMonthsAgo": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("nMonthsAgo needs 1 arg, got %d", len(args))
			}
			return currentDate.AddDate(0, -args[0].(int), 0).Format(time.DateOnly), nil
		},
		"nYearsAgo": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("nYearsAgo needs 1 arg, got %d", len(args))
			}
			return currentDate.AddDate(-args[0].(int), 0, 0).Format(time.DateOnly), nil
		},

		// metric functions

		"price": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("price needs 1 arg, got %d", len(args))
			}
			date, err := time.Parse(time.DateOnly, args[0].(string))
			if err != nil {
				return 0, err
			}
			return s.priceAsOf(symbol, date)
		},

		"pricePercentChange": func(args ...interface{}) (interface{}, error) {
			if len(args) < 2 {
				return 0, fmt.Errorf("pricePercentChange needs 2 args, got %d", len(args))
			}
			start, err := time.Parse(time.DateOnly, args[0].(string))
			if err != nil {
				return 0, err
			}
			end, err := time.Parse(time.DateOnly, args[1].(string))
			if err != nil {
				return 0, err
			}
			startPrice, err := s.priceAsOf(symbol, start)
			if err != nil {
				return 0, err
			}
			endPrice, err := s.priceAsOf(symbol, end)
			if err != nil {
				return 0, err
			}
			return (endPrice/startPrice - 1) * 100, nil
		},

		"stdev": func(args ...interface{}) (interface{}, error) {
			if len(args) < 2 {
				return 0, fmt.Errorf("stdev needs 2 args, got %d", len(args))
			}
			start, err := time.Parse(time.DateOnly, args[0].(string))
			if err != nil {
				return 0, err
			}
			end, err := time.Parse(time.DateOnly, args[1].(string))
			if err != nil {
				return 0, err
			}
			return s.annualizedStdev(symbol, start, end)
		},

		"peRatio": func(args ...interface{}) (interface{}, error) {
			return s.fundamental(symbol, "peRatio", func(f domain.FundamentalSnapshot) *float64 { return f.PE })
		},
		"roe": func(args ...interface{}) (interface{}, error) {
			return s.fundamental(symbol, "roe", func(f domain.FundamentalSnapshot) *float64 { return f.ROE })
		},
		"profitMargin": func(args ...interface{}) (interface{}, error) {
			return s.fundamental(symbol, "profitMargin", func(f domain.FundamentalSnapshot) *float64 { return f.ProfitMargin })
		},
	}
}

// priceAsOf returns the most recent price on or before date, so weekend and
// holiday dates resolve to the prior trading day.
func (s Screener) priceAsOf(symbol string, date time.Time) (float64, error) {
	price, ok := s.Prices.LastPriceInRange(symbol, time.Time{}, date)
	if !ok {
		return 0, missingDataError{fmt.Errorf("no price for %s on or before %s", symbol, date.Format(time.DateOnly))}
	}
	return price, nil
}

func (s Screener) annualizedStdev(symbol string, start, end time.Time) (float64, error) {
	column, ok := s.Prices.Prices[symbol]
	if !ok {
		return 0, missingDataError{fmt.Errorf("no prices for %s", symbol)}
	}

	closes := []float64{}
	for _, date := range s.Prices.Dates {
		if date.Before(start) || date.After(end) {
			continue
		}
		if price, ok := column[date.Format(time.DateOnly)]; ok {
			closes = append(closes, price)
		}
	}
	returns := []float64{}
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
		}
	}

	stdev, err := calculator.AnnualizedStdev(returns)
	if err != nil {
		return 0, missingDataError{fmt.Errorf("not enough returns for %s between %s and %s",
			symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))}
	}
	return stdev, nil
}

func (s Screener) fundamental(symbol, name string, pick func(domain.FundamentalSnapshot) *float64) (float64, error) {
	f, ok := s.Fundamentals[symbol]
	if !ok {
		return 0, missingDataError{fmt.Errorf("no fundamentals for %s", symbol)}
	}
	v := pick(f)
	if v == nil {
		return 0, missingDataError{fmt.Errorf("%s does not have %s", symbol, name)}
	}
	return *v, nil
}
