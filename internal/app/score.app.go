package app

import (
	"context"
	"sort"
	"time"

	"sectoralpha/internal/calculator"
	"sectoralpha/internal/domain"
	"sectoralpha/internal/factor"
	"sectoralpha/internal/repository"
	"sectoralpha/internal/service"
	"sectoralpha/internal/universe"
	"sectoralpha/internal/util"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

type ScoreInput struct {
	Universe     []domain.Constituent
	Prices       *domain.PriceTable
	Fundamentals map[string]domain.FundamentalSnapshot
	RiskProfile  universe.RiskProfile
}

// ScoreUniverse combines the five normalized factors into one ranked score
// per symbol. Momentum is normalized exactly once, here, at the same stage
// as the other factors - before the weighted combination. Missing momentum,
// value and quality fall back to 0 (neutral-low). Missing risk penalty
// falls back to the cross-sectional median of the available penalties so a
// symbol with unknown risk is neither rewarded nor punished relative to
// peers; when no penalty is available anywhere, 0.5. The raw weighted score
// is re-ranked into [0,1] so the top pick is well-defined under any
// raw-score scale.
func ScoreUniverse(in ScoreInput) (*domain.ScoreTable, error) {
	symbols := []domain.Constituent{}
	for _, c := range in.Universe {
		if in.Prices.HasSymbol(c.Symbol) {
			symbols = append(symbols, c)
		}
	}
	if len(symbols) == 0 {
		return nil, domain.ErrAllScoresMissing
	}

	momentum := calculator.Normalize(factor.Momentum(in.Prices), true)
	riskPenalty := factor.RiskPenalty(factor.Volatility(in.Prices))
	quality := factor.Quality(in.Fundamentals)
	value := factor.Value(in.Fundamentals)

	riskFill := 0.5
	presentPenalties := []float64{}
	for _, c := range symbols {
		if v := riskPenalty[c.Symbol]; v != nil {
			presentPenalties = append(presentPenalties, *v)
		}
	}
	if len(presentPenalties) > 0 {
		if median, err := stats.Median(presentPenalties); err == nil {
			riskFill = median
		}
	}

	weights := in.RiskProfile.Weights()
	raw := map[string]*float64{}
	filled := map[string][4]float64{}
	for _, c := range symbols {
		m := fillZero(momentum[c.Symbol])
		v := fillZero(value[c.Symbol])
		q := fillZero(quality[c.Symbol])
		r := fillWith(riskPenalty[c.Symbol], riskFill)

		score := weights.Momentum*m + weights.Value*v + weights.Quality*q - weights.RiskPenalty*r
		raw[c.Symbol] = &score
		filled[c.Symbol] = [4]float64{m, v, q, r}
	}

	final := calculator.Normalize(raw, true)

	anyScore := false
	rows := make([]domain.ScoredSymbol, 0, len(symbols))
	for _, c := range symbols {
		f := filled[c.Symbol]
		m, v, q, r := f[0], f[1], f[2], f[3]
		if final[c.Symbol] != nil {
			anyScore = true
		}
		rows = append(rows, domain.ScoredSymbol{
			Symbol:      c.Symbol,
			Security:    c.Security,
			Sector:      c.Sector,
			Momentum:    &m,
			Value:       &v,
			Quality:     &q,
			RiskPenalty: &r,
			RawScore:    raw[c.Symbol],
			Score:       final[c.Symbol],
		})
	}
	if !anyScore {
		return nil, domain.ErrAllScoresMissing
	}

	sortScoredSymbols(rows)

	return &domain.ScoreTable{
		RunID:       uuid.New(),
		RiskProfile: string(in.RiskProfile),
		CreatedAt:   time.Now().UTC(),
		Symbols:     rows,
	}, nil
}

// PickHandler runs the live scoring pipeline: resolve the sector universe,
// download a year of prices, look up fundamentals and score.
type PickHandler struct {
	ConstituentsRepository repository.ConstituentsRepository
	PriceService           service.PriceService
	FundamentalsService    service.FundamentalsService
}

func (h PickHandler) Pick(ctx context.Context, sectorKey string, riskProfile string) (*domain.ScoreTable, error) {
	profile, err := universe.NewRiskProfile(riskProfile)
	if err != nil {
		return nil, err
	}

	matched, err := resolveUniverse(h.ConstituentsRepository, sectorKey)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(matched))
	for _, c := range matched {
		symbols = append(symbols, c.Symbol)
	}

	end := util.StripTime(time.Now().UTC())
	start := end.AddDate(-1, 0, 0)
	prices, err := h.PriceService.DailyPriceTable(ctx, symbols, start, end)
	if err != nil {
		return nil, err
	}

	fundamentals := h.FundamentalsService.Snapshots(ctx, prices.Symbols())

	return ScoreUniverse(ScoreInput{
		Universe:     matched,
		Prices:       prices,
		Fundamentals: fundamentals,
		RiskProfile:  profile,
	})
}

func resolveUniverse(constituents repository.ConstituentsRepository, sectorKey string) ([]domain.Constituent, error) {
	var table []domain.Constituent
	err := util.Retry(func() error {
		var listErr error
		table, listErr = constituents.List()
		return listErr
	}, 3, time.Second, nil)
	if err != nil {
		return nil, domain.DataUnavailableError{Err: err}
	}

	return universe.FilterBySector(table, sectorKey)
}

func fillZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func fillWith(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// sortScoredSymbols orders rows by final score descending with nil scores
// last. The sort is stable, so exactly tied scores keep universe order and
// the first occurrence wins the top pick.
func sortScoredSymbols(rows []domain.ScoredSymbol) {
	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := rows[i].Score, rows[j].Score
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si > *sj
	})
}
