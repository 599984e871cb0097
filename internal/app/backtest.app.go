package app

import (
	"context"
	"fmt"
	"time"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/factor"
	"sectoralpha/internal/logger"
	"sectoralpha/internal/repository"
	"sectoralpha/internal/service"
	"sectoralpha/internal/universe"
	"sectoralpha/internal/util"
)

// priceWindowBufferDays pads both ends of the downloaded price span so the
// momentum lookback and the forward window land inside the data even when
// they start on non-trading days.
const priceWindowBufferDays = 30

// DefaultForwardDays is the forward-return horizon when the caller does not
// supply one, roughly one trading year.
const DefaultForwardDays = 252

type BacktestInput struct {
	SectorKey   string
	RiskProfile string
	EvalDate    time.Time
	ForwardDays int
}

// BacktestHandler replays a sector pick from a historical date and measures
// the realized forward return of the top-ranked symbol.
//
// Scoring only sees prices dated on or before the aligned evaluation date.
// Fundamentals are present-day values - a documented approximation, since
// the provider has no point-in-time fundamentals.
type BacktestHandler struct {
	ConstituentsRepository repository.ConstituentsRepository
	PriceService           service.PriceService
	FundamentalsService    service.FundamentalsService
}

func (h BacktestHandler) Run(ctx context.Context, in BacktestInput) (*domain.BacktestResult, error) {
	log := logger.FromContext(ctx)

	if in.ForwardDays <= 0 {
		in.ForwardDays = DefaultForwardDays
	}
	requestedDate := util.StripTime(in.EvalDate)

	// REQUESTED -> UNIVERSE_RESOLVED
	profile, err := universe.NewRiskProfile(in.RiskProfile)
	if err != nil {
		return nil, domain.BacktestStageError{Stage: domain.BacktestStage_Requested, Err: err}
	}
	matched, err := resolveUniverse(h.ConstituentsRepository, in.SectorKey)
	if err != nil {
		return nil, domain.BacktestStageError{Stage: domain.BacktestStage_Requested, Err: err}
	}
	log.Infof("resolved %d constituents for sector %q", len(matched), in.SectorKey)

	// UNIVERSE_RESOLVED -> PRICES_LOADED
	symbols := make([]string, 0, len(matched))
	for _, c := range matched {
		symbols = append(symbols, c.Symbol)
	}
	start := requestedDate.AddDate(0, 0, -(factor.MomentumWindowDays + priceWindowBufferDays))
	end := requestedDate.AddDate(0, 0, in.ForwardDays+priceWindowBufferDays)
	prices, err := h.PriceService.DailyPriceTable(ctx, symbols, start, end)
	if err != nil {
		return nil, domain.BacktestStageError{Stage: domain.BacktestStage_UniverseResolved, Err: err}
	}

	// PRICES_LOADED -> DATE_ALIGNED: snap the requested date to the nearest
	// trading day (ties toward the earlier day) and recompute everything
	// downstream against the substituted date.
	evalDate, ok := prices.NearestDate(requestedDate)
	if !ok {
		return nil, domain.BacktestStageError{
			Stage: domain.BacktestStage_PricesLoaded,
			Err:   fmt.Errorf("price table has no trading days"),
		}
	}
	if !evalDate.Equal(requestedDate) {
		log.Infof("requested date %s is not a trading day, using %s",
			requestedDate.Format(time.DateOnly), evalDate.Format(time.DateOnly))
	}
	pastPrices := prices.Truncate(evalDate)
	if pastPrices.Empty() {
		return nil, domain.BacktestStageError{
			Stage: domain.BacktestStage_PricesLoaded,
			Err:   fmt.Errorf("no price data available up to %s", evalDate.Format(time.DateOnly)),
		}
	}

	// DATE_ALIGNED -> SCORED
	fundamentals := h.FundamentalsService.Snapshots(ctx, pastPrices.Symbols())
	scores, err := ScoreUniverse(ScoreInput{
		Universe:     matched,
		Prices:       pastPrices,
		Fundamentals: fundamentals,
		RiskProfile:  profile,
	})
	if err != nil {
		return nil, domain.BacktestStageError{Stage: domain.BacktestStage_DateAligned, Err: err}
	}

	// SCORED -> EVALUATED
	top, err := scores.TopPick()
	if err != nil {
		return nil, domain.BacktestStageError{Stage: domain.BacktestStage_Scored, Err: err}
	}

	result := &domain.BacktestResult{
		Symbol:        top.Symbol,
		RequestedDate: requestedDate,
		EvalDate:      evalDate,
		ForwardDays:   in.ForwardDays,
		Scores:        scores,
	}

	// a missing forward return is a normal outcome (delisting or data gap),
	// not a failure
	forwardEnd := evalDate.AddDate(0, 0, in.ForwardDays)
	startPrice, okStart := prices.Get(top.Symbol, evalDate)
	endPrice, okEnd := prices.LastPriceInRange(top.Symbol, evalDate.AddDate(0, 0, 1), forwardEnd)
	if okStart && okEnd && startPrice != 0 {
		forwardReturn := endPrice/startPrice - 1
		result.ForwardReturn = &forwardReturn
	} else {
		log.Warnf("no forward price for %s in [%s, %s]", top.Symbol,
			evalDate.Format(time.DateOnly), forwardEnd.Format(time.DateOnly))
	}

	return result, nil
}
