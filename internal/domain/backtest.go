package domain

import (
	"fmt"
	"time"
)

// BacktestStage identifies where in the evaluation pipeline a backtest
// currently is, or where it failed.
type BacktestStage string

const (
	BacktestStage_Requested        BacktestStage = "REQUESTED"
	BacktestStage_UniverseResolved BacktestStage = "UNIVERSE_RESOLVED"
	BacktestStage_PricesLoaded     BacktestStage = "PRICES_LOADED"
	BacktestStage_DateAligned      BacktestStage = "DATE_ALIGNED"
	BacktestStage_Scored           BacktestStage = "SCORED"
	BacktestStage_Evaluated        BacktestStage = "EVALUATED"
)

// BacktestStageError marks a backtest failure with the stage it originated
// from. The wrapped error keeps the typed taxonomy visible to errors.Is/As.
type BacktestStageError struct {
	Stage BacktestStage
	Err   error
}

func (e BacktestStageError) Error() string {
	return fmt.Sprintf("backtest failed at %s: %s", e.Stage, e.Err.Error())
}

func (e BacktestStageError) Unwrap() error {
	return e.Err
}

// BacktestResult is the terminal success state of a backtest run.
// EvalDate is the trading day actually used, which may differ from the
// requested date. ForwardReturn is nil when the forward window held no
// prices - a legitimate partial result, not a failure.
type BacktestResult struct {
	Symbol        string
	RequestedDate time.Time
	EvalDate      time.Time
	ForwardDays   int
	ForwardReturn *float64
	Scores        *ScoreTable
}
