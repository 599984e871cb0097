package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoredSymbol holds the contributing normalized factor values and the
// composite score for one symbol. Factor fields carry the values that
// actually entered the weighted combination, so neutral fills are visible
// in the output rather than hidden.
type ScoredSymbol struct {
	Symbol      string
	Security    string
	Sector      string
	Momentum    *float64
	Value       *float64
	Quality     *float64
	RiskPenalty *float64
	RawScore    *float64
	Score       *float64
}

// ScoreTable is the result of one scoring invocation. It is rebuilt in full
// on every call and handed to the caller as an immutable result, sorted by
// final score descending. Ties and nil scores preserve universe order.
type ScoreTable struct {
	RunID       uuid.UUID
	RiskProfile string
	CreatedAt   time.Time
	Symbols     []ScoredSymbol
}

// TopPick returns the highest-scoring symbol. The table is sorted with a
// stable sort, so on exactly tied scores the first symbol in universe order
// wins.
func (t *ScoreTable) TopPick() (ScoredSymbol, error) {
	if t == nil || len(t.Symbols) == 0 || t.Symbols[0].Score == nil {
		return ScoredSymbol{}, ErrAllScoresMissing
	}
	return t.Symbols[0], nil
}
