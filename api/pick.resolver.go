package api

import (
	"context"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/logger"

	"github.com/gin-gonic/gin"
)

type pickRequest struct {
	SectorKey   string `json:"sectorKey"`
	RiskProfile string `json:"riskProfile"`
}

type scoredSymbolResponse struct {
	Symbol      string   `json:"symbol"`
	Security    string   `json:"security"`
	Sector      string   `json:"sector"`
	Momentum    *float64 `json:"momentum"`
	Value       *float64 `json:"value"`
	Quality     *float64 `json:"quality"`
	RiskPenalty *float64 `json:"riskPenalty"`
	RawScore    *float64 `json:"rawScore"`
	Score       *float64 `json:"score"`
}

type pickResponse struct {
	RunID       string                 `json:"runId"`
	RiskProfile string                 `json:"riskProfile"`
	TopPick     scoredSymbolResponse   `json:"topPick"`
	Scores      []scoredSymbolResponse `json:"scores"`
}

func (m ApiHandler) pick(c *gin.Context) {
	ctx := context.WithValue(context.Background(), logger.ContextKey, m.Logger)

	var requestBody pickRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	scores, err := m.PickHandler.Pick(ctx, requestBody.SectorKey, requestBody.RiskProfile)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	top, err := scores.TopPick()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, pickResponse{
		RunID:       scores.RunID.String(),
		RiskProfile: scores.RiskProfile,
		TopPick:     scoredSymbolToResponse(top),
		Scores:      scoredSymbolsToResponse(scores.Symbols),
	})
}

func scoredSymbolToResponse(s domain.ScoredSymbol) scoredSymbolResponse {
	return scoredSymbolResponse{
		Symbol:      s.Symbol,
		Security:    s.Security,
		Sector:      s.Sector,
		Momentum:    s.Momentum,
		Value:       s.Value,
		Quality:     s.Quality,
		RiskPenalty: s.RiskPenalty,
		RawScore:    s.RawScore,
		Score:       s.Score,
	}
}

func scoredSymbolsToResponse(symbols []domain.ScoredSymbol) []scoredSymbolResponse {
	out := make([]scoredSymbolResponse, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, scoredSymbolToResponse(s))
	}
	return out
}
