package api

import (
	"context"
	"time"

	"sectoralpha/internal/app"
	"sectoralpha/internal/logger"

	"github.com/gin-gonic/gin"
)

type backtestRequest struct {
	SectorKey   string `json:"sectorKey"`
	RiskProfile string `json:"riskProfile"`
	EvalDate    string `json:"evalDate"`
	ForwardDays int    `json:"forwardDays"`
}

type backtestResponse struct {
	Symbol        string                 `json:"symbol"`
	RequestedDate string                 `json:"requestedDate"`
	EvalDate      string                 `json:"evalDate"`
	ForwardDays   int                    `json:"forwardDays"`
	ForwardReturn *float64               `json:"forwardReturn"`
	Scores        []scoredSymbolResponse `json:"scores"`
}

func (m ApiHandler) backtest(c *gin.Context) {
	ctx := context.WithValue(context.Background(), logger.ContextKey, m.Logger)

	var requestBody backtestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	evalDate, err := time.Parse(time.DateOnly, requestBody.EvalDate)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := m.BacktestHandler.Run(ctx, app.BacktestInput{
		SectorKey:   requestBody.SectorKey,
		RiskProfile: requestBody.RiskProfile,
		EvalDate:    evalDate,
		ForwardDays: requestBody.ForwardDays,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, backtestResponse{
		Symbol:        result.Symbol,
		RequestedDate: result.RequestedDate.Format(time.DateOnly),
		EvalDate:      result.EvalDate.Format(time.DateOnly),
		ForwardDays:   result.ForwardDays,
		ForwardReturn: result.ForwardReturn,
		Scores:        scoredSymbolsToResponse(result.Scores.Symbols),
	})
}
