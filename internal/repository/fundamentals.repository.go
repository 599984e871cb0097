package repository

import (
	"fmt"

	"sectoralpha/internal/domain"
	"sectoralpha/pkg/yahoo"

	"github.com/piquette/finance-go/equity"
)

// FundamentalsRepository returns a best-effort present-day snapshot of
// {trailing P/E, return on equity, profit margin} for one symbol.
type FundamentalsRepository interface {
	Snapshot(symbol string) (domain.FundamentalSnapshot, error)
}

type yahooFundamentalsHandler struct {
	FinancialsClient yahoo.Client
}

func NewFundamentalsRepository(financialsClient yahoo.Client) FundamentalsRepository {
	return yahooFundamentalsHandler{
		FinancialsClient: financialsClient,
	}
}

func (h yahooFundamentalsHandler) Snapshot(symbol string) (domain.FundamentalSnapshot, error) {
	out := domain.FundamentalSnapshot{}

	q, quoteErr := equity.Get(symbol)
	if quoteErr == nil && q != nil && q.TrailingPE != 0 {
		pe := q.TrailingPE
		out.PE = &pe
	}

	financials, finErr := h.FinancialsClient.GetFinancialData(symbol)
	if finErr == nil {
		out.ROE = financials.ReturnOnEquity.Raw
		out.ProfitMargin = financials.ProfitMargin()
	}

	if quoteErr != nil && finErr != nil {
		return out, fmt.Errorf("failed to get fundamentals for %s: quote: %v, financials: %v", symbol, quoteErr, finErr)
	}

	return out, nil
}
