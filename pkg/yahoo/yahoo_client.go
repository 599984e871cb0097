package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client fetches the quoteSummary financialData module, which carries the
// profitability fields the quote endpoint does not expose.
type Client struct {
	HttpClient *http.Client
	BaseUrl    string
}

func NewClient(httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return Client{
		HttpClient: httpClient,
		BaseUrl:    "https://query2.finance.yahoo.com",
	}
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type FinancialData struct {
	ReturnOnEquity   rawValue `json:"returnOnEquity"`
	ProfitMargins    rawValue `json:"profitMargins"`
	OperatingMargins rawValue `json:"operatingMargins"`
	GrossMargins     rawValue `json:"grossMargins"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData FinancialData `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (c Client) GetFinancialData(symbol string) (*FinancialData, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=financialData", c.BaseUrl, symbol)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != 200 {
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	var responseJson quoteSummaryResponse
	err = json.Unmarshal(responseBytes, &responseJson)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote summary for %s: %w", symbol, err)
	}
	if responseJson.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error for %s: %s", symbol, responseJson.QuoteSummary.Error.Description)
	}
	if len(responseJson.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary returned no results for %s", symbol)
	}

	return &responseJson.QuoteSummary.Result[0].FinancialData, nil
}

// ProfitMargin returns the first populated margin in the provider's
// preference order: profit, operating, gross.
func (f FinancialData) ProfitMargin() *float64 {
	for _, candidate := range []rawValue{f.ProfitMargins, f.OperatingMargins, f.GrossMargins} {
		if candidate.Raw != nil {
			return candidate.Raw
		}
	}
	return nil
}
