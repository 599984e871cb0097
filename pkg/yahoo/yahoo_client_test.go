package yahoo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [
      {
        "financialData": {
          "returnOnEquity": {"raw": 0.456, "fmt": "45.60%"},
          "profitMargins": {"raw": 0.253, "fmt": "25.30%"},
          "operatingMargins": {"raw": 0.301, "fmt": "30.10%"},
          "grossMargins": {"raw": 0.441, "fmt": "44.10%"}
        }
      }
    ],
    "error": null
  }
}`

func newTestClient(handler http.HandlerFunc) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.Client())
	client.BaseUrl = server.URL
	return client, server
}

func TestGetFinancialData(t *testing.T) {
	t.Run("parses the financialData module", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
			require.Equal(t, "financialData", r.URL.Query().Get("modules"))
			w.Write([]byte(quoteSummaryBody))
		})
		defer server.Close()

		got, err := client.GetFinancialData("AAPL")
		require.NoError(t, err)
		require.Equal(t, 0.456, *got.ReturnOnEquity.Raw)
		require.Equal(t, 0.253, *got.ProfitMargins.Raw)
	})

	t.Run("provider error payload fails", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteSummary": {"result": [], "error": {"code": "Not Found", "description": "Quote not found"}}}`))
		})
		defer server.Close()

		_, err := client.GetFinancialData("NOPE")
		require.ErrorContains(t, err, "Quote not found")
	})

	t.Run("empty result fails", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
		})
		defer server.Close()

		_, err := client.GetFinancialData("NOPE")
		require.ErrorContains(t, err, "no results")
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(429)
		})
		defer server.Close()

		_, err := client.GetFinancialData("AAPL")
		require.ErrorContains(t, err, "429")
	})
}

func TestFinancialData_ProfitMargin(t *testing.T) {
	profit, operating, gross := 0.25, 0.30, 0.44

	t.Run("prefers profit margins", func(t *testing.T) {
		f := FinancialData{
			ProfitMargins:    rawValue{Raw: &profit},
			OperatingMargins: rawValue{Raw: &operating},
			GrossMargins:     rawValue{Raw: &gross},
		}
		require.Equal(t, profit, *f.ProfitMargin())
	})

	t.Run("falls back through operating to gross", func(t *testing.T) {
		f := FinancialData{GrossMargins: rawValue{Raw: &gross}}
		require.Equal(t, gross, *f.ProfitMargin())
	})

	t.Run("all missing", func(t *testing.T) {
		require.Nil(t, FinancialData{}.ProfitMargin())
	})
}
