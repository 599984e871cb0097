package domain

// Constituent is one row of the index constituent table: a cleaned ticker
// symbol plus descriptive metadata from the provider.
type Constituent struct {
	Symbol   string
	Security string
	Sector   string
}

// FundamentalSnapshot is a best-effort, present-day fundamental record for
// one symbol. Nil fields are missing. When backtesting, these are a known
// approximation - historical fundamentals are not available from the
// provider.
type FundamentalSnapshot struct {
	PE           *float64
	ROE          *float64
	ProfitMargin *float64
}
