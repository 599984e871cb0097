package export

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"sectoralpha/internal/domain"

	"github.com/gocarina/gocsv"
)

type scoreRow struct {
	Symbol   string   `csv:"Symbol"`
	Security string   `csv:"Security"`
	Sector   string   `csv:"Sector"`
	Score    *float64 `csv:"Score"`
}

type fullScoreRow struct {
	Symbol      string   `csv:"Symbol"`
	Security    string   `csv:"Security"`
	Sector      string   `csv:"Sector"`
	Momentum    *float64 `csv:"Momentum"`
	Value       *float64 `csv:"Value"`
	Quality     *float64 `csv:"Quality"`
	RiskPenalty *float64 `csv:"RiskPenalty"`
	RawScore    *float64 `csv:"RawScore"`
	Score       *float64 `csv:"Score"`
}

// WriteScoreTable writes one row per scored symbol. The full variant adds
// the per-factor normalized values and the raw weighted score.
func WriteScoreTable(w io.Writer, table *domain.ScoreTable, full bool) error {
	if full {
		rows := make([]fullScoreRow, 0, len(table.Symbols))
		for _, s := range table.Symbols {
			rows = append(rows, fullScoreRow{
				Symbol:      s.Symbol,
				Security:    s.Security,
				Sector:      s.Sector,
				Momentum:    s.Momentum,
				Value:       s.Value,
				Quality:     s.Quality,
				RiskPenalty: s.RiskPenalty,
				RawScore:    s.RawScore,
				Score:       s.Score,
			})
		}
		return gocsv.Marshal(&rows, w)
	}

	rows := make([]scoreRow, 0, len(table.Symbols))
	for _, s := range table.Symbols {
		rows = append(rows, scoreRow{
			Symbol:   s.Symbol,
			Security: s.Security,
			Sector:   s.Sector,
			Score:    s.Score,
		})
	}
	return gocsv.Marshal(&rows, w)
}

// SaveScoreTable writes the table to path, creating or truncating the file.
func SaveScoreTable(path string, table *domain.ScoreTable, full bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteScoreTable(f, table, full); err != nil {
		return fmt.Errorf("failed to write score table to %s: %w", path, err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizePart replaces anything outside [A-Za-z0-9_-] so free-text inputs
// like sector keys are safe to embed in a filename.
func SanitizePart(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

func ScoreFilename(sectorKey, riskProfile string) string {
	return fmt.Sprintf("scored_%s_%s.csv", SanitizePart(sectorKey), SanitizePart(riskProfile))
}

func BacktestFilename(sectorKey, riskProfile string, evalDate time.Time) string {
	return fmt.Sprintf("backtest_%s_%s_%s.csv",
		SanitizePart(sectorKey), SanitizePart(riskProfile), SanitizePart(evalDate.Format(time.DateOnly)))
}
