package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sectoralpha/internal/app"
	"sectoralpha/internal/domain"
	"sectoralpha/internal/export"
	"sectoralpha/internal/logger"
	"sectoralpha/internal/screener"
	"sectoralpha/internal/universe"
	"sectoralpha/internal/util"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sectoralpha",
		Short: "Rank a sector's stocks by a composite factor score and backtest the top pick",
	}
	rootCmd.AddCommand(newPickCmd(), newBacktestCmd(), newScreenCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPickCmd() *cobra.Command {
	var (
		sectorKey   string
		riskProfile string
		full        bool
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Score the sector universe and print today's top pick",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := initializeDependencies()
			ctx := context.WithValue(context.Background(), logger.ContextKey, h.Logger)

			if sectorKey == "" {
				sectorKey = promptSector()
			}
			if riskProfile == "" {
				riskProfile = promptRiskProfile()
			}
			if _, err := universe.NewRiskProfile(riskProfile); err != nil {
				fmt.Println("Unknown risk profile. Defaulting to 'moderate'.")
				riskProfile = string(universe.RiskProfile_Moderate)
			}

			scores, err := h.PickHandler.Pick(ctx, sectorKey, riskProfile)
			if err != nil {
				return err
			}
			top, err := scores.TopPick()
			if err != nil {
				return err
			}

			fmt.Println("\nTop pick:")
			printScoredSymbol(top)

			filename := export.ScoreFilename(sectorKey, riskProfile)
			if err := export.SaveScoreTable(filename, scores, full); err != nil {
				return err
			}
			fmt.Printf("\nFull scored list saved to %s\n", filename)
			return nil
		},
	}
	cmd.Flags().StringVar(&sectorKey, "sector", "", "sector key, e.g. \"healthcare\"")
	cmd.Flags().StringVar(&riskProfile, "risk", "", "risk profile: conservative, moderate or aggressive")
	cmd.Flags().BoolVar(&full, "full", true, "include per-factor columns in the CSV")
	return cmd
}

func newBacktestCmd() *cobra.Command {
	var (
		sectorKey   string
		riskProfile string
		evalDateStr string
		forwardDays int
		full        bool
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay a sector pick from a historical date and measure the forward return",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := initializeDependencies()
			ctx := context.WithValue(context.Background(), logger.ContextKey, h.Logger)

			if sectorKey == "" {
				sectorKey = promptSector()
			}
			if riskProfile == "" {
				riskProfile = promptRiskProfile()
			}
			if evalDateStr == "" {
				evalDateStr = prompt("Enter date (YYYY-MM-DD): ")
			}
			evalDate, err := time.Parse(time.DateOnly, evalDateStr)
			if err != nil {
				return fmt.Errorf("could not parse date %q: %w", evalDateStr, err)
			}

			result, err := h.BacktestHandler.Run(ctx, app.BacktestInput{
				SectorKey:   sectorKey,
				RiskProfile: riskProfile,
				EvalDate:    evalDate,
				ForwardDays: forwardDays,
			})
			if err != nil {
				var stageErr domain.BacktestStageError
				if errors.As(err, &stageErr) {
					fmt.Fprintf(os.Stderr, "backtest failed at stage %s\n", stageErr.Stage)
				}
				return err
			}

			fmt.Printf("\nTop pick on %s: %s\n", result.EvalDate.Format(time.DateOnly), result.Symbol)
			if result.ForwardReturn != nil {
				fmt.Printf("Return over next %d days: %.2f%%\n", result.ForwardDays, *result.ForwardReturn*100)
			} else {
				fmt.Printf("Return over next %d days: unavailable (no forward prices)\n", result.ForwardDays)
			}
			fmt.Printf("Evaluation date (nearest trading day): %s\n", result.EvalDate.Format(time.DateOnly))

			filename := export.BacktestFilename(sectorKey, riskProfile, result.EvalDate)
			if err := export.SaveScoreTable(filename, result.Scores, full); err != nil {
				return err
			}
			fmt.Printf("Scored table saved to %s\n", filename)
			return nil
		},
	}
	cmd.Flags().StringVar(&sectorKey, "sector", "", "sector key, e.g. \"healthcare\"")
	cmd.Flags().StringVar(&riskProfile, "risk", "", "risk profile: conservative, moderate or aggressive")
	cmd.Flags().StringVar(&evalDateStr, "date", "", "evaluation date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&forwardDays, "forward-days", app.DefaultForwardDays, "forward return horizon in days")
	cmd.Flags().BoolVar(&full, "full", true, "include per-factor columns in the CSV")
	return cmd
}

func newScreenCmd() *cobra.Command {
	var (
		sectorKey  string
		expression string
		topN       int
	)
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Rank the sector universe by a custom factor expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := initializeDependencies()
			ctx := context.WithValue(context.Background(), logger.ContextKey, h.Logger)

			if sectorKey == "" {
				sectorKey = promptSector()
			}
			if expression == "" {
				expression = prompt("Enter factor expression: ")
			}

			ranked, failures, err := h.screen(ctx, sectorKey, expression)
			if err != nil {
				return err
			}
			if len(failures) > 0 {
				fmt.Printf("skipped %d symbols with missing data\n", len(failures))
			}
			if topN > len(ranked) {
				topN = len(ranked)
			}
			for _, r := range ranked[:topN] {
				fmt.Printf("%-8s %12.4f\n", r.Symbol, r.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sectorKey, "sector", "", "sector key, e.g. \"healthcare\"")
	cmd.Flags().StringVar(&expression, "expression", "", "factor expression, e.g. \"pricePercentChange(nDaysAgo(30), currentDate)\"")
	cmd.Flags().IntVar(&topN, "top", 10, "number of symbols to print")
	return cmd
}

func (h *handlers) screen(ctx context.Context, sectorKey, expression string) ([]screener.RankedSymbol, map[string]error, error) {
	prices, fundamentals, err := h.loadScreenInputs(ctx, sectorKey)
	if err != nil {
		return nil, nil, err
	}

	lastDate, ok := prices.LastDate()
	if !ok {
		return nil, nil, domain.DataUnavailableError{Err: fmt.Errorf("price table is empty")}
	}

	s := screener.Screener{Prices: prices, Fundamentals: fundamentals}
	return s.Rank(expression, lastDate)
}

func (h *handlers) loadScreenInputs(ctx context.Context, sectorKey string) (*domain.PriceTable, map[string]domain.FundamentalSnapshot, error) {
	matched, err := resolveScreenUniverse(h, sectorKey)
	if err != nil {
		return nil, nil, err
	}
	symbols := make([]string, 0, len(matched))
	for _, c := range matched {
		symbols = append(symbols, c.Symbol)
	}
	end := util.StripTime(time.Now().UTC())
	prices, err := h.PickHandler.PriceService.DailyPriceTable(ctx, symbols, end.AddDate(-1, 0, 0), end)
	if err != nil {
		return nil, nil, err
	}
	fundamentals := h.FundamentalsService.Snapshots(ctx, prices.Symbols())
	return prices, fundamentals, nil
}

func resolveScreenUniverse(h *handlers, sectorKey string) ([]domain.Constituent, error) {
	var table []domain.Constituent
	err := util.Retry(func() error {
		var listErr error
		table, listErr = h.PickHandler.ConstituentsRepository.List()
		return listErr
	}, 3, time.Second, nil)
	if err != nil {
		return nil, domain.DataUnavailableError{Err: err}
	}
	return universe.FilterBySector(table, sectorKey)
}

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pick and backtest operations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := initializeDependencies()
			return h.ApiHandler.StartApi(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 3009, "port to listen on")
	return cmd
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSector() string {
	fmt.Println("Sectors available:")
	for _, k := range universe.SectorKeys() {
		fmt.Println(" -", k)
	}
	return prompt("Enter sector (one of the keys above): ")
}

func promptRiskProfile() string {
	fmt.Println("Risk profiles: conservative, moderate, aggressive")
	return prompt("Enter risk profile: ")
}

func printScoredSymbol(s domain.ScoredSymbol) {
	fmt.Printf("Symbol       %s\n", s.Symbol)
	fmt.Printf("Security     %s\n", s.Security)
	fmt.Printf("Sector       %s\n", s.Sector)
	printFactor("Momentum", s.Momentum)
	printFactor("Value", s.Value)
	printFactor("Quality", s.Quality)
	printFactor("RiskPenalty", s.RiskPenalty)
	printFactor("RawScore", s.RawScore)
	printFactor("Score", s.Score)
}

func printFactor(name string, v *float64) {
	if v == nil {
		fmt.Printf("%-12s %s\n", name, "n/a")
		return
	}
	fmt.Printf("%-12s %.6f\n", name, *v)
}
