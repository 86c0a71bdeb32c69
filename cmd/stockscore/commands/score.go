package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/scoring"
	"github.com/wonny/stockscore/pkg/logger"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a symbol once and print the result",
	Long: `Scores a single symbol against live Yahoo Finance data.

Subcommands:
  technical   - EMA 50/200 trend and RSI 14 momentum
  fundamental - ROE, revenue growth, margins and leverage
  scan        - trend strength, momentum, Bollinger bands and volume

Example:
  go run ./cmd/stockscore score technical RELIANCE
  go run ./cmd/stockscore score fundamental INFY --json
  go run ./cmd/stockscore score scan TCS`,
}

var (
	scoreTechnicalCmd = &cobra.Command{
		Use:   "technical [symbol]",
		Short: "Technical score",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore("technical"),
	}

	scoreFundamentalCmd = &cobra.Command{
		Use:   "fundamental [symbol]",
		Short: "Fundamental score",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore("fundamental"),
	}

	scoreScanCmd = &cobra.Command{
		Use:   "scan [symbol]",
		Short: "Composite scan with price and recommendation",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore("scan"),
	}

	scoreJSON bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.AddCommand(scoreTechnicalCmd)
	scoreCmd.AddCommand(scoreFundamentalCmd)
	scoreCmd.AddCommand(scoreScanCmd)

	scoreCmd.PersistentFlags().BoolVar(&scoreJSON, "json", false, "print the result as JSON")
}

// scoreOutput mirrors the API response
type scoreOutput struct {
	Symbol         string  `json:"symbol"`
	Kind           string  `json:"kind"`
	Price          float64 `json:"price,omitempty"`
	Score          int     `json:"score"`
	Reasoning      string  `json:"reasoning"`
	Recommendation string  `json:"recommendation"`
}

func runScore(kind string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		symbol := strings.TrimSpace(args[0])
		if symbol == "" {
			return fmt.Errorf("symbol is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// stdout carries the result; logs go to stderr
		log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

		svc := newServices(cmd.Context(), cfg, log)
		defer svc.Close()

		var out scoreOutput
		switch kind {
		case "scan":
			out = scanOutput(svc.scan.Scan(cmd.Context(), symbol))
		case "fundamental":
			out = scoredOutput(symbol, kind, svc.fundamental.Score(cmd.Context(), symbol))
		default:
			out = scoredOutput(symbol, kind, svc.technical.Score(cmd.Context(), symbol))
		}
		out.Symbol = symbol

		return printScore(cmd.OutOrStdout(), out, scoreJSON)
	}
}

func scoredOutput(symbol, kind string, result contracts.ScoreResult) scoreOutput {
	return scoreOutput{
		Symbol:         symbol,
		Kind:           kind,
		Score:          result.Score,
		Reasoning:      result.Reasoning(),
		Recommendation: scoring.Recommendation(result.Score),
	}
}

func scanOutput(result contracts.ScanResult) scoreOutput {
	return scoreOutput{
		Symbol:         result.Symbol,
		Kind:           "scan",
		Price:          result.Price,
		Score:          result.Score,
		Reasoning:      result.Reasoning(),
		Recommendation: result.Recommendation,
	}
}

func printScore(w io.Writer, out scoreOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s %s score: %d/100 (%s)\n", out.Symbol, out.Kind, out.Score, out.Recommendation)
	if out.Price != 0 {
		fmt.Fprintf(w, "  price: %.2f\n", out.Price)
	}
	for _, reason := range strings.Split(out.Reasoning, contracts.ReasonSeparator) {
		if reason != "" {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
	}
	return nil
}
