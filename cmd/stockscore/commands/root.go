package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockscore",
	Short: "Technical and fundamental stock scores from live Yahoo Finance data",
	Long: `stockscore scores a stock symbol from 0 to 100.

  technical   - trend (EMA 50/200) and momentum (RSI 14) over one year of daily bars
  fundamental - ROE, revenue growth, profit margin and debt-to-equity checks

Usage:
  go run ./cmd/stockscore [command]

Examples:
  go run ./cmd/stockscore api
  go run ./cmd/stockscore score technical RELIANCE
  go run ./cmd/stockscore score fundamental TCS --json`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
