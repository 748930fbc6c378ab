package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tristrat",
	Short: "tristrat - three-strategy backtester and window optimizer",
	Long: `tristrat fetches historical prices, evaluates a moving-average crossover,
a momentum and a mean-reversion strategy over them, and searches for the
signal windows that maximize the average terminal equity of the trio.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
