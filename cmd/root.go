package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/abtest-cli/internal/config"
)

var cfg *config.Config

// Flags shared by every command. Each overrides its config key when set.
var (
	flagFile   string
	flagMetric string
	flagTest   string
	flagAlpha  float64
	flagFormat string
)

var rootCmd = &cobra.Command{
	Use:   "abtest",
	Short: "A/B test of maximum vs average bidding",
	Long: "Loads the control (maximum bidding) and test (average bidding) sheets of the campaign workbook, " +
		"describes both, checks normality and variance homogeneity, and runs the configured significance test " +
		"on the chosen metric. Running without a subcommand is the same as analyze.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: runAnalyze,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("file") {
		c.Dataset.Path = flagFile
	}
	if flags.Changed("metric") {
		c.Analysis.Metric = flagMetric
	}
	if flags.Changed("test") {
		c.Analysis.Test = flagTest
	}
	if flags.Changed("alpha") {
		c.Analysis.Alpha = flagAlpha
	}
	if flags.Changed("format") {
		c.Report.Format = flagFormat
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFile, "file", "", "campaign workbook (default from dataset.path)")
	pf.StringVar(&flagMetric, "metric", "", "column to test: Impression, Click, Purchase or Earning")
	pf.StringVar(&flagTest, "test", "", "significance test: ttest, welch or mannwhitney")
	pf.Float64Var(&flagAlpha, "alpha", 0, "significance level used for the printed decisions")
	pf.StringVar(&flagFormat, "format", "", "report format: text, markdown or yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
