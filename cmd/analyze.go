package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/abtest-cli/internal/analysis"
	"github.com/sells-group/abtest-cli/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full A/B test and print the report",
	Long: "Describes both cohorts, prints the group means of the metric, the Shapiro-Wilk and Levene " +
		"assumption checks, and the result of the configured significance test. The test is never " +
		"switched automatically; a warning is logged when the assumption checks disagree with it.",
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := analysis.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	w, err := reportWriter(cmd)
	if err != nil {
		return err
	}

	res, err := analysis.New(opts).Run(ctx)
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	zap.L().Info("analysis finished",
		zap.String("run_id", res.RunID),
		zap.Int("warnings", len(res.Warnings)),
	)
	return w.Write(res)
}

// reportWriter builds the configured report writer on the command's
// output stream.
func reportWriter(cmd *cobra.Command) (report.Writer, error) {
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return nil, err
	}
	return report.New(format, cmd.OutOrStdout())
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
