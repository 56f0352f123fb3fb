package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/abtest-cli/internal/analysis"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Load, describe and merge both cohorts without running any test",
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		res, err := analysis.New(opts).Describe(ctx)
		if err != nil {
			return eris.Wrap(err, "describe")
		}
		return w.Write(res)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
