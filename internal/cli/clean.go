package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"

	"github.com/aeadata/casekeeper/internal/app"
	"github.com/aeadata/casekeeper/internal/config"
)

func newCleanCommand() *cobra.Command {
	var (
		dryRun        bool
		listOnly      bool
		caseNumber    string
		autoConfirm   bool
		skipReadiness bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Archive ready case folders and delete their data files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if caseNumber != "" && !isDigits(caseNumber) {
				return fmt.Errorf("--case must be a number (e.g. 1234), not %q", caseNumber)
			}

			cfg := config.LoadFromEnv()
			if err := cfg.ValidateClean(); err != nil {
				return err
			}

			ctx, stop := signalContext(commandContext(cmd))
			defer stop()

			if dryRun {
				logutil.GetLogger(ctx).Info("[TEST MODE] cleanup started")
			} else {
				logutil.GetLogger(ctx).Info("cleanup started")
			}

			store, err := newBoxClient(cfg)
			if err != nil {
				return err
			}

			checker := app.NewHelperChecker(cfg.PurgeHelperPath, cfg.CasePrefix)
			if skipReadiness {
				logutil.GetLogger(ctx).Warn("readiness checks disabled, do not use outside testing")
				checker = app.NewSkipChecker()
			}

			runner := app.NewCleanCommand(cfg, store, checker, app.CleanOptions{
				DryRun:      dryRun,
				Case:        caseNumber,
				AutoConfirm: autoConfirm,
			})

			if listOnly {
				return runner.List(ctx)
			}

			if err := runner.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					logutil.GetLogger(ctx).Warn("interrupted by user")
					runner.LogSummary(context.Background())
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "test", false, "Dry run: show what would be done without making changes")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List cases and their readiness status without making changes")
	cmd.Flags().StringVar(&caseNumber, "case", "", "Process only this case number (e.g. 1234)")
	cmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&skipReadiness, "skip-readiness-check", false, "Treat every case as ready (testing only)")

	return cmd
}
