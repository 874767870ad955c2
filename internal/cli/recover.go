package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"

	"github.com/aeadata/casekeeper/internal/app"
	"github.com/aeadata/casekeeper/internal/config"
	"github.com/aeadata/casekeeper/internal/jiraapi"
)

func newRecoverCommand() *cobra.Command {
	var (
		caseNumber  string
		days        int
		listOnly    bool
		dryRun      bool
		autoConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Restore items deleted by the cleanup run within the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isDigits(caseNumber) {
				return fmt.Errorf("--case must be a number (e.g. 8040), not %q", caseNumber)
			}

			cfg := config.LoadFromEnv()
			if err := cfg.ValidateRecover(); err != nil {
				return err
			}

			ctx, stop := signalContext(commandContext(cmd))
			defer stop()

			if dryRun {
				logutil.GetLogger(ctx).Info("[TEST MODE] recovery started")
			} else {
				logutil.GetLogger(ctx).Info("recovery started")
			}

			store, err := newBoxClient(cfg)
			if err != nil {
				return err
			}

			tracker := jiraapi.New(cfg.JiraServer, cfg.JiraUsername, cfg.JiraAPIKey)
			if _, err := tracker.Myself(ctx); err != nil {
				return err
			}

			runner := app.NewRecoverCommand(cfg, store, tracker, app.RecoverOptions{
				CaseNumber:  caseNumber,
				Days:        days,
				ListOnly:    listOnly,
				DryRun:      dryRun,
				AutoConfirm: autoConfirm,
			})

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

	cmd.Flags().StringVar(&caseNumber, "case", "", "Ticket case number (e.g. 8040)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to look back for deleted items")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List deleted items only, do not restore")
	cmd.Flags().BoolVar(&dryRun, "test", false, "Dry run: show what would be done without making changes")
	cmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}
