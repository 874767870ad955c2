package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "casekeeper",
	Short:         "Archive completed case folders in Box and recover what was deleted",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("exec cmd failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCleanCommand())
	rootCmd.AddCommand(newRecoverCommand())
}
