package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aeadata/casekeeper/internal/boxapi"
	"github.com/aeadata/casekeeper/internal/config"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// signalContext wires OS interrupts into context cancellation so a run can
// print its partial summary before exiting non-zero.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func newBoxClient(cfg *config.Config) (boxapi.Client, error) {
	credJSON, err := cfg.CredentialJSON()
	if err != nil {
		return nil, err
	}
	return boxapi.NewClient(credJSON)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
