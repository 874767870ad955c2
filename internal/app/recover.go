package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
	"github.com/aeadata/casekeeper/internal/config"
)

// TicketResolver maps a ticket key to the storage folder id and folder-name
// alias recorded on it.
type TicketResolver interface {
	BoxInfo(ctx context.Context, issueKey string) (folderID, folderName string, err error)
}

// RecoverOptions are the per-run flags of the recovery workflow.
type RecoverOptions struct {
	CaseNumber  string
	Days        int
	ListOnly    bool
	DryRun      bool
	AutoConfirm bool
}

// RecoverCommand locates items the cleanup workflow deleted within the
// retention window and restores them to the archived folder.
type RecoverCommand struct {
	cfg      *config.Config
	store    boxapi.Client
	resolver TicketResolver
	opts     RecoverOptions
	cutoff   time.Time

	in  io.Reader
	out io.Writer

	stats RecoveryStats
}

// NewRecoverCommand builds the recovery workflow command.
func NewRecoverCommand(cfg *config.Config, store boxapi.Client, resolver TicketResolver, opts RecoverOptions) *RecoverCommand {
	return &RecoverCommand{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		opts:     opts,
		cutoff:   time.Now().UTC().AddDate(0, 0, -opts.Days),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetIO redirects the prompt and display streams, used by tests.
func (c *RecoverCommand) SetIO(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
}

// Stats exposes the run counters for partial summaries on interrupt.
func (c *RecoverCommand) Stats() *RecoveryStats { return &c.stats }

// LogSummary prints the run summary.
func (c *RecoverCommand) LogSummary(ctx context.Context) {
	c.stats.LogSummary(ctx, c.opts.DryRun)
}

// Run executes the recovery pipeline.
func (c *RecoverCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	issueKey := c.cfg.IssueKey(c.opts.CaseNumber)

	logger.Info("processing case", zap.String("case", issueKey))
	logger.Info("lookback window",
		zap.Int("days", c.opts.Days),
		zap.Time("cutoff", c.cutoff),
	)

	if err := c.authenticate(ctx); err != nil {
		return err
	}

	folderID, folderName, err := c.resolver.BoxInfo(ctx, issueKey)
	if err != nil {
		return fmt.Errorf("resolve box folder for %s: %w", issueKey, err)
	}
	if folderName != "" {
		logger.Info("looking for box folder", zap.String("name", folderName), zap.String("id", folderID))
	} else {
		logger.Info("looking for box folder", zap.String("id", folderID))
	}

	logger.Info("fetching trashed items")
	trashed, err := c.store.ListTrashedItems(ctx)
	if err != nil {
		return fmt.Errorf("list trashed items: %w", err)
	}
	logger.Info("trash listing finished", zap.Int("items", len(trashed)))

	filtered := FilterTrashedItems(ctx, trashed, TrashFilter{
		FolderID:   folderID,
		FolderName: folderName,
		UserFilter: c.cfg.AutomationUser,
		Prefix:     c.cfg.CasePrefix,
		Cutoff:     c.cutoff,
	})
	c.stats.ItemsFound = len(filtered)

	c.displayItems(filtered)

	if c.opts.ListOnly {
		logger.Info("[LIST MODE] no restoration performed")
		return nil
	}
	if len(filtered) == 0 {
		logger.Info("no items to restore")
		return nil
	}

	if !c.opts.AutoConfirm && !c.opts.DryRun {
		prompt := fmt.Sprintf("\nRestore %d item(s) to their folder? [y/N]: ", len(filtered))
		if !confirm(c.in, c.out, prompt) {
			logger.Info("cancelled by user")
			return nil
		}
	}

	targetID, err := c.resolveTarget(ctx, folderName)
	if err != nil {
		return err
	}
	if targetID == "" && !c.opts.DryRun {
		logger.Error("cannot restore, no target folder available")
		return nil
	}

	logger.Info("restoring items", zap.Int("count", len(filtered)))
	for _, item := range filtered {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.restoreItem(ctx, item, targetID)
	}

	c.LogSummary(ctx)
	return nil
}

func (c *RecoverCommand) authenticate(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	logger.Info("authenticating to box")
	user, err := c.store.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("authenticate to box: %w", err)
	}
	logger.Info("authenticated", zap.String("user", user.Name))
	return nil
}

func (c *RecoverCommand) displayItems(items []boxapi.Item) {
	if len(items) == 0 {
		fmt.Fprintln(c.out, "No matching deleted items found")
		return
	}

	fmt.Fprintf(c.out, "\nFound %d deleted item(s) matching criteria:\n", len(items))
	for i, item := range items {
		fmt.Fprintf(c.out, "\n%d. Type: %s\n", i+1, item.Type)
		fmt.Fprintf(c.out, "   Name: %s\n", item.Name)
		fmt.Fprintf(c.out, "   ID: %s\n", item.ID)
		if item.Size > 0 {
			fmt.Fprintf(c.out, "   Size: %s\n", formatSize(item.Size))
		}
		if !item.TrashedAt.IsZero() {
			fmt.Fprintf(c.out, "   Deleted: %s\n", item.TrashedAt.Format(time.RFC3339))
		}
		if item.TrashedBy != "" {
			fmt.Fprintf(c.out, "   Deleted by: %s\n", item.TrashedBy)
		}
	}
	fmt.Fprintln(c.out)
}

// resolveTarget picks the restore destination: the same-named case folder
// inside the archive when one exists, otherwise the archive root.
func (c *RecoverCommand) resolveTarget(ctx context.Context, folderName string) (string, error) {
	logger := logutil.GetLogger(ctx)

	archiveID, err := EnsureArchiveFolder(ctx, c.store, c.cfg.RootFolderID, c.cfg.ArchiveFolderName, c.opts.DryRun)
	if err != nil {
		return "", err
	}
	if archiveID == "" || folderName == "" {
		return archiveID, nil
	}

	items, err := c.store.ListFolderItems(ctx, archiveID)
	if err != nil {
		logger.Error("error searching archive for case folder", zap.Error(err))
		return archiveID, nil
	}
	for _, item := range items {
		if item.Type == boxapi.ItemTypeFolder && MatchesFolderName(item.Name, folderName, c.cfg.CasePrefix) {
			logger.Info("found case folder in archive", zap.String("name", item.Name), zap.String("id", item.ID))
			return item.ID, nil
		}
	}

	logger.Warn("case folder not found in archive, restoring to archive root", zap.String("name", folderName))
	return archiveID, nil
}

// restoreItem restores one trashed item. A name collision is taken to mean
// the item was likely already restored and is only warned about.
func (c *RecoverCommand) restoreItem(ctx context.Context, item boxapi.Item, targetID string) {
	logger := logutil.GetLogger(ctx)

	if c.opts.DryRun {
		logger.Info("[DRY RUN] would restore item",
			zap.String("type", string(item.Type)),
			zap.String("name", item.Name),
			zap.String("target", targetID),
		)
		c.stats.ItemsRestored++
		return
	}

	restored, err := c.store.RestoreItem(ctx, item, targetID)
	if err != nil {
		if boxapi.IsNameCollision(err) {
			logger.Warn("item already exists, may already be restored", zap.String("name", item.Name))
			return
		}
		logger.Error("failed to restore item",
			zap.String("type", string(item.Type)),
			zap.String("name", item.Name),
			zap.Error(err),
		)
		c.stats.Errors++
		return
	}

	logger.Info("restored item",
		zap.String("type", string(item.Type)),
		zap.String("name", item.Name),
		zap.String("id", restored.ID),
	)
	c.stats.ItemsRestored++
}
