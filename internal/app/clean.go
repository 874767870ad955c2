package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
	"github.com/aeadata/casekeeper/internal/classify"
	"github.com/aeadata/casekeeper/internal/config"
)

// CleanOptions are the per-run flags of the cleanup workflow.
type CleanOptions struct {
	DryRun      bool
	Case        string // restrict the run to one case number
	AutoConfirm bool
}

// CleanCommand archives ready case folders and deletes their data files.
type CleanCommand struct {
	cfg     *config.Config
	store   boxapi.Client
	checker ReadinessChecker
	opts    CleanOptions

	in  io.Reader
	out io.Writer

	stats CleanupStats
}

// NewCleanCommand builds the cleanup workflow command.
func NewCleanCommand(cfg *config.Config, store boxapi.Client, checker ReadinessChecker, opts CleanOptions) *CleanCommand {
	return &CleanCommand{
		cfg:     cfg,
		store:   store,
		checker: checker,
		opts:    opts,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetIO redirects the confirmation prompt streams, used by tests.
func (c *CleanCommand) SetIO(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
}

// Stats exposes the run counters, also used to print a partial summary on
// interrupt.
func (c *CleanCommand) Stats() *CleanupStats { return &c.stats }

// LogSummary prints the run summary.
func (c *CleanCommand) LogSummary(ctx context.Context) {
	c.stats.LogSummary(ctx, c.opts.DryRun)
}

// Run executes the cleanup pipeline: authenticate, enumerate, confirm,
// resolve the archive folder, then process each case.
func (c *CleanCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)

	if err := c.authenticate(ctx); err != nil {
		return err
	}
	if err := c.checker.Validate(); err != nil {
		return err
	}

	folders, err := FindCaseFolders(ctx, c.store, c.cfg.RootFolderID, c.cfg.CasePrefix, c.opts.Case)
	if err != nil {
		return err
	}
	c.stats.FoldersFound = len(folders)

	if len(folders) == 0 {
		logger.Warn("no case folders found")
		c.LogSummary(ctx)
		return nil
	}

	if !c.opts.AutoConfirm && !c.opts.DryRun && len(folders) > 1 {
		logger.Info("about to process case folders", zap.Int("count", len(folders)))
		prompt := "Continue? [y/N]: "
		if len(folders) > 10 {
			prompt = fmt.Sprintf("Process %d folders? This may take a while. [y/N]: ", len(folders))
		}
		if !confirm(c.in, c.out, prompt) {
			logger.Info("cancelled by user")
			return nil
		}
	}

	archiveID, err := EnsureArchiveFolder(ctx, c.store, c.cfg.RootFolderID, c.cfg.ArchiveFolderName, c.opts.DryRun)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.processCase(ctx, folder, archiveID)
	}

	c.LogSummary(ctx)
	return nil
}

// List prints each case's readiness verdict without mutating anything.
func (c *CleanCommand) List(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)

	if err := c.authenticate(ctx); err != nil {
		return err
	}
	if err := c.checker.Validate(); err != nil {
		return err
	}

	folders, err := FindCaseFolders(ctx, c.store, c.cfg.RootFolderID, c.cfg.CasePrefix, c.opts.Case)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		logger.Warn("no case folders found")
		return nil
	}

	logger.Info("checking readiness", zap.Int("cases", len(folders)))

	ready := 0
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return err
		}
		verdict := c.checker.Check(ctx, folder.CaseNumber, true)
		if verdict.Output != "" {
			fmt.Fprintln(c.out, verdict.Output)
		}
		if verdict.Ready {
			ready++
		}
	}

	fmt.Fprintf(c.out, "\nSummary: %d/%d case(s) ready for purge\n", ready, len(folders))
	return nil
}

func (c *CleanCommand) authenticate(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	logger.Info("authenticating to box")
	user, err := c.store.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("authenticate to box: %w", err)
	}
	logger.Info("authenticated", zap.String("user", user.Name))
	return nil
}

// processCase runs the per-case pipeline. The folder is moved into the
// archive before any file is deleted: a failed move aborts the case with
// nothing destroyed, while a failed delete after the move leaves the folder
// archived with some data files still present, which is safe.
func (c *CleanCommand) processCase(ctx context.Context, folder CaseFolder, archiveID string) {
	logger := logutil.GetLogger(ctx)
	logger.Info("processing case", zap.String("folder", folder.Name))

	c.stats.FoldersChecked++

	verdict := c.checker.Check(ctx, folder.CaseNumber, false)
	if !verdict.Ready {
		logger.Info("not ready for purge, skipping", zap.String("folder", folder.Name))
		return
	}
	c.stats.FoldersReady++
	logger.Info("ready for purge", zap.String("folder", folder.Name))

	logger.Info("scanning folder contents", zap.String("folder", folder.Name))
	dataFiles, documents := ClassifyFolder(ctx, c.store, folder.ID)
	logger.Info("classified folder contents",
		zap.Int("data_files", len(dataFiles)),
		zap.Int("documents", len(documents)),
	)

	if !c.moveToArchive(ctx, folder, archiveID) {
		logger.Warn("failed to move folder, skipping file deletion for safety", zap.String("folder", folder.Name))
		return
	}
	c.stats.FoldersMoved++

	if len(dataFiles) == 0 {
		logger.Info("no data files to delete", zap.String("folder", folder.Name))
		return
	}

	deleted := c.deleteDataFiles(ctx, dataFiles)
	logger.Info("data file deletion finished",
		zap.String("folder", folder.Name),
		zap.Int("deleted", deleted),
		zap.Int("total", len(dataFiles)),
	)
}

func (c *CleanCommand) moveToArchive(ctx context.Context, folder CaseFolder, archiveID string) bool {
	logger := logutil.GetLogger(ctx)

	if c.opts.DryRun {
		logger.Info("[DRY RUN] would move folder to archive",
			zap.String("folder", folder.Name),
			zap.String("archive", c.cfg.ArchiveFolderName),
		)
		return true
	}

	if archiveID == "" {
		logger.Error("cannot move folder, archive folder not available", zap.String("folder", folder.Name))
		return false
	}

	if err := c.store.MoveFolder(ctx, folder.ID, archiveID); err != nil {
		if boxapi.IsNameCollision(err) {
			logger.Warn("folder already exists in archive, skipping", zap.String("folder", folder.Name))
			return false
		}
		logger.Error("failed to move folder", zap.String("folder", folder.Name), zap.Error(err))
		c.stats.Errors++
		return false
	}

	logger.Info("moved folder to archive", zap.String("folder", folder.Name))
	return true
}

// deleteDataFiles removes files one by one; a per-file failure is counted
// and the rest of the batch continues. Dry runs increment the same counters
// without issuing deletes.
func (c *CleanCommand) deleteDataFiles(ctx context.Context, files []classify.File) int {
	logger := logutil.GetLogger(ctx)

	deleted := 0
	var deletedBytes int64
	for _, f := range files {
		if c.opts.DryRun {
			logger.Info("[DRY RUN] would delete file",
				zap.String("path", f.Path),
				zap.String("size", formatSize(f.Size)),
			)
			deleted++
			deletedBytes += f.Size
			continue
		}

		if err := c.store.DeleteFile(ctx, f.ID); err != nil {
			logger.Error("failed to delete file", zap.String("path", f.Path), zap.Error(err))
			c.stats.Errors++
			continue
		}
		logger.Info("deleted file", zap.String("path", f.Path), zap.String("size", formatSize(f.Size)))
		deleted++
		deletedBytes += f.Size
	}

	c.stats.FilesDeleted += deleted
	c.stats.BytesDeleted += deletedBytes
	return deleted
}
