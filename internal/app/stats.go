package app

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// CleanupStats accumulates counters over one cleanup run. Counters only ever
// grow within a run and are logged once at the end (or on interrupt).
type CleanupStats struct {
	FoldersFound   int
	FoldersChecked int
	FoldersReady   int
	FoldersMoved   int
	FilesDeleted   int
	BytesDeleted   int64
	Errors         int
}

// LogSummary writes the run summary. Dry runs carry the same counters as a
// live run would, so the summary has the same shape either way.
func (s *CleanupStats) LogSummary(ctx context.Context, dryRun bool) {
	logger := logutil.GetLogger(ctx)
	logger.Info("cleanup summary",
		zap.Int("folders_found", s.FoldersFound),
		zap.Int("folders_checked", s.FoldersChecked),
		zap.Int("folders_ready", s.FoldersReady),
		zap.Int("folders_moved", s.FoldersMoved),
		zap.Int("files_deleted", s.FilesDeleted),
		zap.String("bytes_deleted", formatSize(s.BytesDeleted)),
		zap.Int("errors", s.Errors),
	)
	if dryRun {
		logger.Info("[TEST MODE] no actual changes were made")
	}
}

// RecoveryStats accumulates counters over one recovery run.
type RecoveryStats struct {
	ItemsFound    int
	ItemsRestored int
	Errors        int
}

// LogSummary writes the run summary.
func (s *RecoveryStats) LogSummary(ctx context.Context, dryRun bool) {
	logger := logutil.GetLogger(ctx)
	logger.Info("recovery summary",
		zap.Int("items_found", s.ItemsFound),
		zap.Int("items_restored", s.ItemsRestored),
		zap.Int("errors", s.Errors),
	)
	if dryRun {
		logger.Info("[TEST MODE] no actual changes were made")
	}
}
