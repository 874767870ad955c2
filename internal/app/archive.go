package app

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
)

// EnsureArchiveFolder finds the archive folder directly under the root,
// creating it when absent. Idempotent: once created, repeated calls resolve
// to the same id. In dry-run mode absence is logged and no id is returned.
func EnsureArchiveFolder(ctx context.Context, store boxapi.Client, rootID, name string, dryRun bool) (string, error) {
	logger := logutil.GetLogger(ctx)

	items, err := store.ListFolderItems(ctx, rootID)
	if err != nil {
		return "", fmt.Errorf("list root folder for archive lookup: %w", err)
	}

	for _, item := range items {
		if item.Type == boxapi.ItemTypeFolder && item.Name == name {
			logger.Debug("found existing archive folder", zap.String("name", name), zap.String("id", item.ID))
			return item.ID, nil
		}
	}

	if dryRun {
		logger.Info("[DRY RUN] would create archive folder", zap.String("name", name))
		return "", nil
	}

	logger.Info("creating archive folder", zap.String("name", name))
	created, err := store.CreateFolder(ctx, rootID, name)
	if err != nil {
		return "", fmt.Errorf("create archive folder %s: %w", name, err)
	}
	logger.Info("created archive folder", zap.String("name", name), zap.String("id", created.ID))
	return created.ID, nil
}
