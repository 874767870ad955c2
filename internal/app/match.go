package app

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
)

// MatchesFolderName checks whether an item name refers to the expected
// folder, tolerating presence or absence of the case prefix on either side
// ("7712" matches "aearep-7712" and vice versa). Short numeric aliases can
// match by containment ("77" matches "7712"); that ambiguity mirrors how
// the field has historically been filled in and is left unguarded.
func MatchesFolderName(itemName, expected, prefix string) bool {
	item := strings.ToLower(itemName)
	want := strings.ToLower(expected)
	pfx := strings.ToLower(prefix) + "-"

	if item == want || strings.Contains(item, want) {
		return true
	}
	if item == pfx+want || strings.Contains(item, pfx+want) {
		return true
	}
	if strings.HasPrefix(want, pfx) {
		bare := strings.TrimPrefix(want, pfx)
		if item == bare || strings.Contains(item, bare) {
			return true
		}
	}
	return false
}

// TrashFilter holds the conjunctive criteria a trashed item must satisfy:
// deleted at or after the cutoff, deleted by the automation identity, and
// associated with the target folder.
type TrashFilter struct {
	FolderID   string
	FolderName string
	UserFilter string
	Prefix     string
	Cutoff     time.Time
}

// FilterTrashedItems applies the filter, logging the reason each candidate
// is kept or dropped.
func FilterTrashedItems(ctx context.Context, items []boxapi.Item, f TrashFilter) []boxapi.Item {
	logger := logutil.GetLogger(ctx)

	var filtered []boxapi.Item
	for _, item := range items {
		// Date: an absent or unparseable deletion timestamp cannot be
		// judged and passes through.
		if !item.TrashedAt.IsZero() && item.TrashedAt.Before(f.Cutoff) {
			logger.Debug("skipping item deleted before cutoff", zap.String("name", item.Name))
			continue
		}

		if f.UserFilter != "" && item.TrashedBy != "" {
			if !strings.Contains(strings.ToLower(item.TrashedBy), strings.ToLower(f.UserFilter)) {
				logger.Debug("skipping item deleted by other user",
					zap.String("name", item.Name),
					zap.String("deleted_by", item.TrashedBy),
				)
				continue
			}
		}

		if !f.matchesFolder(ctx, item) {
			logger.Debug("skipping item, no folder association", zap.String("name", item.Name))
			continue
		}

		filtered = append(filtered, item)
	}

	logger.Info("trash filtering finished", zap.Int("matched", len(filtered)), zap.Int("candidates", len(items)))
	return filtered
}

// matchesFolder decides folder association in priority order: the item is
// the folder itself, its direct parent is the folder, the folder appears in
// its ancestor path, or its name fuzzily matches the folder alias. With no
// folder id and no alias every item passes.
func (f TrashFilter) matchesFolder(ctx context.Context, item boxapi.Item) bool {
	if f.FolderID == "" && f.FolderName == "" {
		return true
	}

	logger := logutil.GetLogger(ctx)

	if f.FolderID != "" {
		if item.ID == f.FolderID {
			logger.Info("matched by folder id", zap.String("name", item.Name), zap.String("id", item.ID))
			return true
		}
		if item.ParentID == f.FolderID {
			logger.Info("matched by parent id", zap.String("name", item.Name), zap.String("parent_id", item.ParentID))
			return true
		}
		for _, ancestor := range item.PathIDs {
			if ancestor == f.FolderID {
				logger.Info("matched by ancestor path", zap.String("name", item.Name), zap.String("folder_id", f.FolderID))
				return true
			}
		}
	}

	if f.FolderName != "" && MatchesFolderName(item.Name, f.FolderName, f.Prefix) {
		logger.Info("matched by folder name", zap.String("name", item.Name), zap.String("expected", f.FolderName))
		return true
	}

	return false
}
