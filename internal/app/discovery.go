package app

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
)

// CaseFolder references one case folder found under the root.
type CaseFolder struct {
	ID         string
	Name       string
	CaseNumber string
}

// FindCaseFolders lists the immediate children of the root folder and keeps
// those named <prefix>-<digits> (case-insensitive), sorted ascending by the
// numeric case id. Folders that do not match are skipped silently. An
// onlyCase filter restricts the result to a single case number.
func FindCaseFolders(ctx context.Context, store boxapi.Client, rootID, prefix, onlyCase string) ([]CaseFolder, error) {
	logger := logutil.GetLogger(ctx)
	logger.Info("scanning root folder for case folders", zap.String("root_id", rootID))

	pattern, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	if err != nil {
		return nil, fmt.Errorf("compile case pattern for prefix %q: %w", prefix, err)
	}

	items, err := store.ListFolderItems(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("list root folder %s: %w", rootID, err)
	}

	var folders []CaseFolder
	for _, item := range items {
		if item.Type != boxapi.ItemTypeFolder {
			continue
		}
		m := pattern.FindStringSubmatch(item.Name)
		if m == nil {
			continue
		}
		caseNumber := m[1]
		if onlyCase != "" && caseNumber != onlyCase {
			continue
		}
		folders = append(folders, CaseFolder{ID: item.ID, Name: item.Name, CaseNumber: caseNumber})
		logger.Debug("found case folder", zap.String("name", item.Name), zap.String("id", item.ID))
	}

	sort.Slice(folders, func(i, j int) bool {
		a, _ := strconv.Atoi(folders[i].CaseNumber)
		b, _ := strconv.Atoi(folders[j].CaseNumber)
		return a < b
	})

	logger.Info("case folder scan finished", zap.Int("found", len(folders)))
	return folders, nil
}
