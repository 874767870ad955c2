package app

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aeadata/casekeeper/internal/boxapi"
	"github.com/aeadata/casekeeper/internal/classify"
)

// ClassifyFolder walks a folder and every descendant, bucketing files into
// deletable data and retained documents. A listing failure inside the tree
// is logged and that subtree skipped; the walk itself never fails.
func ClassifyFolder(ctx context.Context, store boxapi.Client, folderID string) (data, documents []classify.File) {
	walkFolder(ctx, store, folderID, "", &data, &documents)
	return data, documents
}

func walkFolder(ctx context.Context, store boxapi.Client, folderID, pathPrefix string, data, documents *[]classify.File) {
	logger := logutil.GetLogger(ctx)

	items, err := store.ListFolderItems(ctx, folderID)
	if err != nil {
		logger.Error("error accessing folder, skipping subtree",
			zap.String("path", pathPrefix),
			zap.String("folder_id", folderID),
			zap.Error(err),
		)
		return
	}

	for _, item := range items {
		itemPath := pathPrefix + "/" + item.Name

		switch item.Type {
		case boxapi.ItemTypeFile:
			record := classify.File{ID: item.ID, Name: item.Name, Size: item.Size, Path: itemPath}
			if classify.ByName(item.Name) == classify.KindData {
				*data = append(*data, record)
				logger.Debug("data file", zap.String("path", itemPath), zap.String("size", formatSize(item.Size)))
				continue
			}
			*documents = append(*documents, record)
			if classify.IsKnown(item.Name) {
				logger.Debug("document", zap.String("path", itemPath), zap.String("size", formatSize(item.Size)))
			} else {
				logger.Debug("unknown type, keeping", zap.String("path", itemPath), zap.String("size", formatSize(item.Size)))
			}
		case boxapi.ItemTypeFolder:
			logger.Debug("entering subfolder", zap.String("path", itemPath))
			walkFolder(ctx, store, item.ID, itemPath, data, documents)
		}
	}
}
