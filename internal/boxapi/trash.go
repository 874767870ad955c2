package boxapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// The provider has exposed the trash listing under two entry points across
// API revisions. The supported one is probed once and remembered; every
// later call uses the selected path.
var trashListPaths = []string{
	"/2.0/folders/trash/items",
	"/2.0/trash/items",
}

const trashFields = "id,name,type,size,trashed_at,trashed_by,path_collection,parent,item_status"

func (c *restClient) ListTrashedItems(ctx context.Context) ([]Item, error) {
	path, err := c.trashEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"limit":  {fmt.Sprint(listLimit)},
		"fields": {trashFields},
	}
	var list itemList
	if err := c.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}
	return normalizeItems(list.Entries), nil
}

func (c *restClient) trashEndpoint(ctx context.Context) (string, error) {
	if c.trashPath != "" {
		return c.trashPath, nil
	}

	logger := logutil.GetLogger(ctx)
	probe := url.Values{"limit": {"1"}}
	for _, path := range trashListPaths {
		err := c.do(ctx, http.MethodGet, path, probe, nil, &itemList{})
		if err == nil {
			logger.Debug("trash listing endpoint selected", zap.String("path", path))
			c.trashPath = path
			return path, nil
		}
		if IsNotFound(err) {
			logger.Debug("trash listing endpoint unsupported", zap.String("path", path))
			continue
		}
		return "", err
	}
	return "", &Error{Kind: KindFatal, Message: "no supported trash listing endpoint"}
}
