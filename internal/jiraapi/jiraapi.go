package jiraapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Custom field display names carrying the storage-folder linkage.
const (
	BoxIDFieldName      = "Restricted data Box ID"
	FolderNameFieldName = "Bitbucket short name"
)

// Client talks to the issue tracker's REST API with basic auth.
type Client struct {
	hc       *http.Client
	baseURL  string
	username string
	token    string

	fieldIDs map[string]string // display name -> field id, cached after first schema fetch
}

// New builds a tracker client for the given server.
func New(baseURL, username, token string) *Client {
	return &Client{
		hc:       http.DefaultClient,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		token:    token,
	}
}

// WithHTTPClient substitutes the underlying HTTP client, for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// User is the authenticated tracker identity.
type User struct {
	DisplayName string `json:"displayName"`
}

// Issue carries the raw field map of a ticket.
type Issue struct {
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// Field is one entry of the tracker's field schema.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Myself fetches the authenticated user, serving as an auth smoke test.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/rest/api/2/myself", &user); err != nil {
		return nil, errors.Wrap(err, "authenticate to jira")
	}
	return &user, nil
}

// Issue fetches a ticket by key.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	path := "/rest/api/2/issue/" + url.PathEscape(key)
	if err := c.get(ctx, path, &issue); err != nil {
		return nil, errors.Wrapf(err, "fetch issue %s", key)
	}
	return &issue, nil
}

// Fields fetches the full field schema.
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.get(ctx, "/rest/api/2/field", &fields); err != nil {
		return nil, errors.Wrap(err, "fetch field schema")
	}
	return fields, nil
}

// ResolveFieldID maps a custom field display name to its field id, caching
// the schema after the first lookup.
func (c *Client) ResolveFieldID(ctx context.Context, displayName string) (string, error) {
	if c.fieldIDs == nil {
		fields, err := c.Fields(ctx)
		if err != nil {
			return "", err
		}
		c.fieldIDs = make(map[string]string, len(fields))
		for _, f := range fields {
			c.fieldIDs[f.Name] = f.ID
		}
	}
	id, ok := c.fieldIDs[displayName]
	if !ok {
		return "", errors.Errorf("custom field %q not found in jira", displayName)
	}
	return id, nil
}

// BoxInfo resolves the storage folder id and folder-name alias recorded on a
// ticket. A missing name alias is tolerated; a missing folder id is not.
func (c *Client) BoxInfo(ctx context.Context, issueKey string) (folderID, folderName string, err error) {
	logger := logutil.GetLogger(ctx)

	issue, err := c.Issue(ctx, issueKey)
	if err != nil {
		return "", "", err
	}

	idFieldID, err := c.ResolveFieldID(ctx, BoxIDFieldName)
	if err != nil {
		return "", "", err
	}
	folderID = CleanNumericField(issue.Fields[idFieldID])
	if folderID == "" {
		return "", "", errors.Errorf("field %q is empty for %s", BoxIDFieldName, issueKey)
	}

	nameFieldID, err := c.ResolveFieldID(ctx, FolderNameFieldName)
	if err != nil {
		logger.Debug("folder name field not defined", zap.String("field", FolderNameFieldName))
	} else {
		folderName = CleanNumericField(issue.Fields[nameFieldID])
		if folderName != "" {
			logger.Info("found box folder name", zap.String("name", folderName))
		}
	}

	logger.Info("found box folder id", zap.String("id", folderID))
	return folderID, folderName, nil
}

// CleanNumericField normalizes a field value that the tracker may deliver as
// a float with a spurious fractional suffix. nil normalizes to the empty
// string.
func CleanNumericField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		if val == math.Trunc(val) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case string:
		return strings.TrimSuffix(val, ".0")
	default:
		return strings.TrimSuffix(fmt.Sprintf("%v", val), ".0")
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "build request %s", path)
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Errorf("jira resource %s not found", path)
	}
	if resp.StatusCode >= 400 {
		return errors.Errorf("jira request %s failed with status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode response of %s", path)
	}
	return nil
}
