package boxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultAPIBase  = "https://api.box.com"
	defaultTokenURL = "https://api.box.com/oauth2/token"

	listLimit = 1000
)

// Client abstracts the subset of provider operations the workflows need.
type Client interface {
	CurrentUser(ctx context.Context) (*User, error)
	ListFolderItems(ctx context.Context, folderID string) ([]Item, error)
	CreateFolder(ctx context.Context, parentID, name string) (*Item, error)
	MoveFolder(ctx context.Context, folderID, destID string) error
	DeleteFile(ctx context.Context, fileID string) error
	ListTrashedItems(ctx context.Context) ([]Item, error)
	RestoreItem(ctx context.Context, item Item, parentID string) (*Item, error)
}

type restClient struct {
	hc      *http.Client
	apiBase string
	tokens  tokenSource

	trashPath string // negotiated on first trash listing
}

// Option customizes the REST client, mainly for tests.
type Option func(*restClient)

// WithBaseURL points the client at an alternative API endpoint.
func WithBaseURL(u string) Option {
	return func(c *restClient) { c.apiBase = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *restClient) { c.hc = hc }
}

// WithStaticToken bypasses the JWT grant with a fixed bearer token.
func WithStaticToken(token string) Option {
	return func(c *restClient) { c.tokens = staticTokenSource(token) }
}

// NewClient builds a REST client authenticated with the given service
// account credential document.
func NewClient(credJSON []byte, opts ...Option) (Client, error) {
	c := &restClient{
		hc:      http.DefaultClient,
		apiBase: defaultAPIBase,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.tokens == nil {
		creds, err := ParseCredentials(credJSON)
		if err != nil {
			return nil, err
		}
		tokenURL := defaultTokenURL
		if c.apiBase != defaultAPIBase {
			tokenURL = c.apiBase + "/oauth2/token"
		}
		src, err := newJWTTokenSource(c.hc, tokenURL, creds)
		if err != nil {
			return nil, err
		}
		c.tokens = src
	}

	return c, nil
}

func (c *restClient) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/2.0/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *restClient) ListFolderItems(ctx context.Context, folderID string) ([]Item, error) {
	query := url.Values{
		"limit":  {fmt.Sprint(listLimit)},
		"fields": {"id,name,type,size"},
	}
	var list itemList
	path := fmt.Sprintf("/2.0/folders/%s/items", url.PathEscape(folderID))
	if err := c.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}
	return normalizeItems(list.Entries), nil
}

func (c *restClient) CreateFolder(ctx context.Context, parentID, name string) (*Item, error) {
	body := map[string]any{
		"name":   name,
		"parent": map[string]string{"id": parentID},
	}
	var created apiItem
	if err := c.do(ctx, http.MethodPost, "/2.0/folders", nil, body, &created); err != nil {
		return nil, err
	}
	item := created.normalize()
	return &item, nil
}

func (c *restClient) MoveFolder(ctx context.Context, folderID, destID string) error {
	body := map[string]any{
		"parent": map[string]string{"id": destID},
	}
	path := fmt.Sprintf("/2.0/folders/%s", url.PathEscape(folderID))
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

func (c *restClient) DeleteFile(ctx context.Context, fileID string) error {
	path := fmt.Sprintf("/2.0/files/%s", url.PathEscape(fileID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *restClient) RestoreItem(ctx context.Context, item Item, parentID string) (*Item, error) {
	kind := "files"
	if item.Type == ItemTypeFolder {
		kind = "folders"
	}
	body := map[string]any{
		"parent": map[string]string{"id": parentID},
	}
	var restored apiItem
	path := fmt.Sprintf("/2.0/%s/%s", kind, url.PathEscape(item.ID))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &restored); err != nil {
		return nil, err
	}
	out := restored.normalize()
	return &out, nil
}

func (c *restClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.apiBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s %s timed out", method, path)}
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status
		}
		return &Error{
			Kind:       classify(resp.StatusCode, apiErr.Code),
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    fmt.Sprintf("%s %s: %s", method, path, msg),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}
