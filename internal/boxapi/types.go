package boxapi

import (
	"encoding/json"
	"time"
)

// ItemType discriminates files from folders.
type ItemType string

const (
	ItemTypeFile   ItemType = "file"
	ItemTypeFolder ItemType = "folder"
)

// Item is the one internal record shape every provider response is
// normalized into before business logic sees it. Optional fields are zero
// valued when the provider omits them.
type Item struct {
	ID        string
	Name      string
	Type      ItemType
	Size      int64
	TrashedAt time.Time // zero when absent or unparseable
	TrashedBy string    // login of the deleting identity
	ParentID  string
	PathIDs   []string // ancestor folder ids, root first
}

// User identifies the authenticated service account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

// wire shapes

type apiUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

type apiPathCollection struct {
	Entries []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"entries"`
}

type apiItem struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Name           string             `json:"name"`
	Size           int64              `json:"size"`
	TrashedAt      string             `json:"trashed_at"`
	TrashedBy      *apiUser           `json:"trashed_by"`
	Parent         json.RawMessage    `json:"parent"`
	PathCollection *apiPathCollection `json:"path_collection"`
}

type itemList struct {
	Entries    []apiItem `json:"entries"`
	TotalCount int       `json:"total_count"`
}

func (it apiItem) normalize() Item {
	out := Item{
		ID:       it.ID,
		Name:     it.Name,
		Type:     ItemType(it.Type),
		Size:     it.Size,
		ParentID: parentID(it.Parent),
	}
	if it.TrashedAt != "" {
		if ts, err := time.Parse(time.RFC3339, it.TrashedAt); err == nil {
			out.TrashedAt = ts
		}
	}
	if it.TrashedBy != nil {
		out.TrashedBy = it.TrashedBy.Login
	}
	if it.PathCollection != nil {
		for _, e := range it.PathCollection.Entries {
			out.PathIDs = append(out.PathIDs, e.ID)
		}
	}
	return out
}

// parentID extracts a folder id from the parent field, which the provider
// serializes either as an object carrying an id or as a bare id string.
func parentID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.ID != "" {
		return obj.ID
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func normalizeItems(entries []apiItem) []Item {
	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.normalize())
	}
	return out
}
