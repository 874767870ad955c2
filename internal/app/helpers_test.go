package app

import (
	"context"
	"fmt"

	"github.com/aeadata/casekeeper/internal/boxapi"
	"github.com/aeadata/casekeeper/internal/config"
)

// fakeStore is an in-memory stand-in for the storage provider.
type fakeStore struct {
	user     boxapi.User
	children map[string][]boxapi.Item // folder id -> immediate children
	trash    []boxapi.Item

	listErr    map[string]error
	moveErr    error
	deleteErr  map[string]error
	restoreErr map[string]error

	moved    map[string]string // folder id -> destination id
	deleted  []string
	restored map[string]string // item id -> parent id
	created  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		user:       boxapi.User{ID: "1", Name: "Case Automation", Login: "aeadata@example.org"},
		children:   map[string][]boxapi.Item{},
		listErr:    map[string]error{},
		deleteErr:  map[string]error{},
		restoreErr: map[string]error{},
		moved:      map[string]string{},
		restored:   map[string]string{},
	}
}

func (s *fakeStore) CurrentUser(ctx context.Context) (*boxapi.User, error) {
	u := s.user
	return &u, nil
}

func (s *fakeStore) ListFolderItems(ctx context.Context, folderID string) ([]boxapi.Item, error) {
	if err := s.listErr[folderID]; err != nil {
		return nil, err
	}
	return s.children[folderID], nil
}

func (s *fakeStore) CreateFolder(ctx context.Context, parentID, name string) (*boxapi.Item, error) {
	id := fmt.Sprintf("created-%d", len(s.created)+1)
	s.created = append(s.created, name)
	item := boxapi.Item{ID: id, Name: name, Type: boxapi.ItemTypeFolder, ParentID: parentID}
	s.children[parentID] = append(s.children[parentID], item)
	return &item, nil
}

func (s *fakeStore) MoveFolder(ctx context.Context, folderID, destID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.moved[folderID] = destID
	return nil
}

func (s *fakeStore) DeleteFile(ctx context.Context, fileID string) error {
	if err := s.deleteErr[fileID]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, fileID)
	return nil
}

func (s *fakeStore) ListTrashedItems(ctx context.Context) ([]boxapi.Item, error) {
	return s.trash, nil
}

func (s *fakeStore) RestoreItem(ctx context.Context, item boxapi.Item, parentID string) (*boxapi.Item, error) {
	if err := s.restoreErr[item.ID]; err != nil {
		return nil, err
	}
	s.restored[item.ID] = parentID
	out := item
	out.ParentID = parentID
	return &out, nil
}

// fakeChecker reports readiness from a fixed map.
type fakeChecker struct {
	ready map[string]bool
}

func (f *fakeChecker) Validate() error { return nil }

func (f *fakeChecker) Check(ctx context.Context, caseNumber string, verbose bool) Verdict {
	if f.ready[caseNumber] {
		return Verdict{Ready: true, Output: "ready for purge"}
	}
	return Verdict{Ready: false, Output: "not ready"}
}

// fakeResolver maps issue keys to folder info.
type fakeResolver struct {
	folderID   string
	folderName string
	err        error
}

func (f *fakeResolver) BoxInfo(ctx context.Context, issueKey string) (string, string, error) {
	return f.folderID, f.folderName, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		RootFolderID:      "root",
		CasePrefix:        "aearep",
		ArchiveFolderName: "1Completed",
		AutomationUser:    "aeadata",
	}
}
