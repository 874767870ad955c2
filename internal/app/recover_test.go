package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeadata/casekeeper/internal/boxapi"
)

func recoverFixture() *fakeStore {
	store := newFakeStore()
	store.children["root"] = []boxapi.Item{
		{ID: "archive", Name: "1Completed", Type: boxapi.ItemTypeFolder},
	}
	store.children["archive"] = []boxapi.Item{
		{ID: "archived-7712", Name: "aearep-7712", Type: boxapi.ItemTypeFolder},
	}
	store.trash = []boxapi.Item{
		{
			ID: "item-1", Name: "panel.dta", Type: boxapi.ItemTypeFile, Size: 2048,
			TrashedAt: time.Now().UTC().Add(-48 * time.Hour),
			TrashedBy: "aeadata@example.org",
			ParentID:  "555",
		},
		{
			ID: "item-2", Name: "unrelated.dta", Type: boxapi.ItemTypeFile,
			TrashedAt: time.Now().UTC().Add(-24 * time.Hour),
			TrashedBy: "someone@example.org",
			ParentID:  "555",
		},
	}
	return store
}

func TestRecoverScenario(t *testing.T) {
	store := recoverFixture()
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{
		CaseNumber:  "8040",
		Days:        7,
		AutoConfirm: true,
	})
	var out bytes.Buffer
	cmd.SetIO(strings.NewReader(""), &out)

	require.NoError(t, cmd.Run(context.Background()))

	// Only the automation-deleted item in the window is restored, into the
	// archived case folder.
	assert.Equal(t, map[string]string{"item-1": "archived-7712"}, store.restored)

	stats := cmd.Stats()
	assert.Equal(t, 1, stats.ItemsFound)
	assert.Equal(t, 1, stats.ItemsRestored)
	assert.Equal(t, 0, stats.Errors)

	assert.Contains(t, out.String(), "panel.dta")
}

func TestRecoverListOnly(t *testing.T) {
	store := recoverFixture()
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{
		CaseNumber: "8040",
		Days:       7,
		ListOnly:   true,
	})
	var out bytes.Buffer
	cmd.SetIO(strings.NewReader(""), &out)

	require.NoError(t, cmd.Run(context.Background()))
	assert.Empty(t, store.restored)
	assert.Equal(t, 1, cmd.Stats().ItemsFound)
}

func TestRecoverDryRun(t *testing.T) {
	store := recoverFixture()
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{
		CaseNumber: "8040",
		Days:       7,
		DryRun:     true,
	})
	cmd.SetIO(strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cmd.Run(context.Background()))
	assert.Empty(t, store.restored, "dry run must not restore anything")
	assert.Equal(t, 1, cmd.Stats().ItemsRestored, "dry run counters mirror a live run")
}

func TestRecoverNameCollisionIsWarning(t *testing.T) {
	store := recoverFixture()
	store.restoreErr["item-1"] = &boxapi.Error{Kind: boxapi.KindNameCollision, StatusCode: 409, Code: "item_name_in_use", Message: "exists"}
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{
		CaseNumber:  "8040",
		Days:        7,
		AutoConfirm: true,
	})
	cmd.SetIO(strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cmd.Run(context.Background()))
	stats := cmd.Stats()
	assert.Equal(t, 0, stats.ItemsRestored)
	assert.Equal(t, 0, stats.Errors, "collision means likely already restored, not an error")
}

func TestRecoverFallsBackToArchiveRoot(t *testing.T) {
	store := recoverFixture()
	store.children["archive"] = nil // case folder absent from archive
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{
		CaseNumber:  "8040",
		Days:        7,
		AutoConfirm: true,
	})
	cmd.SetIO(strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cmd.Run(context.Background()))
	assert.Equal(t, "archive", store.restored["item-1"])
}

func TestRecoverResolverFailureIsFatal(t *testing.T) {
	store := recoverFixture()
	resolver := &fakeResolver{err: assert.AnError}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{CaseNumber: "8040", Days: 7})
	cmd.SetIO(strings.NewReader(""), &bytes.Buffer{})

	assert.Error(t, cmd.Run(context.Background()))
}

func TestRecoverConfirmationDeclined(t *testing.T) {
	store := recoverFixture()
	resolver := &fakeResolver{folderID: "555", folderName: "aearep-7712"}

	cmd := NewRecoverCommand(testConfig(), store, resolver, RecoverOptions{CaseNumber: "8040", Days: 7})
	cmd.SetIO(strings.NewReader("no\n"), &bytes.Buffer{})

	require.NoError(t, cmd.Run(context.Background()))
	assert.Empty(t, store.restored)
}
