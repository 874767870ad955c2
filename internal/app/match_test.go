package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeadata/casekeeper/internal/boxapi"
)

func TestMatchesFolderName(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchesFolderName("aearep-7712", "7712", "aearep"))
	assert.True(t, MatchesFolderName("7712", "aearep-7712", "aearep"))
	assert.True(t, MatchesFolderName("aearep-7712", "aearep-7712", "aearep"))
	assert.True(t, MatchesFolderName("AEAREP-7712", "7712", "aearep"))

	assert.False(t, MatchesFolderName("aearep-7712", "aearep-9999", "aearep"))
	assert.False(t, MatchesFolderName("aearep-7712", "9999", "aearep"))
}

func TestMatchesFolderNameShortAliasAmbiguity(t *testing.T) {
	t.Parallel()

	// Containment makes short numeric aliases over-match. Documented
	// behavior, not an endorsement.
	assert.True(t, MatchesFolderName("7712", "77", "aearep"))
}

func TestFilterTrashedItemsConjunctive(t *testing.T) {
	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	filter := TrashFilter{
		FolderID:   "555",
		FolderName: "aearep-7712",
		UserFilter: "aeadata",
		Prefix:     "aearep",
		Cutoff:     cutoff,
	}

	inWindow := cutoff.Add(48 * time.Hour)
	tooOld := cutoff.Add(-48 * time.Hour)

	items := []boxapi.Item{
		// right user, deleted before cutoff
		{ID: "a", Name: "old.dta", TrashedAt: tooOld, TrashedBy: "aeadata@example.org", ParentID: "555"},
		// in window, wrong user
		{ID: "b", Name: "other.dta", TrashedAt: inWindow, TrashedBy: "someone@example.org", ParentID: "555"},
		// in window, right user, no folder association
		{ID: "c", Name: "stray.dta", TrashedAt: inWindow, TrashedBy: "aeadata@example.org", ParentID: "999"},
		// passes everything via parent id
		{ID: "d", Name: "panel.dta", TrashedAt: inWindow, TrashedBy: "aeadata@example.org", ParentID: "555"},
		// passes via ancestor path
		{ID: "e", Name: "sub.csv", TrashedAt: inWindow, TrashedBy: "aeadata@example.org", PathIDs: []string{"0", "555", "600"}},
		// the folder itself
		{ID: "555", Name: "aearep-7712", TrashedAt: inWindow, TrashedBy: "aeadata@example.org"},
		// passes via fuzzy name match
		{ID: "f", Name: "aearep-7712-notes", TrashedAt: inWindow, TrashedBy: "aeadata@example.org"},
	}

	got := FilterTrashedItems(context.Background(), items, filter)
	require.Len(t, got, 4)
	assert.Equal(t, "d", got[0].ID)
	assert.Equal(t, "e", got[1].ID)
	assert.Equal(t, "555", got[2].ID)
	assert.Equal(t, "f", got[3].ID)
}

func TestFilterTrashedItemsNoFolderCriteria(t *testing.T) {
	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	filter := TrashFilter{UserFilter: "aeadata", Prefix: "aearep", Cutoff: cutoff}

	items := []boxapi.Item{
		{ID: "a", Name: "x.dta", TrashedAt: cutoff.Add(time.Hour), TrashedBy: "aeadata@example.org"},
		{ID: "b", Name: "y.dta", TrashedAt: cutoff.Add(time.Hour), TrashedBy: "other@example.org"},
	}

	got := FilterTrashedItems(context.Background(), items, filter)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFilterTrashedItemsMissingTimestampPasses(t *testing.T) {
	filter := TrashFilter{
		UserFilter: "aeadata",
		Prefix:     "aearep",
		Cutoff:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	items := []boxapi.Item{
		{ID: "a", Name: "undated.dta", TrashedBy: "aeadata@example.org"},
	}

	got := FilterTrashedItems(context.Background(), items, filter)
	assert.Len(t, got, 1)
}
