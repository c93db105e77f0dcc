package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchlab/vbranch/state"
)

func TestDetails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c1 := f.commit("base", map[string]string{"a.txt": "hello\n"})
	f.setTarget("main", c1)

	f.checkout("feature", true)
	f.commit("feature 1", map[string]string{"b.txt": "one\ntwo\n"})
	f.commitAs("feature 2", "Second Author", "second@example.com",
		map[string]string{"b.txt": "one\ntwo\nthree\n"})

	details, err := Details(f.open(), f.store, []string{"feature"})
	require.NoError(t, err)
	require.Len(t, details, 1)

	got := details[0]
	assert.Equal(t, "feature", got.Name)
	assert.Equal(t, 3, got.LinesAdded, "b.txt carries three lines at the head")
	assert.Equal(t, 0, got.LinesRemoved)
	assert.Equal(t, 1, got.NumberOfFiles)
	assert.Equal(t, 2, got.NumberOfCommits)
	assert.Equal(t, []Author{
		{Name: "Second Author", Email: "second@example.com"},
		{Name: "Test Author", Email: "author@example.com"},
	}, got.Authors)
}

func TestDetailsMergedBranchIsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c1 := f.commit("base", map[string]string{"a.txt": "hello\n"})
	f.setTarget("main", c1)

	// A branch pointing at the target's base commit carries nothing.
	f.setRef("refs/heads/merged", c1)

	details, err := Details(f.open(), f.store, []string{"merged"})
	require.NoError(t, err)
	require.Len(t, details, 1)

	got := details[0]
	assert.Zero(t, got.LinesAdded)
	assert.Zero(t, got.LinesRemoved)
	assert.Zero(t, got.NumberOfFiles)
	assert.Zero(t, got.NumberOfCommits)
	assert.Empty(t, got.Authors)
}

func TestDetailsDropsBranchesWithoutMergeBase(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c1 := f.commit("base", map[string]string{"a.txt": "hello\n"})
	f.setRef("refs/heads/feature", c1)

	// Target base commit that doesn't exist: no merge base can be computed
	// for any branch, so enrichment drops them all without failing.
	require.NoError(t, f.store.SetDefaultTarget(state.Target{
		Branch:    "main",
		Remote:    "origin",
		RemoteURL: "git@example.com:acme/widgets.git",
		Sha:       "0123456789012345678901234567890123456789",
	}))

	details, err := Details(f.open(), f.store, []string{"feature"})
	require.NoError(t, err)
	assert.Empty(t, details)
}
