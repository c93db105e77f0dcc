package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo builds throwaway repositories, one commit at a time.
type testRepo struct {
	t    *testing.T
	repo *git.Repository
	dir  string
	now  time.Time
}

func initRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)

	return &testRepo{
		t:    t,
		repo: repo,
		dir:  dir,
		now:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit writes the given files, stages them and commits. Commit times
// advance by a minute per commit so timestamps are distinct.
func (r *testRepo) commit(msg string, files map[string]string) plumbing.Hash {
	r.t.Helper()

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)

	for name, content := range files {
		require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, name), []byte(content), 0o600))
		_, err = wt.Add(name)
		require.NoError(r.t, err)
	}

	r.now = r.now.Add(time.Minute)
	sig := &object.Signature{Name: "Test Author", Email: "author@example.com", When: r.now}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	require.NoError(r.t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}))
}

func (r *testRepo) setRef(name string, hash plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), hash)
	require.NoError(r.t, r.repo.Storer.SetReference(ref))
}

func (r *testRepo) addRemote(name string) {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{"git@example.com:acme/widgets.git"},
	})
	require.NoError(r.t, err)
}

func TestBranches(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	c1 := tr.commit("base", map[string]string{"a.txt": "hello\n"})
	tr.addRemote("origin")
	tr.setRef("refs/remotes/origin/feature", c1)

	repo := Wrap(tr.repo)
	branches, err := repo.Branches()
	require.NoError(t, err)

	require.Len(t, branches, 2)
	assert.Equal(t, plumbing.ReferenceName("refs/heads/main"), branches[0].Name)
	assert.False(t, branches[0].Remote)
	assert.Equal(t, c1, branches[0].Head)
	assert.Equal(t, plumbing.ReferenceName("refs/remotes/origin/feature"), branches[1].Name)
	assert.True(t, branches[1].Remote)
}

func TestRemoteNames(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	tr.addRemote("upstream")
	tr.addRemote("origin")

	repo := Wrap(tr.repo)
	names, err := repo.RemoteNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"origin", "upstream"}, names)
}

func TestCommitLookup(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	c1 := tr.commit("base", map[string]string{"a.txt": "hello\n"})

	repo := Wrap(tr.repo)

	commit, err := repo.Commit(c1)
	require.NoError(t, err)
	assert.Equal(t, "base", commit.Message)
	assert.True(t, repo.HasCommit(c1))

	missing := plumbing.NewHash("0123456789012345678901234567890123456789")
	assert.False(t, repo.HasCommit(missing))
	_, err = repo.Commit(missing)
	require.Error(t, err)
}

func TestMergeBase(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	c1 := tr.commit("base", map[string]string{"a.txt": "hello\n"})
	tr.checkout("feature", true)
	c2 := tr.commit("feature work", map[string]string{"b.txt": "one\ntwo\n"})
	tr.checkout("main", false)
	c3 := tr.commit("main work", map[string]string{"c.txt": "three\n"})

	repo := Wrap(tr.repo)

	base, err := repo.MergeBase(c2, c3)
	require.NoError(t, err)
	assert.Equal(t, c1, base)

	// A commit is its own merge base with a descendant.
	base, err = repo.MergeBase(c1, c3)
	require.NoError(t, err)
	assert.Equal(t, c1, base)
}

func TestDiffStats(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	c1 := tr.commit("base", map[string]string{"a.txt": "hello\n"})
	c2 := tr.commit("change", map[string]string{
		"a.txt": "goodbye\n",
		"b.txt": "one\ntwo\n",
	})

	repo := Wrap(tr.repo)

	stats, err := repo.DiffStats(c1, c2)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Added, "1 rewritten line in a.txt, 2 new in b.txt")
	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, 2, stats.Files)
}

func TestCommitsBetween(t *testing.T) {
	t.Parallel()

	tr := initRepo(t)
	c1 := tr.commit("base", map[string]string{"a.txt": "hello\n"})
	tr.checkout("feature", true)
	c2 := tr.commit("feature 1", map[string]string{"b.txt": "one\n"})
	c3 := tr.commit("feature 2", map[string]string{"b.txt": "one\ntwo\n"})

	repo := Wrap(tr.repo)

	commits, err := repo.CommitsBetween(c3, c1)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, c3, commits[0].Hash)
	assert.Equal(t, c2, commits[1].Hash)

	// Head equals base: nothing in between.
	commits, err = repo.CommitsBetween(c1, c1)
	require.NoError(t, err)
	assert.Empty(t, commits)

	// No base: the full ancestry.
	commits, err = repo.CommitsBetween(c3, plumbing.ZeroHash)
	require.NoError(t, err)
	assert.Len(t, commits, 3)
}
