package repository

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DiffStats summarizes a tree-to-tree diff.
type DiffStats struct {
	// Added and Removed are inserted and deleted line counts.
	Added   int
	Removed int
	// Files is the number of files changed.
	Files int
}

// DiffStats diffs the tree of the base commit against the tree of the head
// commit and returns the aggregate statistics.
func (r *Repository) DiffStats(base, head plumbing.Hash) (DiffStats, error) {
	baseTree, err := r.commitTree(base)
	if err != nil {
		return DiffStats{}, err
	}
	headTree, err := r.commitTree(head)
	if err != nil {
		return DiffStats{}, err
	}

	changes, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return DiffStats{}, fmt.Errorf("diff trees of %s and %s: %w", base, head, err)
	}
	patch, err := changes.Patch()
	if err != nil {
		return DiffStats{}, fmt.Errorf("diff trees of %s and %s: %w", base, head, err)
	}

	var stats DiffStats
	for _, fileStat := range patch.Stats() {
		stats.Added += fileStat.Addition
		stats.Removed += fileStat.Deletion
		stats.Files++
	}
	return stats, nil
}

func (r *Repository) commitTree(id plumbing.Hash) (*object.Tree, error) {
	commit, err := r.Commit(id)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of commit %s: %w", id, err)
	}
	return tree, nil
}

// CommitsBetween returns the commits reachable from head but not from base,
// newest first. When head equals base or is an ancestor of it, the result
// is empty.
func (r *Repository) CommitsBetween(head, base plumbing.Hash) ([]*object.Commit, error) {
	headCommit, err := r.Commit(head)
	if err != nil {
		return nil, err
	}

	// Everything reachable from base is excluded from the walk.
	seen := map[plumbing.Hash]bool{}
	if !base.IsZero() {
		baseCommit, err := r.Commit(base)
		if err != nil {
			return nil, err
		}
		baseIter := object.NewCommitPreorderIter(baseCommit, nil, nil)
		err = baseIter.ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk ancestry of %s: %w", base, err)
		}
	}

	var commits []*object.Commit
	iter := object.NewCommitPreorderIter(headCommit, seen, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk ancestry of %s: %w", head, err)
	}
	return commits, nil
}
