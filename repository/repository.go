package repository

import (
	"cmp"
	"fmt"
	"slices"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository wraps an open git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository at or above path.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// Wrap adapts an already-open go-git repository.
func Wrap(repo *git.Repository) *Repository {
	return &Repository{repo: repo}
}

// RefBranch is a native branch reference, either a local branch or a
// remote-tracking branch, with its head resolved.
type RefBranch struct {
	// Name is the full reference name.
	Name plumbing.ReferenceName
	// Head is the commit the reference points at.
	Head plumbing.Hash
	// Remote reports whether this is a remote-tracking reference.
	Remote bool
}

// Branches enumerates all local and remote-tracking branch references,
// sorted by name. Symbolic references (such as a remote's HEAD) are skipped,
// as are references that don't resolve to a commit.
func (r *Repository) Branches() ([]RefBranch, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var branches []RefBranch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() {
			return nil
		}
		branches = append(branches, RefBranch{
			Name:   name,
			Head:   ref.Hash(),
			Remote: name.IsRemote(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	slices.SortFunc(branches, func(a, b RefBranch) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return branches, nil
}

// RemoteNames returns the names of the configured remotes, sorted.
func (r *Repository) RemoteNames() ([]string, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	slices.Sort(names)
	return names, nil
}

// Commit looks up a commit by id.
func (r *Repository) Commit(id plumbing.Hash) (*object.Commit, error) {
	commit, err := r.repo.CommitObject(id)
	if err != nil {
		return nil, fmt.Errorf("find commit %s: %w", id, err)
	}
	return commit, nil
}

// HasCommit reports whether the commit exists in the repository.
func (r *Repository) HasCommit(id plumbing.Hash) bool {
	_, err := r.repo.CommitObject(id)
	return err == nil
}

// MergeBase returns the nearest common ancestor of a and b.
func (r *Repository) MergeBase(a, b plumbing.Hash) (plumbing.Hash, error) {
	commitA, err := r.Commit(a)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commitB, err := r.Commit(b)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	bases, err := commitA.MergeBase(commitB)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("merge base of %s and %s: %w", a, b, err)
	}
	if len(bases) == 0 {
		return plumbing.ZeroHash, fmt.Errorf("no merge base between %s and %s", a, b)
	}
	return bases[0].Hash, nil
}
