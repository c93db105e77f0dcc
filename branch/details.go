package branch

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/branchlab/vbranch/repository"
	"github.com/branchlab/vbranch/state"
)

// Details computes per-branch statistics for the named branches, relative
// to the default target: changed lines and files between the merge base and
// the branch head, and the count and authors of the commits the branch
// carries beyond the target.
//
// A branch whose merge base with the target cannot be resolved, or whose
// statistics fail to compute, is dropped from the result; the call as a
// whole still succeeds.
func Details(repo *repository.Repository, store *state.Handle, names []string) ([]ListingDetails, error) {
	listings, err := List(repo, store, nil, names)
	if err != nil {
		return nil, err
	}
	target, err := store.DefaultTarget()
	if err != nil {
		return nil, fmt.Errorf("branch details: %w", err)
	}

	details := make([]ListingDetails, 0, len(listings))
	for _, listing := range listings {
		detail, err := enrich(repo, listing, target)
		if err != nil {
			slog.Warn("dropping branch from details",
				slog.String("name", listing.Name),
				slog.Any("error", err),
			)
			continue
		}
		details = append(details, detail)
	}
	return details, nil
}

func enrich(repo *repository.Repository, listing BranchListing, target state.Target) (ListingDetails, error) {
	base, err := repo.MergeBase(target.ShaHash(), listing.Head)
	if err != nil {
		return ListingDetails{}, err
	}

	stats, err := repo.DiffStats(base, listing.Head)
	if err != nil {
		return ListingDetails{}, err
	}

	commits, err := repo.CommitsBetween(listing.Head, base)
	if err != nil {
		return ListingDetails{}, err
	}

	var authors []Author
	for _, commit := range commits {
		author := signatureAuthor(commit.Author)
		if !slices.Contains(authors, author) {
			authors = append(authors, author)
		}
	}
	slices.SortFunc(authors, func(a, b Author) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Email, b.Email)
	})

	return ListingDetails{
		Name:            listing.Name,
		LinesAdded:      stats.Added,
		LinesRemoved:    stats.Removed,
		NumberOfFiles:   stats.Files,
		NumberOfCommits: len(commits),
		Authors:         authors,
	}, nil
}
