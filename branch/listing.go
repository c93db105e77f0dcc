package branch

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/branchlab/vbranch/refname"
	"github.com/branchlab/vbranch/repository"
	"github.com/branchlab/vbranch/state"
)

// List returns the consolidated branch listing for the repository: native
// local references, native remote-tracking references and virtual branches
// merged by identity, filtered by filter and names.
//
// names, when non-nil, is an exact-match allow-list against the resolved
// identity. Entities that cannot be resolved (unreadable head, underivable
// identity) are dropped individually; List fails only when the references,
// the store or the default target cannot be read at all.
func List(repo *repository.Repository, store *state.Handle, filter *Filter, names []string) ([]BranchListing, error) {
	target, err := store.DefaultTarget()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	remotes, err := repo.RemoteNames()
	if err != nil {
		return nil, err
	}
	refs, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	stacks, err := store.ListAll()
	if err != nil {
		return nil, err
	}

	var entities []groupBranch
	for i := range refs {
		// Loose prefilter on the allow-list; the exact match against the
		// resolved identity happens after grouping.
		if names != nil && !matchesAnySuffix(refs[i].Name.Short(), names) {
			continue
		}
		entities = append(entities, groupBranch{ref: &refs[i]})
	}
	for i := range stacks {
		entities = append(entities, groupBranch{stack: &stacks[i]})
	}

	listings := combine(repo, entities, remotes, target)

	listings = slices.DeleteFunc(listings, func(b BranchListing) bool {
		if !filter.matches(b) {
			return true
		}
		return names != nil && !slices.Contains(names, b.Name)
	})

	slices.SortFunc(listings, func(a, b BranchListing) int { return cmp.Compare(a.Name, b.Name) })
	return listings, nil
}

func matchesAnySuffix(shortName string, names []string) bool {
	for _, name := range names {
		if strings.HasSuffix(shortName, name) {
			return true
		}
	}
	return false
}

// combine groups the entities by identity and converts each group into a
// listing entry. A group that fails to resolve is logged and dropped; the
// listing as a whole still succeeds.
func combine(repo *repository.Repository, entities []groupBranch, remotes []string, target state.Target) []BranchListing {
	groups := map[string][]groupBranch{}
	var order []string
	for _, entity := range entities {
		identity, ok := entity.identity(remotes)
		if !ok || !shouldList(identity) {
			continue
		}
		if _, seen := groups[identity]; !seen {
			order = append(order, identity)
		}
		groups[identity] = append(groups[identity], entity)
	}

	listings := make([]BranchListing, 0, len(groups))
	for _, identity := range order {
		listing, ok, err := groupToListing(repo, identity, groups[identity], remotes, target)
		if err != nil {
			slog.Warn("dropping branch group from listing",
				slog.String("identity", identity),
				slog.Any("error", err),
			)
			continue
		}
		if ok {
			listings = append(listings, listing)
		}
	}
	return listings
}

// groupToListing converts one identity group into a listing entry.
// ok=false without an error means the group is deliberately excluded
// (the project's own base branch).
func groupToListing(repo *repository.Repository, identity string, group []groupBranch, remotes []string, target state.Target) (BranchListing, bool, error) {
	var stacks []*state.Stack
	var locals, tracking []*repository.RefBranch
	for _, entity := range group {
		switch {
		case entity.stack != nil:
			stacks = append(stacks, entity.stack)
		case entity.ref.Remote:
			tracking = append(tracking, entity.ref)
		default:
			locals = append(locals, entity.ref)
		}
	}

	// Several virtual branches on one identity is abnormal; the most
	// recently updated one represents the group.
	slices.SortStableFunc(stacks, func(a, b *state.Stack) int {
		return cmp.Compare(a.UpdatedTimestampMS, b.UpdatedTimestampMS)
	})
	var stack *state.Stack
	if len(stacks) > 0 {
		stack = stacks[len(stacks)-1]
	}

	// A group with no virtual branch whose local reference is the default
	// target's branch is the project's base branch, not user content.
	if stack == nil {
		for _, local := range locals {
			if name, ok := refname.Branch(local.Name, remotes); ok && name == target.Branch {
				return BranchListing{}, false, nil
			}
		}
	}

	head := plumbing.ZeroHash
	switch {
	case stack != nil:
		head = stack.HeadHash()
	case len(locals) > 0:
		head = locals[0].Head
	case len(tracking) > 0:
		head = tracking[0].Head
	}
	if head.IsZero() {
		return BranchListing{}, false, fmt.Errorf("no resolvable head for %q", identity)
	}

	headCommit, err := repo.Commit(head)
	if err != nil {
		return BranchListing{}, false, err
	}

	var remoteNames []string
	for _, ref := range tracking {
		if remote, ok := refname.Remote(ref.Name, remotes); ok && !slices.Contains(remoteNames, remote) {
			remoteNames = append(remoteNames, remote)
		}
	}

	updatedAt := headCommit.Committer.When.UnixMilli()
	var vbRef *VirtualBranchReference
	if stack != nil {
		updatedAt = max(updatedAt, stack.UpdatedTimestampMS)
		vbRef = &VirtualBranchReference{
			GivenName:   stack.Name,
			ID:          stack.ID,
			InWorkspace: stack.InWorkspace,
		}
	}

	return BranchListing{
		Name:          identity,
		Remotes:       remoteNames,
		VirtualBranch: vbRef,
		UpdatedAt:     updatedAt,
		LastCommitter: signatureAuthor(headCommit.Author),
		HasLocal:      len(locals) > 0,
		Head:          head,
	}, true, nil
}
