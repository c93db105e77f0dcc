package branch

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Author identifies a commit author. Either field may be empty, depending
// on what the commit carries.
type Author struct {
	Name  string
	Email string
}

func signatureAuthor(sig object.Signature) Author {
	return Author{Name: sig.Name, Email: sig.Email}
}

// VirtualBranchReference points at the virtual branch associated with a
// listing entry.
type VirtualBranchReference struct {
	// GivenName is the display name set by the user, not normalized.
	GivenName string
	// ID is the virtual branch id.
	ID string
	// InWorkspace reports whether the virtual branch is applied in the
	// workspace.
	InWorkspace bool
}

// BranchListing is one consolidated entry of the branch listing. It is a
// summary for display; per-branch statistics come from [Details].
type BranchListing struct {
	// Name is the identity of the branch (e.g. "main", "feature/branch"),
	// excluding any remote name.
	Name string
	// Remotes lists the distinct remotes this branch was found on.
	Remotes []string
	// VirtualBranch is set when a virtual branch shares this identity.
	VirtualBranch *VirtualBranchReference
	// UpdatedAt is the last-modified timestamp in milliseconds: the head
	// commit time, or the virtual branch's update time if later.
	UpdatedAt int64
	// LastCommitter is the author of the head commit.
	LastCommitter Author
	// HasLocal reports whether a local reference exists under this identity.
	HasLocal bool

	// Head is the commit statistics are computed against, resolved by
	// priority: virtual branch head, first local reference, first remote
	// reference. Internal use; not part of the external result shape.
	Head plumbing.Hash
}

// ListingDetails carries the per-branch statistics computed by [Details],
// all relative to the merge base with the default target.
type ListingDetails struct {
	// Name is the identity of the branch, as in [BranchListing].
	Name string
	// LinesAdded and LinesRemoved count changed lines between the merge
	// base tree and the head tree.
	LinesAdded   int
	LinesRemoved int
	// NumberOfFiles is the number of files changed.
	NumberOfFiles int
	// NumberOfCommits counts commits reachable from the head but not from
	// the merge base.
	NumberOfCommits int
	// Authors are the distinct commit authors of those commits.
	Authors []Author
}
