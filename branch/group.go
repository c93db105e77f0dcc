package branch

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/branchlab/vbranch/refname"
	"github.com/branchlab/vbranch/repository"
	"github.com/branchlab/vbranch/state"
)

// groupBranch is one branch-like entity entering the grouping step: a
// native reference (local or remote-tracking) or a virtual branch. Exactly
// one of ref and stack is set.
type groupBranch struct {
	ref   *repository.RefBranch
	stack *state.Stack
}

// identity returns the canonical name under which same-named local, remote
// and virtual branches are grouped. ok=false means no identity could be
// derived, which makes the entity odd enough to drop from the listing.
func (g groupBranch) identity(remotes []string) (string, bool) {
	if g.ref != nil {
		return refname.Branch(g.ref.Name, remotes)
	}

	// Virtual branch: the source reference wins, then the upstream, then
	// the display name normalized into a valid branch name.
	if g.stack.SourceRefname != "" {
		if name, ok := refname.Branch(plumbing.ReferenceName(g.stack.SourceRefname), remotes); ok {
			return name, true
		}
	}
	if g.stack.Upstream != "" {
		if name, ok := refname.Branch(plumbing.ReferenceName(g.stack.Upstream), remotes); ok {
			return name, true
		}
	}
	name, err := refname.Normalize(g.stack.Name)
	if err != nil {
		return "", false
	}
	return name, true
}

// Identities never surfaced in a listing: the workspace integration branch,
// the base-tracking branch, the operation-log branch and a bare HEAD.
var technicalIdentities = map[string]bool{
	"vbranch/integration": true,
	"vbranch/target":      true,
	"vbranch/oplog":       true,
	"HEAD":                true,
}

func shouldList(identity string) bool {
	return !technicalIdentities[identity]
}
