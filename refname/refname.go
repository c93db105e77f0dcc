// Package refname provides helpers for working with git reference names:
// splitting remote-tracking references into their remote and branch parts
// and normalizing free-form display names into valid branch names.
package refname

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const remotePrefix = "refs/remotes/"

// Branch returns the bare branch name of ref: the short name for a local
// branch reference, or the short name with the remote segment stripped for
// a remote-tracking reference (e.g. refs/remotes/origin/feature -> feature).
//
// remotes is the set of remote names configured in the repository. A
// remote-tracking reference that matches none of them has no derivable
// branch name and reports ok=false, as does any reference that is neither
// a local nor a remote-tracking branch.
func Branch(ref plumbing.ReferenceName, remotes []string) (string, bool) {
	switch {
	case ref.IsBranch():
		return ref.Short(), true
	case ref.IsRemote():
		_, branch, ok := splitRemote(ref, remotes)
		return branch, ok
	default:
		return "", false
	}
}

// Remote returns the remote name of a remote-tracking reference
// (e.g. refs/remotes/origin/feature -> origin). ok is false when ref is not
// a remote-tracking reference or its remote is not in remotes.
func Remote(ref plumbing.ReferenceName, remotes []string) (string, bool) {
	if !ref.IsRemote() {
		return "", false
	}
	remote, _, ok := splitRemote(ref, remotes)
	return remote, ok
}

// splitRemote splits refs/remotes/<remote>/<branch> against the known remote
// set. Remote names may contain slashes, so the longest matching remote wins.
func splitRemote(ref plumbing.ReferenceName, remotes []string) (remote, branch string, ok bool) {
	rest := strings.TrimPrefix(ref.String(), remotePrefix)
	for _, r := range remotes {
		if len(r) <= len(remote) {
			continue
		}
		if strings.HasPrefix(rest, r+"/") && len(rest) > len(r)+1 {
			remote = r
			branch = rest[len(r)+1:]
		}
	}
	return remote, branch, remote != ""
}

// invalid characters per git-check-ref-format, rewritten to '-' when
// normalizing a free-form name.
const invalidRefChars = " ~^:?*[\\"

// Normalize turns a free-form display name into a valid branch name by
// rewriting invalid characters to '-', collapsing runs of '-' and trimming
// separators from both ends. It fails when nothing valid remains.
func Normalize(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteByte('-')
		case strings.ContainsRune(invalidRefChars, r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}

	s := strings.ReplaceAll(b.String(), "@{", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	s = strings.Trim(s, "-/.")

	if s == "" {
		return "", fmt.Errorf("name %q normalizes to an empty branch name", name)
	}
	if err := plumbing.NewBranchReferenceName(s).Validate(); err != nil {
		return "", fmt.Errorf("name %q does not normalize to a valid branch name: %w", name, err)
	}
	return s, nil
}
