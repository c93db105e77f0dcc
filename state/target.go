package state

import "github.com/go-git/go-git/v5/plumbing"

// Target is the integration base that virtual branches are diffed and
// merge-based against. A document has at most one default target; it is
// unset until the first SetDefaultTarget.
type Target struct {
	// Branch is the name of the integration branch on the remote, e.g. "main".
	Branch string `toml:"branch"`
	// Remote is the name of the remote the integration branch lives on.
	Remote string `toml:"remote"`
	// RemoteURL identifies the repository the target belongs to.
	RemoteURL string `toml:"remote_url"`
	// Sha is the hex id of the base commit.
	Sha string `toml:"sha"`
}

// ShaHash returns the base commit id as a hash.
func (t Target) ShaHash() plumbing.Hash {
	return plumbing.NewHash(t.Sha)
}
