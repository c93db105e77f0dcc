package state

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"
)

// Stack is a virtual branch: an application-managed unit of work with its
// own head commit, not necessarily backed by a native reference.
type Stack struct {
	// ID uniquely identifies the stack within the document.
	ID string `toml:"id"`
	// Name is the display name given by the user, not necessarily a valid
	// branch name.
	Name string `toml:"name"`
	// Head is the hex id of the stack's head commit.
	Head string `toml:"head"`
	// Upstream is the full remote-tracking reference name the stack pushes
	// to, if any (e.g. refs/remotes/origin/feature).
	Upstream string `toml:"upstream,omitempty"`
	// SourceRefname is the full reference name the stack was created from,
	// if any.
	SourceRefname string `toml:"source_refname,omitempty"`
	// Order is the position of the stack in the workspace. After
	// normalization the in-workspace stacks form a dense 0..n-1 sequence.
	Order int `toml:"order"`
	// InWorkspace reports whether the stack is applied in the workspace.
	InWorkspace bool `toml:"in_workspace"`
	// WIPChangeID, when set on a stack outside the workspace, marks
	// unresolved uncommitted work that must never be garbage collected.
	WIPChangeID string `toml:"wip_change_id,omitempty"`

	CreatedTimestampMS int64 `toml:"created_timestamp_ms"`
	UpdatedTimestampMS int64 `toml:"updated_timestamp_ms"`
}

// NewStack returns a workspace stack with a fresh id and current timestamps.
// The caller persists it with [Handle.SetStack].
func NewStack(name string, head plumbing.Hash) Stack {
	now := time.Now().UnixMilli()
	return Stack{
		ID:                 uuid.NewString(),
		Name:               name,
		Head:               head.String(),
		InWorkspace:        true,
		CreatedTimestampMS: now,
		UpdatedTimestampMS: now,
	}
}

// HeadHash returns the stack's head commit id as a hash.
func (s Stack) HeadHash() plumbing.Hash {
	return plumbing.NewHash(s.Head)
}

// HasPendingWork reports whether the stack carries uncommitted work that
// must be preserved.
func (s Stack) HasPendingWork() bool {
	return s.WIPChangeID != ""
}
