package state

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/branchlab/vbranch/internal/storage"
)

// FileName is the name of the document inside the state directory.
const FileName = "virtual_branches.toml"

// Sentinel errors for absent state, matchable with errors.Is.
var (
	ErrNoDefaultTarget = errors.New("no default target set")
	ErrStackNotFound   = errors.New("stack not found")
)

// CommitResolver is the slice of repository access garbage collection
// needs. *repository.Repository implements it.
type CommitResolver interface {
	// HasCommit reports whether the commit exists in the repository.
	HasCommit(id plumbing.Hash) bool
	// MergeBase returns the nearest common ancestor of a and b.
	MergeBase(a, b plumbing.Hash) (plumbing.Hash, error)
}

// Handle is a handle to the virtual-branch state of one repository.
//
// Handle does not serialize access; see the package documentation for the
// caller's obligations.
type Handle struct {
	path string
}

// New returns a handle to the virtual-branch state stored under dir.
// The document is created on first write; reads of an absent document
// behave as if it were empty.
func New(dir string) *Handle {
	return &Handle{path: filepath.Join(dir, FileName)}
}

// Path returns the path of the underlying document.
func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) read() (*VirtualBranches, error) {
	doc := newVirtualBranches()
	if err := storage.LoadTOML(h.path, doc); err != nil {
		return nil, err
	}
	if doc.BranchTargets == nil {
		doc.BranchTargets = map[string]Target{}
	}
	if doc.Branches == nil {
		doc.Branches = map[string]Stack{}
	}
	return doc, nil
}

func (h *Handle) write(doc *VirtualBranches) error {
	return storage.SaveTOML(h.path, doc)
}

// SetDefaultTarget persists the default integration target.
func (h *Handle) SetDefaultTarget(target Target) error {
	doc, err := h.read()
	if err != nil {
		return err
	}
	doc.DefaultTarget = &target
	return h.write(doc)
}

// DefaultTarget returns the default integration target.
// Returns ErrNoDefaultTarget if none has been set.
func (h *Handle) DefaultTarget() (Target, error) {
	doc, err := h.read()
	if err != nil {
		return Target{}, err
	}
	if doc.DefaultTarget == nil {
		return Target{}, ErrNoDefaultTarget
	}
	return *doc.DefaultTarget, nil
}

// SetStack inserts or replaces the stack with s.ID.
func (h *Handle) SetStack(s Stack) error {
	doc, err := h.read()
	if err != nil {
		return err
	}
	doc.Branches[s.ID] = s
	return h.write(doc)
}

// Get returns the stack with the given id.
// Returns ErrStackNotFound if it does not exist.
func (h *Handle) Get(id string) (Stack, error) {
	s, ok, err := h.TryGet(id)
	if err != nil {
		return Stack{}, err
	}
	if !ok {
		return Stack{}, fmt.Errorf("stack %s: %w", id, ErrStackNotFound)
	}
	return s, nil
}

// TryGet returns the stack with the given id, reporting ok=false when it
// does not exist.
func (h *Handle) TryGet(id string) (Stack, bool, error) {
	doc, err := h.read()
	if err != nil {
		return Stack{}, false, err
	}
	s, ok := doc.Branches[id]
	return s, ok, nil
}

// GetInWorkspace returns the stack with the given id if it is applied in
// the workspace. Returns ErrStackNotFound otherwise.
func (h *Handle) GetInWorkspace(id string) (Stack, error) {
	s, err := h.Get(id)
	if err != nil {
		return Stack{}, err
	}
	if !s.InWorkspace {
		return Stack{}, fmt.Errorf("stack %s not in workspace: %w", id, ErrStackNotFound)
	}
	return s, nil
}

// Delete removes the stack with the given id. Deleting an absent id is
// not an error.
func (h *Handle) Delete(id string) error {
	doc, err := h.read()
	if err != nil {
		return err
	}
	delete(doc.Branches, id)
	return h.write(doc)
}

// ListAll returns every stack in the document, sorted by id.
func (h *Handle) ListAll() ([]Stack, error) {
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	stacks := make([]Stack, 0, len(doc.Branches))
	for _, s := range doc.Branches {
		stacks = append(stacks, s)
	}
	slices.SortFunc(stacks, func(a, b Stack) int { return cmp.Compare(a.ID, b.ID) })
	return stacks, nil
}

// ListInWorkspace returns the stacks applied in the workspace, sorted by id.
func (h *Handle) ListInWorkspace() ([]Stack, error) {
	stacks, err := h.ListAll()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(stacks, func(s Stack) bool { return !s.InWorkspace }), nil
}

// MarkNotInWorkspace flips the workspace flag of the given stack off.
func (h *Handle) MarkNotInWorkspace(id string) error {
	s, err := h.Get(id)
	if err != nil {
		return err
	}
	s.InWorkspace = false
	return h.SetStack(s)
}

// FindBySourceRefname returns the first stack outside the workspace whose
// source reference textually equals ref. With duplicate source references
// (abnormal) which one is returned is implementation-defined.
func (h *Handle) FindBySourceRefname(ref plumbing.ReferenceName) (Stack, bool, error) {
	stacks, err := h.ListAll()
	if err != nil {
		return Stack{}, false, err
	}
	for _, s := range stacks {
		if s.InWorkspace || s.SourceRefname == "" {
			continue
		}
		if s.SourceRefname == ref.String() {
			return s, true, nil
		}
	}
	return Stack{}, false, nil
}

// UpdateOrdering normalizes the order of in-workspace stacks to a dense
// 0..n-1 sequence, keeping their relative positions (stable sort by the
// prior order). Each renumbered stack is persisted individually; if any
// write fails the remaining stacks are still attempted and one aggregate
// error is returned, with already-written entries staying updated.
func (h *Handle) UpdateOrdering() error {
	stacks, err := h.ListInWorkspace()
	if err != nil {
		return err
	}
	slices.SortStableFunc(stacks, func(a, b Stack) int { return cmp.Compare(a.Order, b.Order) })

	var errs []error
	for i, s := range stacks {
		if s.Order == i {
			continue
		}
		s.Order = i
		if err := h.SetStack(s); err != nil {
			errs = append(errs, fmt.Errorf("reorder stack %s: %w", s.ID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("update stack ordering: %w", errors.Join(errs...))
	}
	return nil
}

// NextOrderIndex returns the order index for a stack appended to the
// workspace: one past the highest current index, 0 when the workspace is
// empty. Existing ordering is normalized first.
func (h *Handle) NextOrderIndex() (int, error) {
	if err := h.UpdateOrdering(); err != nil {
		return 0, err
	}
	stacks, err := h.ListInWorkspace()
	if err != nil {
		return 0, err
	}
	next := 0
	for _, s := range stacks {
		if s.Order+1 > next {
			next = s.Order + 1
		}
	}
	return next, nil
}

// GarbageCollect removes abandoned stacks: stacks outside the workspace
// whose head commit no longer exists in the repository, or whose head is
// already contained in the default target (head equals the merge base with
// the target's base commit). Stacks carrying pending uncommitted work are
// never collected.
func (h *Handle) GarbageCollect(repo CommitResolver) error {
	target, err := h.DefaultTarget()
	if err != nil {
		return fmt.Errorf("garbage collect: %w", err)
	}
	stacks, err := h.ListAll()
	if err != nil {
		return err
	}

	var remove []string
	for _, s := range stacks {
		if s.InWorkspace || s.HasPendingWork() {
			continue
		}
		if !repo.HasCommit(s.HeadHash()) {
			// Broken reference, nothing left to preserve.
			remove = append(remove, s.ID)
			continue
		}
		base, err := repo.MergeBase(s.HeadHash(), target.ShaHash())
		if err != nil {
			return fmt.Errorf("merge base of stack %s and target: %w", s.ID, err)
		}
		if base == s.HeadHash() {
			// No commits beyond the integration target.
			remove = append(remove, s.ID)
		}
	}
	if len(remove) == 0 {
		return nil
	}

	// All removals go into a single write; some platforms mishandle rapid
	// successive writes to the same file.
	doc, err := h.read()
	if err != nil {
		return err
	}
	for _, id := range remove {
		delete(doc.Branches, id)
	}
	return h.write(doc)
}
