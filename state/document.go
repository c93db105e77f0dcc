package state

// VirtualBranches is the persisted aggregate, the whole content of
// virtual_branches.toml.
type VirtualBranches struct {
	// DefaultTarget is the integration base set when the repository was
	// adopted. Unset until the first SetDefaultTarget.
	DefaultTarget *Target `toml:"default_target,omitempty"`
	// BranchTargets is a legacy per-branch target map. It is preserved on
	// disk for schema compatibility but not read or populated by any
	// operation.
	BranchTargets map[string]Target `toml:"branch_targets"`
	// Branches maps stack id to stack.
	Branches map[string]Stack `toml:"branches"`
}

func newVirtualBranches() *VirtualBranches {
	return &VirtualBranches{
		BranchTargets: map[string]Target{},
		Branches:      map[string]Stack{},
	}
}
