package branch

// Filter restricts a branch listing. Nil fields impose no constraint;
// set fields combine with logical AND.
type Filter struct {
	// Local keeps entries whose presence of a local reference or virtual
	// branch matches the value.
	Local *bool
	// Applied keeps entries whose workspace membership matches the value.
	// Entries without a virtual branch count as not applied.
	Applied *bool
}

func (f *Filter) matches(b BranchListing) bool {
	if f == nil {
		return true
	}
	if f.Applied != nil {
		applied := b.VirtualBranch != nil && b.VirtualBranch.InWorkspace
		if *f.Applied != applied {
			return false
		}
	}
	if f.Local != nil {
		local := b.HasLocal || b.VirtualBranch != nil
		if *f.Local != local {
			return false
		}
	}
	return true
}
