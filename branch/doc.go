// Package branch consolidates the three representations of a branch --
// native local references, native remote-tracking references and virtual
// branches -- into one deduplicated listing.
//
// Branches are grouped by identity, the canonical short name shared by all
// representations (refs/heads/feature, refs/remotes/origin/feature and a
// virtual branch named "feature" form one group). Each group becomes a
// single [BranchListing] with one head of interest, picked by priority:
// virtual branch head, then the first local reference, then the first
// remote reference.
//
// [List] produces the listing, optionally filtered; [Details] computes
// per-branch diff and commit statistics against the default target.
package branch
