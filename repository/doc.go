// Package repository adapts go-git for the branch listing engine and the
// virtual-branch store.
//
// All operations are read-only queries against the object database and the
// reference store:
//
//   - [Repository.Branches]: enumerate local and remote-tracking branch
//     references with resolved heads
//   - [Repository.RemoteNames]: names of the configured remotes
//   - [Repository.Commit], [Repository.HasCommit]: commit lookup
//   - [Repository.MergeBase]: nearest common ancestor of two commits
//   - [Repository.DiffStats]: tree-to-tree diff statistics
//   - [Repository.CommitsBetween]: ancestry reachable from a head but not
//     from a base
//
// Queries are side-effect-free and safe to call concurrently; the package
// itself never parallelizes them.
package repository
