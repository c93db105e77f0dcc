// Package state owns the durable store for virtual-branch state.
//
// All state lives in a single virtual_branches.toml document holding the
// default integration target and one entry per virtual branch ("stack").
// Every operation is a whole-document cycle: load, mutate in memory, write
// back as one atomic replace. There is no partial-document update primitive
// and no internal locking.
//
// # Concurrency
//
// The store requires external serialization of access: a single in-process
// writer, or a caller-held guard such as [github.com/branchlab/vbranch/lockfile.Lock].
// Concurrent unsynchronized writers lose updates (last writer wins), though
// each individual write is atomic, so the document itself is never left
// partially written.
package state
