// Package status implements per-node block usage accounting.
//
// The package keeps two views of one node's blocks permanently in sync:
//
//   - Registry: the exact map from block identity to its current footprint
//   - Accumulator: derived aggregate counters, updated from deltas
//
// Engine composes the two behind a single mutation entry point per
// operation, so no caller can ever observe one view without the other.
//
// Nothing in this package locks or blocks. One engine instance must be
// confined to one goroutine or guarded by a caller-held lock; see Engine.
package status

import "github.com/mosvani/blocktally/pkg/block"

// Registry is the exact block ledger of one node.
//
// Blocks are partitioned internally by identity variant: dataset blocks
// live in per-dataset sub-maps (so dataset-scoped queries never scan
// unrelated blocks) and opaque blocks live in a flat map. A dataset
// sub-map exists only while it holds at least one block; empty sub-maps
// are pruned on removal, never left behind.
type Registry struct {
	datasets map[block.DatasetID]map[block.DatasetBlock]block.Record
	opaque   map[block.OpaqueBlock]block.Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		datasets: make(map[block.DatasetID]map[block.DatasetBlock]block.Record),
		opaque:   make(map[block.OpaqueBlock]block.Record),
	}
}

// Put inserts or overwrites the record for id. O(1).
func (r *Registry) Put(id block.ID, rec block.Record) {
	switch b := id.(type) {
	case block.DatasetBlock:
		group := r.datasets[b.Dataset]
		if group == nil {
			group = make(map[block.DatasetBlock]block.Record)
			r.datasets[b.Dataset] = group
		}
		group[b] = rec
	case block.OpaqueBlock:
		r.opaque[b] = rec
	}
}

// Remove deletes the entry for id and returns the removed record.
// Removing the last block of a dataset drops the dataset's sub-map too.
func (r *Registry) Remove(id block.ID) (block.Record, bool) {
	switch b := id.(type) {
	case block.DatasetBlock:
		group, ok := r.datasets[b.Dataset]
		if !ok {
			return block.ZeroRecord, false
		}
		rec, ok := group[b]
		if !ok {
			return block.ZeroRecord, false
		}
		delete(group, b)
		if len(group) == 0 {
			delete(r.datasets, b.Dataset)
		}
		return rec, true
	case block.OpaqueBlock:
		rec, ok := r.opaque[b]
		if !ok {
			return block.ZeroRecord, false
		}
		delete(r.opaque, b)
		return rec, true
	}
	return block.ZeroRecord, false
}

// Get returns the current record for id. O(1).
func (r *Registry) Get(id block.ID) (block.Record, bool) {
	switch b := id.(type) {
	case block.DatasetBlock:
		rec, ok := r.datasets[b.Dataset][b]
		return rec, ok
	case block.OpaqueBlock:
		rec, ok := r.opaque[b]
		return rec, ok
	}
	return block.ZeroRecord, false
}

// Contains reports whether id is registered. O(1).
func (r *Registry) Contains(id block.ID) bool {
	_, ok := r.Get(id)
	return ok
}

// Count returns the total number of registered blocks.
// Computed from sub-map sizes: O(#datasets), never O(#blocks).
func (r *Registry) Count() int {
	n := len(r.opaque)
	for _, group := range r.datasets {
		n += len(group)
	}
	return n
}

// CountForDataset returns the number of blocks registered under d. O(1).
func (r *Registry) CountForDataset(d block.DatasetID) int {
	return len(r.datasets[d])
}

// Datasets returns the ids of all datasets with at least one block.
// Order is unspecified. O(#datasets).
func (r *Registry) Datasets() []block.DatasetID {
	out := make([]block.DatasetID, 0, len(r.datasets))
	for d := range r.datasets {
		out = append(out, d)
	}
	return out
}

// Snapshot materializes a fresh copy of every entry.
//
// This is the expensive path: O(total blocks). It exists for aggregation
// consumers and diagnostics; the accounting operations never call it.
func (r *Registry) Snapshot() map[block.ID]block.Record {
	out := make(map[block.ID]block.Record, r.Count())
	for _, group := range r.datasets {
		for b, rec := range group {
			out[b] = rec
		}
	}
	for b, rec := range r.opaque {
		out[b] = rec
	}
	return out
}

// SnapshotDataset materializes a fresh copy of dataset d's entries.
// O(blocks in d). Returns an empty map for an unknown dataset.
func (r *Registry) SnapshotDataset(d block.DatasetID) map[block.DatasetBlock]block.Record {
	group := r.datasets[d]
	out := make(map[block.DatasetBlock]block.Record, len(group))
	for b, rec := range group {
		out[b] = rec
	}
	return out
}
