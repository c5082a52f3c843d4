package status

import "github.com/mosvani/blocktally/pkg/block"

// Accumulator holds the derived aggregate counters of one node.
//
// Per-dataset memory/disk totals are kept for dataset blocks; on-heap,
// off-heap, and disk totals are kept for opaque blocks. The counters are
// updated incrementally from deltas by ApplyDelta and are never recomputed
// by walking the registry.
//
// Two defensive rules hold at every update:
//
//   - every counter is clamped at zero, so an out-of-order or inconsistent
//     delta sequence can underreport usage but never drive it negative
//   - a dataset entry is deleted the moment its memory and disk usage both
//     reach zero, so stale zero entries never accumulate
type Accumulator struct {
	datasets map[block.DatasetID]block.DatasetUsage
	node     block.NodeUsage
}

// NewAccumulator returns an accumulator with all counters at zero.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		datasets: make(map[block.DatasetID]block.DatasetUsage),
	}
}

// ApplyDelta folds one block transition into the aggregate counters.
//
// old is the block's registry record before the mutation (ZeroRecord if it
// was absent) and next is the record after it (ZeroRecord on removal). The
// caller must pass the true pre-mutation record; Engine guarantees this by
// reading the registry before writing it.
//
// On removal the governing storage level is taken from old, not from the
// zero-valued next record. A placeholder level defaults to on-heap, so
// branching on it would silently decrement the wrong memory pool when an
// off-heap block is dropped.
func (a *Accumulator) ApplyDelta(id block.ID, old, next block.Record) {
	deltaMem := next.MemSize - old.MemSize
	deltaDisk := next.DiskSize - old.DiskSize
	level := governingLevel(old, next)

	switch b := id.(type) {
	case block.DatasetBlock:
		usage := a.datasets[b.Dataset]
		usage.MemoryUsage = clampZero(usage.MemoryUsage + deltaMem)
		usage.DiskUsage = clampZero(usage.DiskUsage + deltaDisk)
		if usage.MemoryUsage+usage.DiskUsage == 0 {
			delete(a.datasets, b.Dataset)
			return
		}
		usage.Level = level
		a.datasets[b.Dataset] = usage

	case block.OpaqueBlock:
		if level.UseOffHeap {
			a.node.OffHeapUsage = clampZero(a.node.OffHeapUsage + deltaMem)
		} else {
			a.node.OnHeapUsage = clampZero(a.node.OnHeapUsage + deltaMem)
		}
		a.node.DiskUsage = clampZero(a.node.DiskUsage + deltaDisk)
	}
}

// governingLevel picks the storage level that decides the heap branch for
// this transition: the new record's level, unless the transition is a
// removal, in which case the removed block's own level governs.
func governingLevel(old, next block.Record) block.StorageLevel {
	if next.IsZero() {
		return old.Level
	}
	return next.Level
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// DatasetUsage returns the aggregate usage of dataset d.
// ok is false when d has no blocks with nonzero footprint.
func (a *Accumulator) DatasetUsage(d block.DatasetID) (block.DatasetUsage, bool) {
	usage, ok := a.datasets[d]
	return usage, ok
}

// DatasetMemory returns d's aggregate memory usage, zero if untracked.
func (a *Accumulator) DatasetMemory(d block.DatasetID) int64 {
	return a.datasets[d].MemoryUsage
}

// DatasetDisk returns d's aggregate disk usage, zero if untracked.
func (a *Accumulator) DatasetDisk(d block.DatasetID) int64 {
	return a.datasets[d].DiskUsage
}

// DatasetLevel returns the storage level recorded for d.
func (a *Accumulator) DatasetLevel(d block.DatasetID) (block.StorageLevel, bool) {
	usage, ok := a.datasets[d]
	return usage.Level, ok
}

// Datasets returns the ids of all datasets with a nonzero aggregate.
// Order is unspecified.
func (a *Accumulator) Datasets() []block.DatasetID {
	out := make([]block.DatasetID, 0, len(a.datasets))
	for d := range a.datasets {
		out = append(out, d)
	}
	return out
}

// DatasetCount returns the number of datasets with a nonzero aggregate.
func (a *Accumulator) DatasetCount() int {
	return len(a.datasets)
}

// Node returns the node-wide opaque block usage.
func (a *Accumulator) Node() block.NodeUsage {
	return a.node
}
