package status

import "github.com/mosvani/blocktally/pkg/block"

// Config configures one accounting engine.
//
// The memory ceilings are reporting-only: the engine never rejects an add
// for exceeding them, it only answers remaining-capacity queries. Each
// ceiling is independently optional; nil means "not configured" and the
// corresponding remaining-capacity query reports absence rather than a
// fabricated number.
type Config struct {
	// Node is the identity of the storage node this engine accounts for.
	Node block.NodeID

	// MaxOnHeapMem is the node's on-heap memory ceiling in bytes, or nil.
	MaxOnHeapMem *int64

	// MaxOffHeapMem is the node's off-heap memory ceiling in bytes, or nil.
	MaxOffHeapMem *int64

	// Seed is an optional initial block snapshot. It is replayed through
	// AddOrUpdate, so seeding and runtime mutation share one code path.
	Seed map[block.ID]block.Record
}

// Engine is the per-node block accounting engine.
//
// It owns one Registry and one Accumulator and keeps them consistent by
// construction: every mutation computes its delta against the registry's
// pre-mutation value, applies it to the accumulator, and only then writes
// the registry. There is no exported way to touch one view without the
// other.
//
// An Engine performs no locking and no blocking operation. Callers must
// either confine an instance to a single goroutine or serialize all access
// (including reads during snapshot calls) with their own lock. Distinct
// engine instances share nothing and may be used in parallel freely.
type Engine struct {
	node     block.NodeID
	registry *Registry
	usage    *Accumulator

	maxOnHeapMem  *int64
	maxOffHeapMem *int64
}

// NewEngine creates an engine for one node and applies cfg.Seed, if any.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		node:          cfg.Node,
		registry:      NewRegistry(),
		usage:         NewAccumulator(),
		maxOnHeapMem:  cfg.MaxOnHeapMem,
		maxOffHeapMem: cfg.MaxOffHeapMem,
	}
	for id, rec := range cfg.Seed {
		e.AddOrUpdate(id, rec)
	}
	return e
}

// Node returns the identity of the node this engine accounts for.
func (e *Engine) Node() block.NodeID {
	return e.node
}

// AddOrUpdate records that the node now holds id with footprint rec,
// replacing any previous footprint.
//
// The delta is computed against the pre-mutation registry value before the
// registry is written. That order is what keeps the accumulator exact: the
// registry read is the only source of the old record, so writing first
// would destroy it.
func (e *Engine) AddOrUpdate(id block.ID, rec block.Record) {
	old, _ := e.registry.Get(id)
	e.usage.ApplyDelta(id, old, rec)
	e.registry.Put(id, rec)
}

// Remove records that the node no longer holds id and returns the removed
// record. A block the node never held is reported as absent and leaves
// every aggregate untouched.
func (e *Engine) Remove(id block.ID) (block.Record, bool) {
	old, ok := e.registry.Get(id)
	if !ok {
		return block.ZeroRecord, false
	}
	e.usage.ApplyDelta(id, old, block.ZeroRecord)
	e.registry.Remove(id)
	return old, true
}

// GetBlock returns the current record for id.
func (e *Engine) GetBlock(id block.ID) (block.Record, bool) {
	return e.registry.Get(id)
}

// ContainsBlock reports whether the node currently holds id.
func (e *Engine) ContainsBlock(id block.ID) bool {
	return e.registry.Contains(id)
}

// BlockCount returns the total number of blocks held. O(#datasets).
func (e *Engine) BlockCount() int {
	return e.registry.Count()
}

// BlockCountForDataset returns the number of d's blocks held. O(1).
func (e *Engine) BlockCountForDataset(d block.DatasetID) int {
	return e.registry.CountForDataset(d)
}

// Blocks materializes a copy of every block entry. O(total blocks); meant
// for aggregation and diagnostics, not the accounting hot path.
func (e *Engine) Blocks() map[block.ID]block.Record {
	return e.registry.Snapshot()
}

// BlocksForDataset materializes a copy of d's block entries.
func (e *Engine) BlocksForDataset(d block.DatasetID) map[block.DatasetBlock]block.Record {
	return e.registry.SnapshotDataset(d)
}

// Datasets returns the datasets currently holding blocks on this node.
func (e *Engine) Datasets() []block.DatasetID {
	return e.registry.Datasets()
}

// DatasetUsage returns d's aggregate usage; ok is false when d holds no
// block with nonzero footprint on this node.
func (e *Engine) DatasetUsage(d block.DatasetID) (block.DatasetUsage, bool) {
	return e.usage.DatasetUsage(d)
}

// MemUsedByDataset returns d's aggregate memory usage, zero if untracked.
func (e *Engine) MemUsedByDataset(d block.DatasetID) int64 {
	return e.usage.DatasetMemory(d)
}

// DiskUsedByDataset returns d's aggregate disk usage, zero if untracked.
func (e *Engine) DiskUsedByDataset(d block.DatasetID) int64 {
	return e.usage.DatasetDisk(d)
}

// LevelForDataset returns the storage level recorded for d.
func (e *Engine) LevelForDataset(d block.DatasetID) (block.StorageLevel, bool) {
	return e.usage.DatasetLevel(d)
}

// NodeUsage returns the aggregate usage of the node's opaque blocks.
func (e *Engine) NodeUsage() block.NodeUsage {
	return e.usage.Node()
}

// OnHeapMemUsed returns the on-heap memory used by opaque blocks.
func (e *Engine) OnHeapMemUsed() int64 {
	return e.usage.Node().OnHeapUsage
}

// OffHeapMemUsed returns the off-heap memory used by opaque blocks.
func (e *Engine) OffHeapMemUsed() int64 {
	return e.usage.Node().OffHeapUsage
}

// MemUsed returns the total memory used by opaque blocks across both
// pools.
func (e *Engine) MemUsed() int64 {
	n := e.usage.Node()
	return n.OnHeapUsage + n.OffHeapUsage
}

// DiskUsed returns the disk space used by opaque blocks.
func (e *Engine) DiskUsed() int64 {
	return e.usage.Node().DiskUsage
}

// MaxOnHeapMem returns the configured on-heap ceiling.
func (e *Engine) MaxOnHeapMem() (int64, bool) {
	if e.maxOnHeapMem == nil {
		return 0, false
	}
	return *e.maxOnHeapMem, true
}

// MaxOffHeapMem returns the configured off-heap ceiling.
func (e *Engine) MaxOffHeapMem() (int64, bool) {
	if e.maxOffHeapMem == nil {
		return 0, false
	}
	return *e.maxOffHeapMem, true
}

// MaxMem returns the node's total memory ceiling. It is defined only when
// both pool ceilings are configured; a partial total would be a fabricated
// number.
func (e *Engine) MaxMem() (int64, bool) {
	if e.maxOnHeapMem == nil || e.maxOffHeapMem == nil {
		return 0, false
	}
	return *e.maxOnHeapMem + *e.maxOffHeapMem, true
}

// MemRemaining returns total ceiling minus total memory used, when the
// total ceiling is defined.
func (e *Engine) MemRemaining() (int64, bool) {
	max, ok := e.MaxMem()
	if !ok {
		return 0, false
	}
	return max - e.MemUsed(), true
}

// OnHeapMemRemaining returns the unused part of the on-heap ceiling.
func (e *Engine) OnHeapMemRemaining() (int64, bool) {
	max, ok := e.MaxOnHeapMem()
	if !ok {
		return 0, false
	}
	return max - e.OnHeapMemUsed(), true
}

// OffHeapMemRemaining returns the unused part of the off-heap ceiling.
func (e *Engine) OffHeapMemRemaining() (int64, bool) {
	max, ok := e.MaxOffHeapMem()
	if !ok {
		return 0, false
	}
	return max - e.OffHeapMemUsed(), true
}
