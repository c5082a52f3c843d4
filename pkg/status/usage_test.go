package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosvani/blocktally/pkg/block"
)

var offHeapLevel = block.StorageLevel{UseMemory: true, UseOffHeap: true, Replication: 1}

func TestAccumulatorDatasetDeltas(t *testing.T) {
	a := NewAccumulator()
	b0 := datasetBlock("events", 0)
	b1 := datasetBlock("events", 1)

	a.ApplyDelta(b0, block.ZeroRecord, record(200, 20))
	a.ApplyDelta(b1, block.ZeroRecord, record(300, 0))

	assert.Equal(t, int64(500), a.DatasetMemory("events"))
	assert.Equal(t, int64(20), a.DatasetDisk("events"))

	// Shrinking update.
	a.ApplyDelta(b0, record(200, 20), record(50, 20))
	assert.Equal(t, int64(350), a.DatasetMemory("events"))

	usage, ok := a.DatasetUsage("events")
	require.True(t, ok)
	assert.Equal(t, level, usage.Level)
}

func TestAccumulatorPrunesZeroDatasets(t *testing.T) {
	a := NewAccumulator()
	b0 := datasetBlock("events", 0)

	a.ApplyDelta(b0, block.ZeroRecord, record(200, 0))
	assert.Equal(t, 1, a.DatasetCount())

	a.ApplyDelta(b0, record(200, 0), block.ZeroRecord)
	assert.Equal(t, 0, a.DatasetCount(), "zero-usage dataset entries must be deleted, not zeroed")
	_, ok := a.DatasetUsage("events")
	assert.False(t, ok)
	assert.Equal(t, int64(0), a.DatasetMemory("events"))
}

func TestAccumulatorOpaqueHeapBranch(t *testing.T) {
	a := NewAccumulator()
	on := block.OpaqueBlock{Name: "on"}
	off := block.OpaqueBlock{Name: "off"}

	a.ApplyDelta(on, block.ZeroRecord, record(100, 5))
	a.ApplyDelta(off, block.ZeroRecord, block.Record{Level: offHeapLevel, MemSize: 40, DiskSize: 3})

	node := a.Node()
	assert.Equal(t, int64(100), node.OnHeapUsage)
	assert.Equal(t, int64(40), node.OffHeapUsage)
	assert.Equal(t, int64(8), node.DiskUsage, "disk is tracked regardless of heap branch")
}

func TestAccumulatorRemovalUsesOldLevel(t *testing.T) {
	// Removing an off-heap block hands the accumulator a zero-valued new
	// record whose level defaults to on-heap. The decrement must branch on
	// the removed block's own level or the off-heap counter leaks.
	a := NewAccumulator()
	off := block.OpaqueBlock{Name: "off"}
	rec := block.Record{Level: offHeapLevel, MemSize: 40}

	a.ApplyDelta(off, block.ZeroRecord, rec)
	require.Equal(t, int64(40), a.Node().OffHeapUsage)

	a.ApplyDelta(off, rec, block.ZeroRecord)

	node := a.Node()
	assert.Equal(t, int64(0), node.OffHeapUsage, "off-heap usage must be decremented")
	assert.Equal(t, int64(0), node.OnHeapUsage, "on-heap usage must stay untouched")
}

func TestAccumulatorClampsAtZero(t *testing.T) {
	a := NewAccumulator()
	ob := block.OpaqueBlock{Name: "x"}
	db := datasetBlock("events", 0)

	// Deltas arriving out of order: a removal for a block whose add was
	// never observed must not drive counters negative.
	a.ApplyDelta(ob, record(100, 50), block.ZeroRecord)
	node := a.Node()
	assert.Equal(t, int64(0), node.OnHeapUsage)
	assert.Equal(t, int64(0), node.DiskUsage)

	a.ApplyDelta(db, record(100, 0), record(10, 5))
	assert.Equal(t, int64(0), a.DatasetMemory("events"))
	assert.Equal(t, int64(5), a.DatasetDisk("events"))
}

func TestAccumulatorNoOpDelta(t *testing.T) {
	a := NewAccumulator()
	db := datasetBlock("events", 0)
	rec := record(200, 10)

	a.ApplyDelta(db, block.ZeroRecord, rec)
	before, ok := a.DatasetUsage("events")
	require.True(t, ok)

	a.ApplyDelta(db, rec, rec)
	after, ok := a.DatasetUsage("events")
	require.True(t, ok)
	assert.Equal(t, before, after)
}
