package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosvani/blocktally/pkg/block"
)

var level = block.StorageLevel{UseMemory: true, Replication: 1}

func datasetBlock(d string, p int) block.DatasetBlock {
	return block.DatasetBlock{Dataset: block.DatasetID(d), Partition: p}
}

func record(mem, disk int64) block.Record {
	return block.Record{Level: level, MemSize: mem, DiskSize: disk}
}

func TestRegistryPutGet(t *testing.T) {
	r := NewRegistry()

	db := datasetBlock("events", 0)
	ob := block.OpaqueBlock{Name: "scratch-0"}

	_, ok := r.Get(db)
	assert.False(t, ok)
	assert.False(t, r.Contains(db))

	r.Put(db, record(100, 0))
	r.Put(ob, record(50, 10))

	got, ok := r.Get(db)
	require.True(t, ok)
	assert.Equal(t, record(100, 0), got)

	got, ok = r.Get(ob)
	require.True(t, ok)
	assert.Equal(t, record(50, 10), got)

	// Put overwrites.
	r.Put(db, record(200, 0))
	got, _ = r.Get(db)
	assert.Equal(t, int64(200), got.MemSize)
	assert.Equal(t, 2, r.Count())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	db := datasetBlock("events", 0)

	_, ok := r.Remove(db)
	assert.False(t, ok, "removing an unknown block reports absence")

	r.Put(db, record(100, 0))
	got, ok := r.Remove(db)
	require.True(t, ok)
	assert.Equal(t, record(100, 0), got)
	assert.False(t, r.Contains(db))
}

func TestRegistryPrunesEmptyDatasetGroups(t *testing.T) {
	r := NewRegistry()
	r.Put(datasetBlock("events", 0), record(100, 0))
	r.Put(datasetBlock("events", 1), record(100, 0))

	assert.Equal(t, 2, r.CountForDataset("events"))
	assert.Len(t, r.Datasets(), 1)

	r.Remove(datasetBlock("events", 0))
	assert.Equal(t, 1, r.CountForDataset("events"))
	assert.Len(t, r.Datasets(), 1)

	r.Remove(datasetBlock("events", 1))
	assert.Equal(t, 0, r.CountForDataset("events"))
	assert.Empty(t, r.Datasets(), "empty dataset groups must not persist")
	assert.Equal(t, 0, r.Count())
}

func TestRegistryCount(t *testing.T) {
	r := NewRegistry()
	for p := 0; p < 3; p++ {
		r.Put(datasetBlock("a", p), record(1, 0))
	}
	for p := 0; p < 2; p++ {
		r.Put(datasetBlock("b", p), record(1, 0))
	}
	r.Put(block.OpaqueBlock{Name: "x"}, record(1, 0))

	assert.Equal(t, 6, r.Count())
	assert.Equal(t, 3, r.CountForDataset("a"))
	assert.Equal(t, 2, r.CountForDataset("b"))
	assert.Equal(t, 0, r.CountForDataset("missing"))
}

func TestRegistrySnapshotsAreCopies(t *testing.T) {
	r := NewRegistry()
	db := datasetBlock("events", 0)
	ob := block.OpaqueBlock{Name: "x"}
	r.Put(db, record(100, 0))
	r.Put(ob, record(50, 0))

	snap := r.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, record(100, 0), snap[db])

	// Mutating the registry must not alter an already-taken snapshot.
	r.Remove(db)
	assert.Len(t, snap, 2)

	dsnap := r.SnapshotDataset("events")
	assert.Empty(t, dsnap)
}
