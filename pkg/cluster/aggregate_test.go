package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/status"
)

var memLevel = block.StorageLevel{UseMemory: true, Replication: 1}

func newEngine(executor, host string) *status.Engine {
	return status.NewEngine(status.Config{
		Node: block.NodeID{Host: host, Port: 7337, ExecutorID: executor},
	})
}

func TestUpdateDatasetSummaries(t *testing.T) {
	x := newEngine("X", "host-x")
	y := newEngine("Y", "host-y")

	x.AddOrUpdate(block.DatasetBlock{Dataset: "E", Partition: 0}, block.Record{Level: memLevel, MemSize: 100, DiskSize: 10})
	x.AddOrUpdate(block.DatasetBlock{Dataset: "E", Partition: 1}, block.Record{Level: memLevel, MemSize: 200})
	y.AddOrUpdate(block.DatasetBlock{Dataset: "E", Partition: 2}, block.Record{Level: memLevel, MemSize: 50, DiskSize: 5})

	summaries := []*DatasetSummary{
		{ID: "E"},
		{ID: "missing", Level: memLevel, PartitionCount: 9, MemSize: 9, DiskSize: 9},
	}

	UpdateDatasetSummaries(summaries, []*status.Engine{x, y})

	e := summaries[0]
	assert.Equal(t, memLevel, e.Level)
	assert.Equal(t, 3, e.PartitionCount)
	assert.Equal(t, int64(350), e.MemSize)
	assert.Equal(t, int64(15), e.DiskSize)

	// A dataset no engine holds is overwritten with zeros and the
	// not-persisted sentinel, not left with stale values.
	m := summaries[1]
	assert.Equal(t, block.LevelNone, m.Level)
	assert.Equal(t, 0, m.PartitionCount)
	assert.Equal(t, int64(0), m.MemSize)
	assert.Equal(t, int64(0), m.DiskSize)
}

func TestUpdateDatasetSummariesLevelOrder(t *testing.T) {
	diskLevel := block.StorageLevel{UseDisk: true, Replication: 1}

	x := newEngine("X", "host-x")
	y := newEngine("Y", "host-y")
	x.AddOrUpdate(block.DatasetBlock{Dataset: "E", Partition: 0}, block.Record{Level: diskLevel, DiskSize: 10})
	y.AddOrUpdate(block.DatasetBlock{Dataset: "E", Partition: 1}, block.Record{Level: memLevel, MemSize: 10})

	summaries := []*DatasetSummary{{ID: "E"}}

	// Engine list order decides whose level wins.
	UpdateDatasetSummaries(summaries, []*status.Engine{x, y})
	assert.Equal(t, diskLevel, summaries[0].Level)

	UpdateDatasetSummaries(summaries, []*status.Engine{y, x})
	assert.Equal(t, memLevel, summaries[0].Level)
}

func TestBlockLocations(t *testing.T) {
	x := newEngine("X", "host-x")
	y := newEngine("Y", "host-y")
	z := newEngine("Z", "host-z")

	p0 := block.DatasetBlock{Dataset: "E", Partition: 0}
	p1 := block.DatasetBlock{Dataset: "E", Partition: 1}

	x.AddOrUpdate(p0, block.Record{Level: memLevel, MemSize: 10})
	y.AddOrUpdate(p0, block.Record{Level: memLevel, MemSize: 10})
	z.AddOrUpdate(p1, block.Record{Level: memLevel, MemSize: 10})

	// An unrelated dataset must not leak into the index.
	z.AddOrUpdate(block.DatasetBlock{Dataset: "F", Partition: 0}, block.Record{Level: memLevel, MemSize: 1})

	locations := BlockLocations("E", []*status.Engine{x, y, z})

	require.Len(t, locations, 2)
	assert.Equal(t, []string{x.Node().String(), y.Node().String()}, locations[p0],
		"holders listed in engine list order")
	assert.Equal(t, []string{z.Node().String()}, locations[p1])
}

func TestBlockLocationsEmpty(t *testing.T) {
	x := newEngine("X", "host-x")
	locations := BlockLocations("E", []*status.Engine{x})
	assert.Empty(t, locations)
}
