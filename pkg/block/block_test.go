package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDEquality(t *testing.T) {
	a := ID(DatasetBlock{Dataset: "d1", Partition: 0})
	b := ID(DatasetBlock{Dataset: "d1", Partition: 0})
	c := ID(DatasetBlock{Dataset: "d1", Partition: 1})
	o := ID(OpaqueBlock{Name: "shuffle_0_0"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, o)

	// IDs must work as map keys across variants.
	m := map[ID]int{a: 1, o: 2}
	assert.Equal(t, 1, m[b])
	assert.Equal(t, 2, m[OpaqueBlock{Name: "shuffle_0_0"}])
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "dataset_events_3", DatasetBlock{Dataset: "events", Partition: 3}.String())
	assert.Equal(t, "scratch-1", OpaqueBlock{Name: "scratch-1"}.String())
}

func TestStorageLevelString(t *testing.T) {
	tests := []struct {
		name  string
		level StorageLevel
		want  string
	}{
		{"none", LevelNone, "none"},
		{"memory only", StorageLevel{UseMemory: true, Replication: 1}, "memory(1)"},
		{"off-heap", StorageLevel{UseMemory: true, UseOffHeap: true, Replication: 1}, "offheap(1)"},
		{"memory and disk", StorageLevel{UseMemory: true, UseDisk: true, Replication: 2}, "memory+disk(2)"},
		{"disk only", StorageLevel{UseDisk: true, Replication: 1}, "disk(1)"},
		{"zero replication invalid", StorageLevel{UseMemory: true}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestRecordIsZero(t *testing.T) {
	assert.True(t, ZeroRecord.IsZero())
	assert.False(t, Record{MemSize: 1}.IsZero())
	assert.False(t, Record{Level: StorageLevel{UseDisk: true, Replication: 1}}.IsZero())
}

func TestNodeIDString(t *testing.T) {
	n := NodeID{Host: "10.0.0.7", Port: 7337, ExecutorID: "exec-2"}
	assert.Equal(t, "10.0.0.7:7337", n.HostPort())
	assert.Equal(t, "exec-2 (10.0.0.7:7337)", n.String())
}
