package block

import (
	"fmt"
	"strings"
)

// StorageLevel describes where a block's data is placed.
//
// Only UseOffHeap influences the accounting engine (it selects the on-heap
// vs off-heap memory pool). The remaining flags describe placement and
// replication policy and ride along opaquely so aggregation consumers can
// report them.
type StorageLevel struct {
	UseMemory   bool
	UseDisk     bool
	UseOffHeap  bool
	Replication int
}

// LevelNone is the "not persisted" sentinel reported for datasets no engine
// knows a level for.
var LevelNone = StorageLevel{}

// IsValid reports whether the level describes any actual placement.
// LevelNone is not valid.
func (l StorageLevel) IsValid() bool {
	return (l.UseMemory || l.UseDisk) && l.Replication > 0
}

func (l StorageLevel) String() string {
	if !l.IsValid() {
		return "none"
	}

	parts := make([]string, 0, 3)
	if l.UseMemory {
		if l.UseOffHeap {
			parts = append(parts, "offheap")
		} else {
			parts = append(parts, "memory")
		}
	}
	if l.UseDisk {
		parts = append(parts, "disk")
	}
	return fmt.Sprintf("%s(%d)", strings.Join(parts, "+"), l.Replication)
}
