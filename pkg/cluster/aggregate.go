// Package cluster builds cluster-wide views from per-node accounting
// engines.
//
// Both helpers are read-only fan-outs: they iterate a caller-supplied list
// of engines and combine answers from each engine's query surface. They
// share no state between engines and are safe to run concurrently with
// each other, provided no engine in the list is being mutated during the
// read window (engines carry no internal locking).
package cluster

import (
	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/status"
)

// DatasetSummary is a mutable cluster-wide rollup for one dataset.
// UpdateDatasetSummaries overwrites every derived field in place.
type DatasetSummary struct {
	ID             block.DatasetID
	Level          block.StorageLevel
	PartitionCount int
	MemSize        int64
	DiskSize       int64
}

// UpdateDatasetSummaries fills each summary from the given engines.
//
// For every summary: Level becomes the first level any engine reports for
// the dataset, in engine list order, or LevelNone when no engine holds it;
// PartitionCount, MemSize, and DiskSize become the sums of each engine's
// per-dataset block count, memory, and disk usage.
func UpdateDatasetSummaries(summaries []*DatasetSummary, engines []*status.Engine) {
	for _, summary := range summaries {
		level := block.LevelNone
		levelFound := false
		count := 0
		var mem, disk int64

		for _, engine := range engines {
			if !levelFound {
				if l, ok := engine.LevelForDataset(summary.ID); ok {
					level = l
					levelFound = true
				}
			}
			count += engine.BlockCountForDataset(summary.ID)
			mem += engine.MemUsedByDataset(summary.ID)
			disk += engine.DiskUsedByDataset(summary.ID)
		}

		summary.Level = level
		summary.PartitionCount = count
		summary.MemSize = mem
		summary.DiskSize = disk
	}
}

// BlockLocations indexes which nodes hold each block of dataset d.
//
// The result maps every block of d held by at least one engine to the
// display strings of the nodes holding it, ordered as those engines appear
// in the input list. A block held by two of five engines yields a
// two-element list.
func BlockLocations(d block.DatasetID, engines []*status.Engine) map[block.DatasetBlock][]string {
	locations := make(map[block.DatasetBlock][]string)
	for _, engine := range engines {
		node := engine.Node().String()
		for b := range engine.BlocksForDataset(d) {
			locations[b] = append(locations[b], node)
		}
	}
	return locations
}
