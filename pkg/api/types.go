package api

import (
	"cmp"
	"slices"
	"sync"

	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/status"
)

// NodeInfo describes the node an engine accounts for.
type NodeInfo struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	ExecutorID string `json:"executor_id"`
	Display    string `json:"display"`
}

// UsageInfo is the node-wide usage report.
//
// Ceiling-derived fields are pointers: nil means the corresponding ceiling
// was not configured, mirroring the engine's absent results.
type UsageInfo struct {
	BlockCount     int    `json:"block_count"`
	DatasetCount   int    `json:"dataset_count"`
	OnHeapMemUsed  int64  `json:"onheap_mem_used"`
	OffHeapMemUsed int64  `json:"offheap_mem_used"`
	MemUsed        int64  `json:"mem_used"`
	DiskUsed       int64  `json:"disk_used"`
	MaxOnHeapMem   *int64 `json:"max_onheap_mem,omitempty"`
	MaxOffHeapMem  *int64 `json:"max_offheap_mem,omitempty"`
	MaxMem         *int64 `json:"max_mem,omitempty"`
	MemRemaining   *int64 `json:"mem_remaining,omitempty"`
}

// DatasetInfo is the aggregate usage of one dataset on the node.
type DatasetInfo struct {
	ID          string `json:"id"`
	Level       string `json:"level"`
	BlockCount  int    `json:"block_count"`
	MemoryUsage int64  `json:"memory_usage"`
	DiskUsage   int64  `json:"disk_usage"`
}

// BlockInfo is one block's current footprint.
type BlockInfo struct {
	ID       string `json:"id"`
	Level    string `json:"level"`
	MemSize  int64  `json:"mem_size"`
	DiskSize int64  `json:"disk_size"`
}

// DatasetDetail is a dataset aggregate together with its blocks.
type DatasetDetail struct {
	DatasetInfo
	Blocks []BlockInfo `json:"blocks"`
}

// buildNodeInfo, buildUsageInfo, and friends translate engine state into
// wire types. Callers must hold the engine lock.

func buildNodeInfo(e *status.Engine) NodeInfo {
	n := e.Node()
	return NodeInfo{
		Host:       n.Host,
		Port:       n.Port,
		ExecutorID: n.ExecutorID,
		Display:    n.String(),
	}
}

func buildUsageInfo(e *status.Engine) UsageInfo {
	info := UsageInfo{
		BlockCount:     e.BlockCount(),
		DatasetCount:   len(e.Datasets()),
		OnHeapMemUsed:  e.OnHeapMemUsed(),
		OffHeapMemUsed: e.OffHeapMemUsed(),
		MemUsed:        e.MemUsed(),
		DiskUsed:       e.DiskUsed(),
	}
	if v, ok := e.MaxOnHeapMem(); ok {
		info.MaxOnHeapMem = &v
	}
	if v, ok := e.MaxOffHeapMem(); ok {
		info.MaxOffHeapMem = &v
	}
	if v, ok := e.MaxMem(); ok {
		info.MaxMem = &v
	}
	if v, ok := e.MemRemaining(); ok {
		info.MemRemaining = &v
	}
	return info
}

func buildDatasetInfo(e *status.Engine, d block.DatasetID) (DatasetInfo, bool) {
	usage, ok := e.DatasetUsage(d)
	if !ok {
		return DatasetInfo{}, false
	}
	return DatasetInfo{
		ID:          string(d),
		Level:       usage.Level.String(),
		BlockCount:  e.BlockCountForDataset(d),
		MemoryUsage: usage.MemoryUsage,
		DiskUsage:   usage.DiskUsage,
	}, true
}

func buildDatasetList(e *status.Engine) []DatasetInfo {
	datasets := e.Datasets()
	out := make([]DatasetInfo, 0, len(datasets))
	for _, d := range datasets {
		if info, ok := buildDatasetInfo(e, d); ok {
			out = append(out, info)
		}
	}
	slices.SortFunc(out, func(a, b DatasetInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func buildDatasetDetail(e *status.Engine, d block.DatasetID) (DatasetDetail, bool) {
	info, ok := buildDatasetInfo(e, d)
	if !ok {
		return DatasetDetail{}, false
	}

	blocks := e.BlocksForDataset(d)
	out := make([]BlockInfo, 0, len(blocks))
	for id, rec := range blocks {
		out = append(out, BlockInfo{
			ID:       id.String(),
			Level:    rec.Level.String(),
			MemSize:  rec.MemSize,
			DiskSize: rec.DiskSize,
		})
	}
	slices.SortFunc(out, func(a, b BlockInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return DatasetDetail{DatasetInfo: info, Blocks: out}, true
}

// Guard pairs an engine with the lock that serializes access to it.
//
// The engine has no internal locking, so every consumer of the same
// instance (the API, the metrics collector, the mutating feed) must share
// one lock. Guard makes that sharing explicit.
type Guard struct {
	Mu     *sync.RWMutex
	Engine *status.Engine
}
