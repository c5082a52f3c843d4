package block

// DatasetUsage is the derived aggregate footprint of one dataset on one
// node.
//
// Level is the storage level most recently reported for a block of the
// dataset. Levels are assumed uniform across a dataset's blocks; the
// engine records the latest one seen and does not enforce uniformity.
type DatasetUsage struct {
	MemoryUsage int64
	DiskUsage   int64
	Level       StorageLevel
}

// NodeUsage is the derived aggregate footprint of a node's opaque blocks,
// split by memory pool.
type NodeUsage struct {
	OnHeapUsage  int64
	OffHeapUsage int64
	DiskUsage    int64
}
