package block

// Record is an immutable snapshot of one block's footprint on a node.
//
// The zero value represents "absent": a block the node does not hold.
// MemSize and DiskSize are byte counts and are never negative for a
// well-formed record.
type Record struct {
	Level    StorageLevel
	MemSize  int64
	DiskSize int64
}

// ZeroRecord is the canonical absent record. Removals are expressed as an
// update to ZeroRecord inside the accounting engine.
var ZeroRecord = Record{}

// IsZero reports whether the record represents an absent block.
func (r Record) IsZero() bool {
	return r == ZeroRecord
}
