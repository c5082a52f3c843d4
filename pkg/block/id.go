// Package block defines the value types shared by the accounting engine:
// block identities, footprint records, storage levels, and node identity.
//
// Everything in this package is an immutable, comparable value. The types
// carry no behavior beyond formatting; all accounting logic lives in
// pkg/status.
package block

import "fmt"

// DatasetID names a dataset grouping of blocks.
type DatasetID string

// ID identifies a block held by a node.
//
// It is a closed union with exactly two variants:
//
//   - DatasetBlock: a partition of a named dataset
//   - OpaqueBlock: a block with no dataset grouping
//
// Both variants are comparable structs, so ID values can be used directly
// as map keys and compared with ==. Consumers dispatch with a type switch
// over the two variants; the sealed marker method guarantees no third
// variant can exist outside this package.
type ID interface {
	fmt.Stringer

	// sealed marks the union closed. Only DatasetBlock and OpaqueBlock
	// implement it.
	sealed()
}

// DatasetBlock identifies one partition of a dataset.
type DatasetBlock struct {
	Dataset   DatasetID
	Partition int
}

func (DatasetBlock) sealed() {}

func (b DatasetBlock) String() string {
	return fmt.Sprintf("dataset_%s_%d", b.Dataset, b.Partition)
}

// OpaqueBlock identifies a block that belongs to no dataset.
type OpaqueBlock struct {
	Name string
}

func (OpaqueBlock) sealed() {}

func (b OpaqueBlock) String() string {
	return b.Name
}
