package block

import "fmt"

// NodeID identifies a storage node in the cluster.
//
// It is an opaque, immutable key: two NodeIDs are the same node exactly
// when all three fields are equal. ExecutorID refers to the worker process
// hosting the blocks; Host and Port locate its block transfer endpoint.
type NodeID struct {
	Host       string
	Port       int
	ExecutorID string
}

// HostPort returns the "host:port" form of the node address.
func (n NodeID) HostPort() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// String returns the display form used in logs and location indexes.
func (n NodeID) String() string {
	return fmt.Sprintf("%s (%s)", n.ExecutorID, n.HostPort())
}
