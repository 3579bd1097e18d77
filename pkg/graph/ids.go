package graph

import "github.com/google/uuid"

// NodeID is the stable identity of a node. It survives save/load round trips.
type NodeID string

// GraphID is the stable identity of a graph.
type GraphID string

// NewNodeID returns a fresh random node ID.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// NewGraphID returns a fresh random graph ID.
func NewGraphID() GraphID { return GraphID(uuid.NewString()) }

// Metadata stores arbitrary key-value pairs attached to nodes or graphs.
type Metadata map[string]any

// Position is a 2D editor position. The zero value is the origin.
type Position struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}
