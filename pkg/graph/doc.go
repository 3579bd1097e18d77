// Package graph is the node-graph data model: typed nodes connected through
// named ports, grouped into graphs that can reference each other's nodes.
//
// # Overview
//
// A [Workspace] is the arena that owns every [Node] and [Graph] by ID. A graph
// lists its members as an ordered set of node IDs. Every node has exactly one
// owning graph; a node listed in a graph it does not belong to is a ref node
// of that graph ([Graph.IsRefNode]). Ref nodes model cross-graph references.
//
//	ws := graph.NewWorkspace(reg)
//	g, _ := ws.NewGraph("math", "main")
//	a, _ := g.AddNode("math.const")
//	b, _ := g.AddNode("math.add")
//	out, _ := a.Port("value")
//	in, _ := b.Port("a")
//	_ = out.Connect(in)
//
// # Connections
//
// A connection is a single [Edge] shared by both of its ports. Ports only gain
// or lose edges through paired helpers, so if port A is connected to port B
// then B is connected to A. [Port.Connections] returns a snapshot, so callers
// may disconnect while iterating. [Workspace.Validate] checks the symmetry
// invariant and is used heavily in tests.
//
// Endpoints reference ports by node ID and port name. A node that has left
// the arena simply stops resolving; nothing points at freed memory.
//
// # Removal and Orphans
//
// [Graph.RemoveNode] clears a node's connections on both ends, drops it from
// the graph and releases it from the arena. [Graph.RemoveRefNode] only drops
// membership and the connections to this graph's own nodes. A dangling
// member ID (its node was destroyed through another graph) and ref nodes no
// longer fed by any member are cleaned up by [Graph.PurgeOrphanRefNodes].
//
// # Copying
//
// [Graph.Copy] clones every owned member, keeps ref members as references,
// and remaps internal connections so that each one is reproduced exactly once
// between the corresponding clones.
//
// # Host
//
// Destruction of nodes is reported to a [Host]. An [EditorHost] (the default)
// is not live and is never asked to destroy anything; a [RuntimeHost] is.
//
// # Concurrency
//
// The package is single-threaded. A Workspace and everything in it
// must not be used from multiple goroutines without external synchronization.
package graph
