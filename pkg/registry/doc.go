// Package registry describes the node types and graph kinds a workspace can
// construct.
//
// # Overview
//
// A [Registry] is the node-type catalog consulted by [graph.Graph.AddNode].
// Each [NodeType] declares the static ports every node of that type carries,
// and whether a graph may own more than one node of the type. Each
// [GraphType] names the node types a graph of that kind must always contain.
//
// Required node types replace attribute-based metadata on graph classes: they
// are plain registry entries, checked when a graph is created (required nodes
// are added automatically) and when a node is removed (the last node of a
// required type cannot be removed).
//
// # Registry Files
//
// Registries are usually loaded from TOML with [Load] or [LoadFile]:
//
//	[[node]]
//	id   = "math.add"
//	name = "Add"
//
//	  [[node.port]]
//	  name      = "a"
//	  direction = "input"
//	  type      = "float"
//
//	  [[node.port]]
//	  name      = "sum"
//	  direction = "output"
//	  type      = "float"
//
//	[[graph]]
//	kind     = "math"
//	required = ["math.output"]
//
// Port directions are "input" or "output". Connection types are "multiple"
// (the default) or "override"; an override port holds at most one connection.
//
// # Concurrency
//
// A Registry is safe for concurrent reads once populated. Registration is not
// synchronized and should happen at startup.
//
// [graph.Graph.AddNode]: github.com/matzehuels/nodegraph/pkg/graph.Graph.AddNode
package registry
