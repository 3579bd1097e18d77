// Package pkg provides the libraries behind nodegraph.
//
// # Overview
//
// Nodegraph models workspaces of node graphs. A graph owns typed nodes, each
// node owns named ports, and ports hold connections to ports of other nodes.
// A graph may also list nodes that another graph owns; these ref nodes are
// shared across graphs and are purged once nothing in the graph feeds them.
//
// The pkg directory is organized into three areas:
//
//  1. Core: [registry] (node and graph types) and [graph] (workspaces,
//     graphs, nodes, ports, purge and copy)
//  2. Infrastructure: [io] (JSON/YAML documents), [store] (file, memory and
//     MongoDB workspace stores), [cache] (file and Redis artifact caches),
//     [config], [errors], [observability]
//  3. Orchestration: [pipeline] (load, edit, save, render), [api] (HTTP),
//     [render/nodelink] (DOT and SVG)
//
// # Architecture
//
//	registry TOML
//	     ↓
//	[graph] workspace  ⇄  [io] document  ⇄  [store]
//	     ↓
//	[render/nodelink] DOT → SVG  →  [cache]
//
// # Quick Start
//
//	reg, _ := registry.Builtin()
//	ws := graph.NewWorkspace(reg)
//	g, _ := ws.NewGraph("math", "main")
//	c, _ := g.AddNode("math.const")
//	out, _ := c.Port("value")
//	in, _ := g.Nodes()[0].Port("value")
//	_ = out.Connect(in)
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
package pkg
