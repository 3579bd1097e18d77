// Package io encodes workspaces as documents and reads them back.
//
// # Overview
//
// A [Document] lists every graph, node and connection of a workspace by
// stable identity. Node IDs, graph IDs and ownership survive a round trip, so
// ref nodes stay ref nodes after a save and load.
//
//	{
//	  "version": 1,
//	  "graphs": [
//	    {"id": "g1", "kind": "math", "name": "main",
//	     "members": ["n1", "n2"],
//	     "positions": [{"node": "n1", "x": 10, "y": 20}]}
//	  ],
//	  "nodes": [
//	    {"id": "n1", "type": "math.const", "owner": "g1"},
//	    {"id": "n2", "type": "math.output", "owner": "g1"}
//	  ],
//	  "edges": [
//	    {"from": {"node": "n1", "port": "value"},
//	     "to": {"node": "n2", "port": "value"}}
//	  ]
//	}
//
// Every connection is listed once, from the output side when there is one.
// Static ports come from the registry; only dynamic ports are written.
//
// # Formats
//
// Documents are written as JSON ([WriteJSON]) or YAML ([WriteYAML]).
// [ExportFile] and [ImportFile] pick the format from the file extension.
//
// # Tolerance
//
// [Decode] keeps graph members whose node is missing, so that
// [graph.Graph.PurgeOrphanRefNodes] can clean them up. Positions may be
// missing for any member. Edges that reference a missing node are skipped.
// Edges that reference a missing port of an existing node are an error.
package io
