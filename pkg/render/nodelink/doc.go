// Package nodelink renders node graphs as node-link diagrams.
//
// # Overview
//
// Each node becomes a Graphviz record with its input ports on the left, its
// name in the middle and its output ports on the right. Connections are drawn
// from output port to input port. Ref nodes are drawn dashed and grey so that
// cross-graph references stand out.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: node labels also show the node type, position and data
//
// Only connections whose two ends are both members of the graph are drawn.
//
// # Dependencies
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz].
package nodelink
