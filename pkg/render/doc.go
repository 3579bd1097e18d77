// Package render groups the static diagram exporters for node graphs.
//
// The [nodelink] subpackage writes a graph's structure as Graphviz DOT and
// renders it to SVG. The output is a read-only snapshot of nodes, ports and
// connections; it is not an editor canvas.
//
// [nodelink]: github.com/matzehuels/nodegraph/pkg/render/nodelink
package render
