package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodegraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type, position and data to node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT. The resulting DOT string can be
// rendered with [RenderSVG] or any Graphviz tool.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if g.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Name)
	}
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := g.Nodes()
	for _, n := range nodes {
		attrs := fmtAttrs(g, n, fmtLabel(g, n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for i, out := range n.Outputs() {
			for _, in := range out.Connections() {
				if !in.IsInput() || !g.Contains(in.Node()) {
					continue
				}
				fmt.Fprintf(&buf, "  %q:%s -> %q:%s;\n",
					n.ID(), anchor("o", i), in.Node().ID(), anchor("i", inputIndex(in)))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtLabel builds a record label: {inputs | title | outputs}.
func fmtLabel(g *graph.Graph, n *graph.Node, detailed bool) string {
	title := escape(n.Name)
	if detailed {
		pos := g.NodePosition(n)
		parts := []string{title, escape("type: " + string(n.Type())), escape(fmt.Sprintf("pos: %g, %g", pos.X, pos.Y))}
		for _, k := range slices.Sorted(maps.Keys(n.Data)) {
			parts = append(parts, escape(fmt.Sprintf("%s: %v", k, n.Data[k])))
		}
		title = strings.Join(parts, `\n`)
	}

	fields := []string{}
	if in := portFields("i", n.Inputs()); in != "" {
		fields = append(fields, "{"+in+"}")
	}
	fields = append(fields, title)
	if out := portFields("o", n.Outputs()); out != "" {
		fields = append(fields, "{"+out+"}")
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func portFields(prefix string, ports []*graph.Port) string {
	fields := make([]string, len(ports))
	for i, p := range ports {
		fields[i] = fmt.Sprintf("<%s> %s", anchor(prefix, i), escape(p.Name()))
	}
	return strings.Join(fields, "|")
}

func fmtAttrs(g *graph.Graph, n *graph.Node, label string) []string {
	attrs := []string{`label="` + label + `"`}
	if g.IsRefNode(n) {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func anchor(prefix string, i int) string { return prefix + strconv.Itoa(i) }

func inputIndex(p *graph.Port) int {
	return slices.Index(p.Node().Inputs(), p)
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"\n", `\n`,
)

// escape quotes text for use inside a record label.
func escape(s string) string { return recordEscaper.Replace(s) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the diagram scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
