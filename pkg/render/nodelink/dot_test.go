package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

func testGraph(t *testing.T) (*graph.Graph, *graph.Node, *graph.Node, *graph.Node) {
	t.Helper()
	reg := registry.New()
	for _, typ := range []registry.NodeType{
		{ID: "src", Name: "Source", Ports: []registry.PortSpec{{Name: "out", Direction: registry.Output}}},
		{ID: "sink", Ports: []registry.PortSpec{{Name: "x", Direction: registry.Input}, {Name: "y", Direction: registry.Input}}},
	} {
		if err := reg.Register(typ); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	ws := graph.NewWorkspace(reg)
	g, _ := ws.NewGraph("plain", "main")
	other, _ := ws.NewGraph("plain", "other")

	src, _ := g.AddNode("src")
	sink, _ := g.AddNode("sink")
	ref, _ := other.AddNode("sink")
	g.AddExistingNode(ref)

	out, _ := src.Port("out")
	y, _ := sink.Port("y")
	rx, _ := ref.Port("x")
	_ = out.Connect(y)
	_ = out.Connect(rx)
	return g, src, sink, ref
}

func TestToDOT_Basic(t *testing.T) {
	g, src, sink, _ := testGraph(t)
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "shape=record") {
		t.Error("ToDOT() output missing record shape")
	}
	if !strings.Contains(dot, `label="main"`) {
		t.Error("ToDOT() output missing graph label")
	}
	edge := `"` + string(src.ID()) + `":o0 -> "` + string(sink.ID()) + `":i1;`
	if !strings.Contains(dot, edge) {
		t.Errorf("ToDOT() output missing edge %s:\n%s", edge, dot)
	}
	if got := strings.Count(dot, " -> "); got != 2 {
		t.Errorf("ToDOT() edges = %d, want 2", got)
	}
}

func TestToDOT_RefNode(t *testing.T) {
	g, _, _, ref := testGraph(t)
	dot := ToDOT(g, Options{})

	var line string
	for _, l := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), `"`+string(ref.ID())+`" [`) {
			line = l
		}
	}
	if !strings.Contains(line, "dashed") || !strings.Contains(line, "lightgrey") {
		t.Errorf("ref node not dashed grey: %q", line)
	}
}

func TestToDOT_SkipsOutsideEdges(t *testing.T) {
	g, _, _, ref := testGraph(t)
	g.RemoveRefNode(ref)
	dot := ToDOT(g, Options{})

	if strings.Contains(dot, string(ref.ID())) {
		t.Error("ToDOT() drew a non-member")
	}
	if got := strings.Count(dot, " -> "); got != 1 {
		t.Errorf("ToDOT() edges = %d, want 1", got)
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	g, src, sink, _ := testGraph(t)

	if got := fmtLabel(g, src, false); got != "{Source|{<o0> out}}" {
		t.Errorf("fmtLabel(src) = %q", got)
	}
	if got := fmtLabel(g, sink, false); got != "{{<i0> x|<i1> y}|sink}" {
		t.Errorf("fmtLabel(sink) = %q", got)
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	g, src, _, _ := testGraph(t)
	src.Data["key"] = "value"
	g.SetNodePosition(src, graph.Position{X: 3, Y: 4.5})

	label := fmtLabel(g, src, true)
	for _, want := range []string{`Source\n`, "type: src", "pos: 3, 4.5", "key: value"} {
		if !strings.Contains(label, want) {
			t.Errorf("fmtLabel() detailed missing %q: %q", want, label)
		}
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a|b", `a\|b`},
		{"{x}", `\{x\}`},
		{"<in>", `\<in\>`},
		{`say "hi"`, `say \"hi\"`},
		{"two\nlines", `two\nlines`},
	}
	for _, tt := range tests {
		if got := escape(tt.in); got != tt.want {
			t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFmtAttrs(t *testing.T) {
	g, src, _, ref := testGraph(t)

	if attrs := fmtAttrs(g, src, "l"); len(attrs) != 1 {
		t.Errorf("fmtAttrs() owned node should have 1 attr, got %v", attrs)
	}
	if attrs := fmtAttrs(g, ref, "l"); len(attrs) != 4 {
		t.Errorf("fmtAttrs() ref node should have 4 attrs, got %v", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeViewBox([]byte(tt.svg)); string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	g, _, _, _ := testGraph(t)
	svg, err := RenderSVG(ToDOT(g, Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
