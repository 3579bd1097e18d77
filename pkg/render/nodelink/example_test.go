package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
	"github.com/matzehuels/nodegraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	reg := registry.New()
	_ = reg.Register(registry.NodeType{ID: "num", Ports: []registry.PortSpec{{Name: "out", Direction: registry.Output}}})
	_ = reg.Register(registry.NodeType{ID: "print", Ports: []registry.PortSpec{{Name: "in"}}})

	ws := graph.NewWorkspace(reg)
	g, _ := ws.NewGraph("plain", "demo")
	n, _ := g.AddNode("num")
	p, _ := g.AddNode("print")
	out, _ := n.Port("out")
	in, _ := p.Port("in")
	_ = out.Connect(in)

	dot := nodelink.ToDOT(g, nodelink.Options{})
	fmt.Println("Edges:", strings.Count(dot, " -> "))
	fmt.Println("Records:", strings.Count(dot, `label="{`))
	// Output:
	// Edges: 1
	// Records: 2
}
