package graph

import (
	"testing"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

const (
	typeConst  registry.TypeID = "math.const"
	typeAdd    registry.TypeID = "math.add"
	typeOutput registry.TypeID = "math.output"
	typeLabel  registry.TypeID = "text.label"

	kindMath  registry.Kind = "math"
	kindPlain registry.Kind = "plain"
)

func testRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	reg := registry.New()
	types := []registry.NodeType{
		{
			ID:    typeConst,
			Name:  "Constant",
			Ports: []registry.PortSpec{{Name: "value", Direction: registry.Output, ValueType: "float"}},
		},
		{
			ID: typeAdd,
			Ports: []registry.PortSpec{
				{Name: "a", Direction: registry.Input, ValueType: "float"},
				{Name: "b", Direction: registry.Input, ValueType: "float"},
				{Name: "sum", Direction: registry.Output, ValueType: "float"},
			},
		},
		{
			ID:     typeOutput,
			Ports:  []registry.PortSpec{{Name: "value", Direction: registry.Input, Connection: registry.Override}},
			Unique: true,
		},
		{
			ID: typeLabel,
			Ports: []registry.PortSpec{
				{Name: "text", Direction: registry.Input, ValueType: "string"},
				{Name: "out", Direction: registry.Output, ValueType: "string"},
			},
		},
	}
	for _, typ := range types {
		if err := reg.Register(typ); err != nil {
			t.Fatalf("Register %s: %v", typ.ID, err)
		}
	}
	if err := reg.RegisterGraph(registry.GraphType{Kind: kindMath, Required: []registry.TypeID{typeOutput}}); err != nil {
		t.Fatalf("RegisterGraph: %v", err)
	}
	return reg
}

func newTestGraph(t testing.TB, opts ...Option) (*Workspace, *Graph) {
	t.Helper()
	ws := NewWorkspace(testRegistry(t), opts...)
	g, err := ws.NewGraph(kindPlain, "main")
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return ws, g
}

func mustAdd(t testing.TB, g *Graph, typ registry.TypeID) *Node {
	t.Helper()
	n, err := g.AddNode(typ)
	if err != nil {
		t.Fatalf("AddNode %s: %v", typ, err)
	}
	return n
}

func mustPort(t testing.TB, n *Node, name string) *Port {
	t.Helper()
	p, ok := n.Port(name)
	if !ok {
		t.Fatalf("node %s has no port %q", n.Type(), name)
	}
	return p
}

func connect(t testing.TB, from *Node, out string, to *Node, in string) {
	t.Helper()
	if err := mustPort(t, from, out).Connect(mustPort(t, to, in)); err != nil {
		t.Fatalf("Connect %s.%s -> %s.%s: %v", from.Type(), out, to.Type(), in, err)
	}
}

func connected(t testing.TB, from *Node, out string, to *Node, in string) bool {
	t.Helper()
	return mustPort(t, from, out).IsConnectedTo(mustPort(t, to, in))
}

func mustValidate(t testing.TB, ws *Workspace) {
	t.Helper()
	if err := ws.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

type destroyRecorder struct {
	live      bool
	destroyed []NodeID
}

func (r *destroyRecorder) Live() bool { return r.live }
func (r *destroyRecorder) Destroy(n *Node) { r.destroyed = append(r.destroyed, n.ID()) }
