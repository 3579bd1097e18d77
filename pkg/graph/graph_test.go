package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name      string
		typ       registry.TypeID
		wantName  string
		wantPorts []string
	}{
		{name: "Const", typ: typeConst, wantName: "Constant", wantPorts: []string{"value"}},
		{name: "Add", typ: typeAdd, wantName: "math.add", wantPorts: []string{"a", "b", "sum"}},
		{name: "Label", typ: typeLabel, wantName: "text.label", wantPorts: []string{"text", "out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, g := newTestGraph(t)
			n := mustAdd(t, g, tt.typ)

			if n.Owner() != g.ID() {
				t.Errorf("Owner = %q, want %q", n.Owner(), g.ID())
			}
			if owner, ok := n.OwningGraph(); !ok || owner != g {
				t.Errorf("OwningGraph = %v, %v; want graph", owner, ok)
			}
			if n.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", n.Name, tt.wantName)
			}
			var names []string
			for _, p := range n.Ports() {
				names = append(names, p.Name())
			}
			if !slices.Equal(names, tt.wantPorts) {
				t.Errorf("ports = %v, want %v", names, tt.wantPorts)
			}
			if !g.Contains(n) || g.IsRefNode(n) {
				t.Error("new node should be an owned member")
			}
			if got, ok := ws.Node(n.ID()); !ok || got != n {
				t.Error("node not registered in workspace")
			}
		})
	}
}

func TestAddNodeErrors(t *testing.T) {
	_, g := newTestGraph(t)

	if _, err := g.AddNode("nope"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown type error = %v, want ErrUnknownType", err)
	}

	mustAdd(t, g, typeOutput)
	if _, err := g.AddNode(typeOutput); !errors.Is(err, ErrUniqueNode) {
		t.Errorf("second unique node error = %v, want ErrUniqueNode", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestNewGraphRequired(t *testing.T) {
	ws := NewWorkspace(testRegistry(t))

	g, err := ws.NewGraph(kindMath, "calc")
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	nodes := g.Nodes()
	if len(nodes) != 1 || nodes[0].Type() != typeOutput {
		t.Fatalf("nodes = %v, want one %s", nodes, typeOutput)
	}
	if g.Kind() != kindMath || g.Name != "calc" {
		t.Errorf("Kind, Name = %q, %q", g.Kind(), g.Name)
	}

	plain, err := ws.NewGraph(kindPlain, "empty")
	if err != nil {
		t.Fatalf("NewGraph plain: %v", err)
	}
	if plain.NodeCount() != 0 {
		t.Errorf("plain graph has %d nodes, want 0", plain.NodeCount())
	}
	if got := ws.Graphs(); len(got) != 2 || got[0] != g || got[1] != plain {
		t.Errorf("Graphs() not in creation order")
	}
}

func TestAddExistingNode(t *testing.T) {
	ws, g := newTestGraph(t)
	other, _ := ws.NewGraph(kindPlain, "other")

	t.Run("Idempotent", func(t *testing.T) {
		n := mustAdd(t, g, typeConst)
		g.AddExistingNode(n)
		g.AddExistingNode(n)
		if got := countID(g.NodeIDs(), n.ID()); got != 1 {
			t.Errorf("member appears %d times, want 1", got)
		}
	})

	t.Run("Detached", func(t *testing.T) {
		n, err := ws.Instantiate(typeAdd)
		if err != nil {
			t.Fatalf("Instantiate: %v", err)
		}
		if n.Owner() != "" {
			t.Fatalf("detached Owner = %q, want empty", n.Owner())
		}
		g.AddExistingNode(n)
		if n.Owner() != g.ID() || g.IsRefNode(n) {
			t.Errorf("detached node should be adopted, Owner = %q", n.Owner())
		}
	})

	t.Run("Foreign", func(t *testing.T) {
		n := mustAdd(t, other, typeAdd)
		in := mustAdd(t, other, typeConst)
		connect(t, in, "value", n, "a")

		g.AddExistingNode(n)
		if n.Owner() != other.ID() {
			t.Errorf("Owner = %q, want %q", n.Owner(), other.ID())
		}
		if !g.IsRefNode(n) || !g.Contains(n) {
			t.Error("foreign node should be a ref member")
		}
		if !connected(t, in, "value", n, "a") {
			t.Error("AddExistingNode must not touch connections")
		}
	})

	t.Run("Nil", func(t *testing.T) {
		before := g.NodeCount()
		g.AddExistingNode(nil)
		if g.NodeCount() != before {
			t.Error("nil node should be ignored")
		}
	})

	mustValidate(t, ws)
}

func TestCopyNode(t *testing.T) {
	ws, g := newTestGraph(t)
	src := mustAdd(t, g, typeConst)
	sink := mustAdd(t, g, typeAdd)
	connect(t, src, "value", sink, "a")
	sink.Data["weight"] = 2
	sink.Name = "adder"
	if _, err := sink.AddDynamicPort(registry.PortSpec{Name: "c", ValueType: "float"}); err != nil {
		t.Fatalf("AddDynamicPort: %v", err)
	}

	other, _ := ws.NewGraph(kindPlain, "other")
	c, err := other.CopyNode(sink)
	if err != nil {
		t.Fatalf("CopyNode: %v", err)
	}

	if c.ID() == sink.ID() {
		t.Error("clone shares ID with original")
	}
	if c.Owner() != other.ID() {
		t.Errorf("Owner = %q, want %q", c.Owner(), other.ID())
	}
	if c.Type() != sink.Type() || c.Name != "adder" {
		t.Errorf("clone type/name = %s/%s", c.Type(), c.Name)
	}
	if c.ConnectionCount() != 0 {
		t.Errorf("clone ConnectionCount = %d, want 0", c.ConnectionCount())
	}
	if p, ok := c.Port("c"); !ok || !p.IsDynamic() {
		t.Error("clone lost dynamic port")
	}

	c.Data["weight"] = 3
	if sink.Data["weight"] != 2 {
		t.Error("clone data is shared with original")
	}
	if !connected(t, src, "value", sink, "a") {
		t.Error("original lost its connection")
	}

	if _, err := other.CopyNode(nil); !errors.Is(err, ErrNilNode) {
		t.Errorf("CopyNode(nil) error = %v, want ErrNilNode", err)
	}
	mustValidate(t, ws)
}

func TestNodePosition(t *testing.T) {
	_, g := newTestGraph(t)
	a := mustAdd(t, g, typeConst)
	b := mustAdd(t, g, typeAdd)

	g.SetNodePosition(a, Position{X: 10, Y: -4.5})
	if got := g.NodePosition(a); got != (Position{X: 10, Y: -4.5}) {
		t.Errorf("NodePosition(a) = %v", got)
	}
	if got := g.NodePosition(b); got != (Position{}) {
		t.Errorf("NodePosition(unset) = %v, want zero", got)
	}
	if got := g.NodePosition(nil); got != (Position{}) {
		t.Errorf("NodePosition(nil) = %v, want zero", got)
	}

	g.SetNodePosition(a, Position{X: 1, Y: 1})
	if len(g.Positions()) != 1 {
		t.Errorf("positions = %v, want one entry", g.Positions())
	}
}

func TestRemoveNode(t *testing.T) {
	rec := &destroyRecorder{live: true}
	ws, g := newTestGraph(t, WithHost(rec))
	a := mustAdd(t, g, typeConst)
	b := mustAdd(t, g, typeAdd)
	c := mustAdd(t, g, typeAdd)
	connect(t, a, "value", b, "a")
	connect(t, b, "sum", c, "a")
	connect(t, a, "value", c, "b")
	g.SetNodePosition(b, Position{X: 3})

	if err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	if g.Contains(b) {
		t.Error("removed node is still a member")
	}
	if _, ok := ws.Node(b.ID()); ok {
		t.Error("removed node is still in the workspace")
	}
	if _, ok := g.Positions()[b.ID()]; ok {
		t.Error("removed node still has a position")
	}
	if n := mustPort(t, a, "value").ConnectionCount(); n != 1 {
		t.Errorf("a.value has %d connections, want 1", n)
	}
	if mustPort(t, c, "a").IsConnected() {
		t.Error("c.a still holds a connection to the removed node")
	}
	if b.ConnectionCount() != 0 {
		t.Errorf("removed node keeps %d connections", b.ConnectionCount())
	}
	if !slices.Equal(rec.destroyed, []NodeID{b.ID()}) {
		t.Errorf("destroyed = %v, want [%s]", rec.destroyed, b.ID())
	}
	mustValidate(t, ws)

	if err := g.RemoveNode(b); err != nil {
		t.Errorf("removing a non-member: %v", err)
	}
	if err := g.RemoveNode(nil); err != nil {
		t.Errorf("RemoveNode(nil): %v", err)
	}
}

func TestRemoveNodeEditorHost(t *testing.T) {
	rec := &destroyRecorder{}
	ws, g := newTestGraph(t, WithHost(rec))
	n := mustAdd(t, g, typeConst)

	if err := g.RemoveNode(n); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if len(rec.destroyed) != 0 {
		t.Errorf("non-live host destroyed %v", rec.destroyed)
	}
	if ws.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", ws.NodeCount())
	}
}

func TestRemoveNodeRequired(t *testing.T) {
	ws := NewWorkspace(testRegistry(t))
	g, err := ws.NewGraph(kindMath, "calc")
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	out := g.Nodes()[0]
	src := mustAdd(t, g, typeConst)
	connect(t, src, "value", out, "value")

	if g.CanRemove(out) {
		t.Error("CanRemove(last required) = true")
	}
	if err := g.RemoveNode(out); !errors.Is(err, ErrRequiredNode) {
		t.Fatalf("RemoveNode error = %v, want ErrRequiredNode", err)
	}
	if !g.Contains(out) || !connected(t, src, "value", out, "value") {
		t.Error("refused removal changed the graph")
	}
	if !g.CanRemove(src) {
		t.Error("CanRemove(optional) = false")
	}
}

func TestRemoveNodeRef(t *testing.T) {
	ws, g := newTestGraph(t)
	foreign, _ := ws.NewGraph(kindPlain, "foreign")
	r := mustAdd(t, foreign, typeAdd)
	g.AddExistingNode(r)

	if err := g.RemoveNode(r); err != nil {
		t.Fatalf("RemoveNode(ref): %v", err)
	}
	if g.Contains(r) {
		t.Error("ref node still a member")
	}
	if _, ok := ws.Node(r.ID()); !ok || !foreign.Contains(r) {
		t.Error("ref node was destroyed by a graph that does not own it")
	}
}

func TestRemoveRefNode(t *testing.T) {
	ws, g := newTestGraph(t)
	foreign, _ := ws.NewGraph(kindPlain, "foreign")

	own := mustAdd(t, g, typeConst)
	r1 := mustAdd(t, foreign, typeAdd)
	r2 := mustAdd(t, foreign, typeAdd)
	g.AddExistingNode(r1)
	g.AddExistingNode(r2)
	connect(t, own, "value", r1, "a")
	connect(t, r1, "sum", r2, "a")
	g.SetNodePosition(r1, Position{X: 1})

	g.RemoveRefNode(r1)

	if g.Contains(r1) {
		t.Error("r1 still a member")
	}
	if _, ok := g.Positions()[r1.ID()]; ok {
		t.Error("r1 still has a position")
	}
	if connected(t, own, "value", r1, "a") {
		t.Error("connection to an owned member was kept")
	}
	if !connected(t, r1, "sum", r2, "a") {
		t.Error("connection between ref nodes was removed")
	}
	if _, ok := ws.Node(r1.ID()); !ok {
		t.Error("ref node was destroyed")
	}
	mustValidate(t, ws)

	g.RemoveRefNode(nil)
}

func TestRemoveRefNodeOwned(t *testing.T) {
	ws, g := newTestGraph(t)
	own := mustAdd(t, g, typeConst)
	add := mustAdd(t, g, typeAdd)
	connect(t, own, "value", add, "a")

	g.RemoveRefNode(own)

	if !g.Contains(own) || own.Owner() != g.ID() {
		t.Fatal("owned node was dropped by RemoveRefNode")
	}
	if !connected(t, own, "value", add, "a") {
		t.Error("owned node lost its connection")
	}

	ws.DestroyGraph(g)
	if _, ok := ws.Node(own.ID()); ok {
		t.Error("owned node survived DestroyGraph")
	}
	mustValidate(t, ws)
}

func TestIsRefNode(t *testing.T) {
	ws, g := newTestGraph(t)
	foreign, _ := ws.NewGraph(kindPlain, "foreign")
	own := mustAdd(t, g, typeConst)
	ref := mustAdd(t, foreign, typeConst)
	detached, _ := ws.Instantiate(typeConst)

	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"Owned", own, false},
		{"Foreign", ref, true},
		{"Detached", detached, true},
		{"Nil", nil, false},
	}
	g.AddExistingNode(ref)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsRefNode(tt.node); got != tt.want {
				t.Errorf("IsRefNode = %v, want %v", got, tt.want)
			}
		})
	}
}

// purgeFixture builds G{A, B} with A -> B and a ref node R owned by F fed by B.
func purgeFixture(t *testing.T) (ws *Workspace, g *Graph, a, b, r *Node) {
	t.Helper()
	ws, g = newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	a = mustAdd(t, g, typeConst)
	b = mustAdd(t, g, typeAdd)
	r = mustAdd(t, f, typeAdd)
	connect(t, a, "value", b, "a")
	g.AddExistingNode(r)
	connect(t, b, "sum", r, "a")
	return ws, g, a, b, r
}

func TestPurgeOrphanRefNodes(t *testing.T) {
	ws, g, a, b, r := purgeFixture(t)

	if n := g.PurgeOrphanRefNodes(); n != 0 {
		t.Fatalf("purge removed %d, want 0", n)
	}
	if !g.Contains(r) {
		t.Fatal("reachable ref node was purged")
	}

	mustPort(t, b, "sum").Disconnect(mustPort(t, r, "a"))
	if n := g.PurgeOrphanRefNodes(); n != 1 {
		t.Fatalf("purge removed %d, want 1", n)
	}
	if g.Contains(r) {
		t.Error("orphan ref node survived")
	}
	if !g.Contains(a) || !g.Contains(b) {
		t.Error("owned nodes were purged")
	}
	if _, ok := ws.Node(r.ID()); !ok {
		t.Error("purge destroyed a node it does not own")
	}
	mustValidate(t, ws)
}

func TestPurgeOutputOnlyRef(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	sink := mustAdd(t, g, typeAdd)
	r := mustAdd(t, f, typeConst)
	g.AddExistingNode(r)
	connect(t, r, "value", sink, "a")

	if n := g.PurgeOrphanRefNodes(); n != 1 {
		t.Fatalf("purge removed %d, want 1", n)
	}
	if mustPort(t, sink, "a").IsConnected() {
		t.Error("connection from purged ref node to owned member was kept")
	}
}

func TestPurgeCascade(t *testing.T) {
	ws, g, _, b, r1 := purgeFixture(t)
	f, _ := r1.OwningGraph()
	r2 := mustAdd(t, f, typeAdd)
	r3 := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r2)
	g.AddExistingNode(r3)
	connect(t, r1, "sum", r2, "a")
	connect(t, r2, "sum", r3, "a")

	if n := g.PurgeOrphanRefNodes(); n != 0 {
		t.Fatalf("purge removed %d, want 0", n)
	}

	mustPort(t, b, "sum").Disconnect(mustPort(t, r1, "a"))
	if n := g.PurgeOrphanRefNodes(); n != 3 {
		t.Fatalf("purge removed %d, want 3", n)
	}
	if len(g.RefNodes()) != 0 {
		t.Errorf("ref nodes left: %d", len(g.RefNodes()))
	}
	if !connected(t, r1, "sum", r2, "a") || !connected(t, r2, "sum", r3, "a") {
		t.Error("purge removed connections between ref nodes")
	}
	mustValidate(t, ws)
}

func TestPurgeRefCycle(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	mustAdd(t, g, typeConst)
	r1 := mustAdd(t, f, typeAdd)
	r2 := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r1)
	g.AddExistingNode(r2)
	connect(t, r1, "sum", r2, "a")
	connect(t, r2, "sum", r1, "a")

	// Each ref node has an input fed by a member, so both stay.
	if n := g.PurgeOrphanRefNodes(); n != 0 {
		t.Errorf("purge removed %d, want 0", n)
	}
	if len(g.RefNodes()) != 2 {
		t.Errorf("ref nodes left: %d, want 2", len(g.RefNodes()))
	}
	mustValidate(t, ws)
}

func TestPurgeIdempotent(t *testing.T) {
	ws, g, _, b, r := purgeFixture(t)
	f, _ := r.OwningGraph()
	stray := mustAdd(t, f, typeLabel)
	g.AddExistingNode(stray)
	mustPort(t, b, "sum").Disconnect(mustPort(t, r, "a"))

	g.PurgeOrphanRefNodes()
	once := g.NodeIDs()
	if n := g.PurgeOrphanRefNodes(); n != 0 {
		t.Errorf("second purge removed %d", n)
	}
	if !slices.Equal(once, g.NodeIDs()) {
		t.Errorf("membership changed: %v -> %v", once, g.NodeIDs())
	}
	mustValidate(t, ws)
}

func TestPurgeDangling(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	own := mustAdd(t, g, typeConst)
	r := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r)
	connect(t, own, "value", r, "a")
	g.SetNodePosition(r, Position{X: 7})

	// Destroyed through its owner, r stays listed in g.
	if err := f.RemoveNode(r); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.NodeCount() != 2 || len(g.Nodes()) != 1 {
		t.Fatalf("NodeCount = %d, live = %d; want 2, 1", g.NodeCount(), len(g.Nodes()))
	}

	g.PurgeOrphanRefNodes()
	if g.NodeCount() != 1 {
		t.Errorf("dangling entry not stripped, NodeCount = %d", g.NodeCount())
	}
	if len(g.Positions()) != 0 {
		t.Errorf("dangling position not stripped: %v", g.Positions())
	}
	if mustPort(t, own, "value").IsConnected() {
		t.Error("owned node still connected to destroyed node")
	}
	mustValidate(t, ws)
}

func TestClear(t *testing.T) {
	rec := &destroyRecorder{live: true}
	ws, g := newTestGraph(t, WithHost(rec))
	f, _ := ws.NewGraph(kindPlain, "F")
	a := mustAdd(t, g, typeConst)
	b := mustAdd(t, g, typeAdd)
	r := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r)
	connect(t, a, "value", b, "a")
	connect(t, b, "sum", r, "a")
	g.SetNodePosition(a, Position{X: 1})

	g.Clear()

	if g.NodeCount() != 0 || len(g.Positions()) != 0 {
		t.Errorf("graph not empty: %d nodes, %d positions", g.NodeCount(), len(g.Positions()))
	}
	if len(rec.destroyed) != 2 {
		t.Errorf("destroyed %d nodes, want 2", len(rec.destroyed))
	}
	if _, ok := ws.Node(r.ID()); !ok || !f.Contains(r) {
		t.Error("Clear destroyed a ref node")
	}
	if r.ConnectionCount() != 0 {
		t.Errorf("ref node kept %d connections to destroyed nodes", r.ConnectionCount())
	}
	mustValidate(t, ws)
}

func TestDestroyGraph(t *testing.T) {
	ws, g := newTestGraph(t)
	mustAdd(t, g, typeConst)

	ws.DestroyGraph(g)
	if _, ok := ws.Graph(g.ID()); ok {
		t.Error("graph still in workspace")
	}
	if ws.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", ws.NodeCount())
	}
	ws.DestroyGraph(g)
	ws.DestroyGraph(nil)
}

func TestCopy(t *testing.T) {
	ws, g := newTestGraph(t)
	g.Meta["author"] = "ada"
	a := mustAdd(t, g, typeConst)
	b := mustAdd(t, g, typeConst)
	add := mustAdd(t, g, typeAdd)
	label := mustAdd(t, g, typeLabel)
	connect(t, a, "value", add, "a")
	connect(t, b, "value", add, "b")
	connect(t, label, "out", label, "text")
	add.Data["note"] = "sum"
	g.SetNodePosition(add, Position{X: 5, Y: 6})

	cp := g.Copy()

	if cp.ID() == g.ID() || cp.Kind() != g.Kind() || cp.Name != g.Name {
		t.Errorf("copy identity: id=%s kind=%s name=%s", cp.ID(), cp.Kind(), cp.Name)
	}
	if cp.Meta["author"] != "ada" {
		t.Error("metadata not copied")
	}
	orig := g.Nodes()
	clones := cp.Nodes()
	if len(clones) != len(orig) {
		t.Fatalf("copy has %d nodes, want %d", len(clones), len(orig))
	}
	for i, c := range clones {
		if slices.Contains(orig, c) || c.ID() == orig[i].ID() {
			t.Errorf("clone %d is an original node", i)
		}
		if c.Owner() != cp.ID() {
			t.Errorf("clone %d Owner = %q", i, c.Owner())
		}
		if c.Type() != orig[i].Type() {
			t.Errorf("clone %d type = %s, want %s", i, c.Type(), orig[i].Type())
		}
	}

	ca, cb, cadd, clabel := clones[0], clones[1], clones[2], clones[3]
	for _, tc := range []struct {
		from *Node
		out  string
		to   *Node
		in   string
	}{
		{ca, "value", cadd, "a"},
		{cb, "value", cadd, "b"},
		{clabel, "out", clabel, "text"},
	} {
		p := mustPort(t, tc.from, tc.out)
		if !connected(t, tc.from, tc.out, tc.to, tc.in) {
			t.Errorf("%s.%s -> %s.%s not reproduced", tc.from.Type(), tc.out, tc.to.Type(), tc.in)
		}
		if p.ConnectionCount() != 1 {
			t.Errorf("%s.%s has %d connections, want 1", tc.from.Type(), tc.out, p.ConnectionCount())
		}
	}
	for _, c := range clones {
		for _, p := range c.Ports() {
			for _, q := range p.Connections() {
				if !cp.Contains(q.Node()) {
					t.Errorf("clone %s.%s points outside the copy", c.Type(), p.Name())
				}
			}
		}
	}

	if cadd.Data["note"] != "sum" || cp.NodePosition(cadd) != (Position{X: 5, Y: 6}) {
		t.Error("clone data or position not copied")
	}

	for _, tc := range []struct {
		from *Node
		out  string
		to   *Node
		in   string
	}{
		{a, "value", add, "a"},
		{b, "value", add, "b"},
		{label, "out", label, "text"},
	} {
		if !connected(t, tc.from, tc.out, tc.to, tc.in) {
			t.Errorf("original %s.%s -> %s.%s lost", tc.from.Type(), tc.out, tc.to.Type(), tc.in)
		}
	}
	if add.ConnectionCount() != 2 {
		t.Errorf("original add has %d connections, want 2", add.ConnectionCount())
	}
	mustValidate(t, ws)
}

func TestCopyRefNode(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	own := mustAdd(t, g, typeConst)
	r := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r)
	connect(t, own, "value", r, "a")

	cp := g.Copy()
	nodes := cp.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("copy has %d nodes, want 2", len(nodes))
	}
	if nodes[0] == own {
		t.Error("owned node was not cloned")
	}
	if nodes[1] != r {
		t.Error("ref node was cloned")
	}
	if !cp.IsRefNode(r) || r.Owner() != f.ID() {
		t.Error("ref node ownership changed")
	}
	if !connected(t, nodes[0], "value", r, "a") {
		t.Error("clone lost connection to the external ref node")
	}
	if !connected(t, own, "value", r, "a") {
		t.Error("original lost connection to the ref node")
	}
	if n := mustPort(t, r, "a").ConnectionCount(); n != 2 {
		t.Errorf("ref input has %d connections, want 2", n)
	}
	mustValidate(t, ws)
}

func TestCopyOverrideInput(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	src := mustAdd(t, g, typeConst)
	r := mustAdd(t, f, typeOutput)
	g.AddExistingNode(r)
	connect(t, src, "value", r, "value")

	inner := mustAdd(t, g, typeConst)
	out := mustAdd(t, g, typeOutput)
	connect(t, inner, "value", out, "value")

	cp := g.Copy()
	nodes := cp.Nodes()
	if len(nodes) != 4 {
		t.Fatalf("copy has %d nodes, want 4", len(nodes))
	}
	srcClone, innerClone, outClone := nodes[0], nodes[2], nodes[3]

	if n := mustPort(t, r, "value").ConnectionCount(); n != 1 {
		t.Errorf("external override input has %d connections, want 1", n)
	}
	if !connected(t, src, "value", r, "value") {
		t.Error("original lost its connection to the external override input")
	}
	if mustPort(t, srcClone, "value").IsConnected() {
		t.Error("clone was connected to an override input held by the original")
	}
	if n := mustPort(t, outClone, "value").ConnectionCount(); n != 1 {
		t.Errorf("cloned override input has %d connections, want 1", n)
	}
	if !connected(t, innerClone, "value", outClone, "value") {
		t.Error("internal override connection not reproduced between clones")
	}
	if !connected(t, inner, "value", out, "value") {
		t.Error("original internal override connection lost")
	}
	mustValidate(t, ws)
}

func TestCopyKeepsOriginalConnections(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	a := mustAdd(t, g, typeConst)
	b := mustAdd(t, g, typeConst)
	add := mustAdd(t, g, typeAdd)
	label := mustAdd(t, g, typeLabel)
	r := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r)
	connect(t, a, "value", add, "a")
	connect(t, b, "value", add, "b")
	connect(t, add, "sum", r, "a")
	connect(t, label, "out", label, "text")

	owned := g.OwnedNodes()
	before := make(map[NodeID]int, len(owned))
	for _, n := range owned {
		before[n.ID()] = n.ConnectionCount()
	}

	g.Copy()

	for _, n := range owned {
		if got := n.ConnectionCount(); got != before[n.ID()] {
			t.Errorf("%s has %d connections after Copy, want %d", n.Type(), got, before[n.ID()])
		}
	}
	if !connected(t, add, "sum", r, "a") {
		t.Error("original lost its connection to the ref node")
	}
	mustValidate(t, ws)
}

func TestCopySkipsDangling(t *testing.T) {
	ws, g := newTestGraph(t)
	f, _ := ws.NewGraph(kindPlain, "F")
	mustAdd(t, g, typeConst)
	r := mustAdd(t, f, typeAdd)
	g.AddExistingNode(r)
	if err := f.RemoveNode(r); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	cp := g.Copy()
	if cp.NodeCount() != 1 {
		t.Errorf("copy NodeCount = %d, want 1", cp.NodeCount())
	}
	mustValidate(t, ws)
}

func countID(ids []NodeID, id NodeID) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}
