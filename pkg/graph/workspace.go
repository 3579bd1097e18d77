package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

var (
	// ErrUnknownType is returned when a node type is not in the registry.
	ErrUnknownType = registry.ErrUnknownType

	// ErrUniqueNode is returned when a graph already owns a node of a type
	// marked Unique.
	ErrUniqueNode = errors.New("graph already owns a node of this unique type")

	// ErrRequiredNode is returned by [Graph.RemoveNode] when the node is the
	// last one of a type the graph kind requires.
	ErrRequiredNode = errors.New("node type is required by the graph")

	// ErrDuplicateNodeID is returned by [Workspace.RestoreNode] when the ID is taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateGraphID is returned by [Workspace.RestoreGraph] when the ID is taken.
	ErrDuplicateGraphID = errors.New("duplicate graph ID")

	// ErrInvalidID is returned when a restored node or graph has an empty ID.
	ErrInvalidID = errors.New("ID must not be empty")

	// ErrUnknownNode is returned when an endpoint references a node that is
	// not in the workspace.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned when an endpoint references a port the node
	// does not have.
	ErrUnknownPort = errors.New("unknown port")
)

// Option configures a Workspace.
type Option func(*Workspace)

// WithHost sets the host that receives destroyed nodes.
// A nil host keeps the default EditorHost.
func WithHost(h Host) Option {
	return func(w *Workspace) {
		if h != nil {
			w.host = h
		}
	}
}

// Workspace owns nodes and graphs by ID.
// The zero value is not usable - use NewWorkspace.
type Workspace struct {
	registry *registry.Registry
	host     Host

	nodes      map[NodeID]*Node
	nodeOrder  []NodeID
	graphs     map[GraphID]*Graph
	graphOrder []GraphID
}

// NewWorkspace creates an empty workspace whose nodes are built from reg.
// A nil registry is treated as an empty one.
func NewWorkspace(reg *registry.Registry, opts ...Option) *Workspace {
	if reg == nil {
		reg = registry.New()
	}
	w := &Workspace{
		registry: reg,
		host:     EditorHost{},
		nodes:    make(map[NodeID]*Node),
		graphs:   make(map[GraphID]*Graph),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the node-type registry.
func (w *Workspace) Registry() *registry.Registry { return w.registry }

// Host returns the workspace host.
func (w *Workspace) Host() Host { return w.host }

// NewGraph creates a graph of the given kind and adds one node of every type
// the kind requires.
func (w *Workspace) NewGraph(kind registry.Kind, name string) (*Graph, error) {
	g := w.newGraph(NewGraphID(), kind, name)
	for _, typ := range w.registry.Required(kind) {
		if _, err := g.AddNode(typ); err != nil {
			w.DestroyGraph(g)
			return nil, fmt.Errorf("add required node %s: %w", typ, err)
		}
	}
	return g, nil
}

func (w *Workspace) newGraph(id GraphID, kind registry.Kind, name string) *Graph {
	g := &Graph{
		id:        id,
		kind:      kind,
		Name:      name,
		Meta:      Metadata{},
		ws:        w,
		positions: make(map[NodeID]Position),
	}
	w.graphs[id] = g
	w.graphOrder = append(w.graphOrder, id)
	return g
}

// Graph returns the graph with the given ID.
func (w *Workspace) Graph(id GraphID) (*Graph, bool) {
	g, ok := w.graphs[id]
	return g, ok
}

// Graphs returns all graphs in creation order.
func (w *Workspace) Graphs() []*Graph {
	out := make([]*Graph, len(w.graphOrder))
	for i, id := range w.graphOrder {
		out[i] = w.graphs[id]
	}
	return out
}

// DestroyGraph clears g and removes it from the workspace.
// Nodes owned by g are destroyed; ref members are left to their owners.
func (w *Workspace) DestroyGraph(g *Graph) {
	if g == nil || w.graphs[g.id] != g {
		return
	}
	g.Clear()
	delete(w.graphs, g.id)
	w.graphOrder = slices.DeleteFunc(w.graphOrder, func(id GraphID) bool { return id == g.id })
}

// Node returns the node with the given ID, if it is still in the workspace.
func (w *Workspace) Node(id NodeID) (*Node, bool) {
	n, ok := w.nodes[id]
	return n, ok
}

// Nodes returns every node in the workspace in creation order.
func (w *Workspace) Nodes() []*Node {
	out := make([]*Node, len(w.nodeOrder))
	for i, id := range w.nodeOrder {
		out[i] = w.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes in the workspace.
func (w *Workspace) NodeCount() int { return len(w.nodes) }

// Instantiate constructs a detached node of the given type. The node has no
// owner and belongs to no graph until passed to [Graph.AddExistingNode].
func (w *Workspace) Instantiate(typ registry.TypeID) (*Node, error) {
	t, ok := w.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typ, ErrUnknownType)
	}
	n := newNode(NewNodeID(), t, "")
	w.register(n)
	return n, nil
}

// RestoreGraph recreates a graph with a known ID. Required nodes are not
// added; serializers restore them along with every other node.
func (w *Workspace) RestoreGraph(id GraphID, kind registry.Kind, name string) (*Graph, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if _, exists := w.graphs[id]; exists {
		return nil, fmt.Errorf("%s: %w", id, ErrDuplicateGraphID)
	}
	return w.newGraph(id, kind, name), nil
}

// RestoreNode recreates a node with a known ID and owner. The owner does not
// have to exist: a node whose owning graph is gone is a ref node everywhere.
// Membership is restored separately with [Graph.RestoreMember].
func (w *Workspace) RestoreNode(id NodeID, typ registry.TypeID, owner GraphID) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if _, exists := w.nodes[id]; exists {
		return nil, fmt.Errorf("%s: %w", id, ErrDuplicateNodeID)
	}
	t, ok := w.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typ, ErrUnknownType)
	}
	n := newNode(id, t, owner)
	w.register(n)
	return n, nil
}

// RestoreEdge reconnects two ports without direction or type checks.
// Restoring an existing connection is a no-op.
func (w *Workspace) RestoreEdge(a, b Endpoint) error {
	pa, err := w.resolve(a)
	if err != nil {
		return err
	}
	pb, err := w.resolve(b)
	if err != nil {
		return err
	}
	if pa == pb {
		return ErrSamePort
	}
	if !pa.IsConnectedTo(pb) {
		link(pa, pb)
	}
	return nil
}

// Port resolves an endpoint to a port.
func (w *Workspace) Port(e Endpoint) (*Port, bool) {
	p, err := w.resolve(e)
	return p, err == nil
}

func (w *Workspace) resolve(e Endpoint) (*Port, error) {
	n, ok := w.nodes[e.Node]
	if !ok {
		return nil, fmt.Errorf("%s: %w", e.Node, ErrUnknownNode)
	}
	p, ok := n.ports[e.Port]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", e.Node, e.Port, ErrUnknownPort)
	}
	return p, nil
}

func (w *Workspace) register(n *Node) {
	n.ws = w
	w.nodes[n.id] = n
	w.nodeOrder = append(w.nodeOrder, n.id)
}

// release forgets n. Its connections must already be cleared.
func (w *Workspace) release(n *Node) {
	if w.nodes[n.id] != n {
		return
	}
	delete(w.nodes, n.id)
	w.nodeOrder = slices.DeleteFunc(w.nodeOrder, func(id NodeID) bool { return id == n.id })
}

// destroy disconnects n, releases it and reports it to a live host.
func (w *Workspace) destroy(n *Node) {
	n.ClearConnections()
	w.release(n)
	if w.host.Live() {
		w.host.Destroy(n)
	}
}
