package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

var (
	// ErrNilPort is returned by [Port.Connect] when the other port is nil.
	ErrNilPort = errors.New("port is nil")

	// ErrSamePort is returned when a port is connected to itself.
	ErrSamePort = errors.New("cannot connect a port to itself")

	// ErrSameDirection is returned when two inputs or two outputs are connected.
	ErrSameDirection = errors.New("cannot connect two ports of the same direction")

	// ErrTypeMismatch is returned when the ports' value types are incompatible.
	ErrTypeMismatch = errors.New("incompatible port value types")

	// ErrForeignWorkspace is returned when ports of different workspaces are connected.
	ErrForeignWorkspace = errors.New("ports belong to different workspaces")
)

// Endpoint identifies a port by node identity and port name.
type Endpoint struct {
	Node NodeID `json:"node" yaml:"node" bson:"node"`
	Port string `json:"port" yaml:"port" bson:"port"`
}

func (e Endpoint) String() string { return fmt.Sprintf("%s.%s", e.Node, e.Port) }

// Edge is one connection. Both connected ports hold the same *Edge, so a
// connection cannot exist on one side only.
type Edge struct {
	ends [2]Endpoint
}

// Ends returns the two endpoints in the order they were connected.
func (e *Edge) Ends() (Endpoint, Endpoint) { return e.ends[0], e.ends[1] }

func (e *Edge) other(self Endpoint) Endpoint {
	if e.ends[0] == self {
		return e.ends[1]
	}
	return e.ends[0]
}

func (e *Edge) replace(old, repl Endpoint) {
	if e.ends[0] == old {
		e.ends[0] = repl
	} else if e.ends[1] == old {
		e.ends[1] = repl
	}
}

// Port is a named connection point on a node.
type Port struct {
	spec    registry.PortSpec
	dynamic bool
	node    *Node
	edges   []*Edge
}

// Name returns the port name, unique within its node.
func (p *Port) Name() string { return p.spec.Name }

// Spec returns the port declaration.
func (p *Port) Spec() registry.PortSpec { return p.spec }

// Direction returns whether the port is an input or an output.
func (p *Port) Direction() registry.Direction { return p.spec.Direction }

// IsInput reports whether the port is an input.
func (p *Port) IsInput() bool { return p.spec.Direction == registry.Input }

// IsOutput reports whether the port is an output.
func (p *Port) IsOutput() bool { return p.spec.Direction == registry.Output }

// IsDynamic reports whether the port was added with [Node.AddDynamicPort].
func (p *Port) IsDynamic() bool { return p.dynamic }

// Node returns the node the port belongs to.
func (p *Port) Node() *Node { return p.node }

// Endpoint returns the port's node-ID/port-name reference.
func (p *Port) Endpoint() Endpoint { return Endpoint{Node: p.node.id, Port: p.spec.Name} }

// ConnectionCount returns the number of connections, including ones whose
// partner no longer resolves.
func (p *Port) ConnectionCount() int { return len(p.edges) }

// IsConnected reports whether the port has at least one connection.
func (p *Port) IsConnected() bool { return len(p.edges) > 0 }

// Connections returns the connected ports. The slice is a snapshot: callers
// may disconnect while iterating it. Partners that no longer resolve are
// skipped.
func (p *Port) Connections() []*Port {
	self := p.Endpoint()
	out := make([]*Port, 0, len(p.edges))
	for _, e := range p.edges {
		if q, ok := p.node.ws.Port(e.other(self)); ok {
			out = append(out, q)
		}
	}
	return out
}

// Endpoints returns the partner endpoints, whether or not they resolve.
func (p *Port) Endpoints() []Endpoint {
	self := p.Endpoint()
	out := make([]Endpoint, len(p.edges))
	for i, e := range p.edges {
		out[i] = e.other(self)
	}
	return out
}

// IsConnectedTo reports whether p and q share an edge.
func (p *Port) IsConnectedTo(q *Port) bool {
	if q == nil {
		return false
	}
	return p.edgeTo(q.Endpoint()) != nil
}

func (p *Port) edgeTo(target Endpoint) *Edge {
	self := p.Endpoint()
	for _, e := range p.edges {
		if e.other(self) == target {
			return e
		}
	}
	return nil
}

// Connect connects p and q. One must be an input and the other an output,
// with compatible value types. Connecting already connected ports is a
// no-op. An override port drops its existing connections first.
func (p *Port) Connect(q *Port) error {
	switch {
	case q == nil:
		return ErrNilPort
	case p == q:
		return ErrSamePort
	case p.node.ws != q.node.ws:
		return ErrForeignWorkspace
	case p.spec.Direction == q.spec.Direction:
		return fmt.Errorf("%s -> %s: %w", p.Endpoint(), q.Endpoint(), ErrSameDirection)
	case !registry.Compatible(p.spec, q.spec):
		return fmt.Errorf("%s (%s) -> %s (%s): %w",
			p.Endpoint(), p.spec.ValueType, q.Endpoint(), q.spec.ValueType, ErrTypeMismatch)
	}
	if p.IsConnectedTo(q) {
		return nil
	}
	if p.spec.Connection == registry.Override {
		p.ClearConnections()
	}
	if q.spec.Connection == registry.Override {
		q.ClearConnections()
	}
	link(p, q)
	return nil
}

// Disconnect removes the connection between p and q on both sides.
// It is a no-op if they are not connected.
func (p *Port) Disconnect(q *Port) {
	if q == nil {
		return
	}
	if e := p.edgeTo(q.Endpoint()); e != nil {
		p.node.ws.unlink(e)
	}
}

// ClearConnections disconnects p from every partner.
func (p *Port) ClearConnections() {
	for _, e := range slices.Clone(p.edges) {
		p.node.ws.unlink(e)
	}
}

// Redirect retargets connections that point into oldNodes to the node at
// the same index in newNodes, keeping the port name. The edge moves from the
// old partner port to the new one. An edge is dropped when the new node has
// no such port or when p is already connected to the new partner.
func (p *Port) Redirect(oldNodes, newNodes []*Node) {
	index := make(map[NodeID]int, len(oldNodes))
	for i, n := range oldNodes {
		if n != nil {
			index[n.id] = i
		}
	}
	self := p.Endpoint()
	for _, e := range slices.Clone(p.edges) {
		target := e.other(self)
		i, ok := index[target.Node]
		if !ok || i >= len(newNodes) || newNodes[i] == nil || newNodes[i].id == target.Node {
			continue
		}
		repl, ok := newNodes[i].ports[target.Port]
		if !ok || repl == p || p.IsConnectedTo(repl) {
			p.node.ws.unlink(e)
			continue
		}
		if old, ok := p.node.ws.Port(target); ok {
			old.removeEdge(e)
		}
		e.replace(target, repl.Endpoint())
		repl.edges = append(repl.edges, e)
	}
}

func (p *Port) removeEdge(e *Edge) {
	p.edges = slices.DeleteFunc(p.edges, func(x *Edge) bool { return x == e })
}

// link connects p and q with one shared edge.
func link(p, q *Port) *Edge {
	e := &Edge{ends: [2]Endpoint{p.Endpoint(), q.Endpoint()}}
	p.edges = append(p.edges, e)
	q.edges = append(q.edges, e)
	return e
}

// unlink removes e from both of its ports, or from the one that still resolves.
func (w *Workspace) unlink(e *Edge) {
	for _, end := range e.ends {
		if p, ok := w.Port(end); ok {
			p.removeEdge(e)
		}
	}
}
