package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

// ErrNotDynamic is returned by [Node.RemoveDynamicPort] for static ports.
var ErrNotDynamic = errors.New("port is not dynamic")

// Node is a typed unit owning a set of named ports.
// Nodes are created by a Workspace or a Graph, never directly.
type Node struct {
	id    NodeID
	typ   registry.TypeID
	owner GraphID
	ws    *Workspace

	Name string   // display name; defaults to the type's display name
	Data Metadata // arbitrary node data, copied by CopyNode and Graph.Copy

	ports map[string]*Port
	order []string
}

func newNode(id NodeID, t *registry.NodeType, owner GraphID) *Node {
	n := &Node{
		id:    id,
		typ:   t.ID,
		owner: owner,
		Name:  t.DisplayName(),
		Data:  Metadata{},
		ports: make(map[string]*Port, len(t.Ports)),
	}
	for _, spec := range t.Ports {
		n.addPort(spec, false)
	}
	return n
}

func (n *Node) addPort(spec registry.PortSpec, dynamic bool) *Port {
	p := &Port{spec: spec, dynamic: dynamic, node: n}
	n.ports[spec.Name] = p
	n.order = append(n.order, spec.Name)
	return p
}

// ID returns the node's stable identity.
func (n *Node) ID() NodeID { return n.id }

// Type returns the node's registry type.
func (n *Node) Type() registry.TypeID { return n.typ }

// Owner returns the ID of the graph that owns the node, or "" while detached.
func (n *Node) Owner() GraphID { return n.owner }

// OwningGraph returns the owning graph if it still exists.
func (n *Node) OwningGraph() (*Graph, bool) {
	if n.ws == nil || n.owner == "" {
		return nil, false
	}
	return n.ws.Graph(n.owner)
}

// Workspace returns the workspace the node was created in.
func (n *Node) Workspace() *Workspace { return n.ws }

// Port returns the named port.
func (n *Node) Port(name string) (*Port, bool) {
	p, ok := n.ports[name]
	return p, ok
}

// Ports returns all ports: static ports in declaration order, then dynamic
// ports in the order they were added.
func (n *Node) Ports() []*Port {
	out := make([]*Port, len(n.order))
	for i, name := range n.order {
		out[i] = n.ports[name]
	}
	return out
}

// Inputs returns the node's input ports.
func (n *Node) Inputs() []*Port { return n.portsWhere(registry.Input) }

// Outputs returns the node's output ports.
func (n *Node) Outputs() []*Port { return n.portsWhere(registry.Output) }

func (n *Node) portsWhere(d registry.Direction) []*Port {
	var out []*Port
	for _, name := range n.order {
		if p := n.ports[name]; p.spec.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// AddDynamicPort adds a port that is not declared by the node type.
func (n *Node) AddDynamicPort(spec registry.PortSpec) (*Port, error) {
	if spec.Name == "" {
		return nil, registry.ErrInvalidPortName
	}
	if _, exists := n.ports[spec.Name]; exists {
		return nil, fmt.Errorf("%s: %w", spec.Name, registry.ErrDuplicatePort)
	}
	return n.addPort(spec, true), nil
}

// RemoveDynamicPort disconnects and removes a dynamic port.
// Removing a port that does not exist is a no-op.
func (n *Node) RemoveDynamicPort(name string) error {
	p, ok := n.ports[name]
	if !ok {
		return nil
	}
	if !p.dynamic {
		return fmt.Errorf("%s: %w", name, ErrNotDynamic)
	}
	p.ClearConnections()
	delete(n.ports, name)
	n.order = slices.DeleteFunc(n.order, func(s string) bool { return s == name })
	return nil
}

// ClearConnections disconnects every port from every partner.
func (n *Node) ClearConnections() {
	for _, name := range n.order {
		n.ports[name].ClearConnections()
	}
}

// ConnectionCount returns the number of connections across all ports.
func (n *Node) ConnectionCount() int {
	total := 0
	for _, p := range n.ports {
		total += len(p.edges)
	}
	return total
}

// clone copies the node's data and ports, without connections, under a new ID.
func (n *Node) clone(owner GraphID) *Node {
	c := &Node{
		id:    NewNodeID(),
		typ:   n.typ,
		owner: owner,
		Name:  n.Name,
		Data:  maps.Clone(n.Data),
		ports: make(map[string]*Port, len(n.ports)),
	}
	if c.Data == nil {
		c.Data = Metadata{}
	}
	for _, name := range n.order {
		p := n.ports[name]
		c.addPort(p.spec, p.dynamic)
	}
	return c
}

// copyConnectionsFrom gives every port of n a new edge to each partner of
// the same-named port of src. Partners for which skip reports true are left
// out.
func (n *Node) copyConnectionsFrom(src *Node, skip func(*Port) bool) {
	for _, name := range src.order {
		p := n.ports[name]
		for _, other := range src.ports[name].Connections() {
			if other == p || p.IsConnectedTo(other) || skip(other) {
				continue
			}
			link(p, other)
		}
	}
}
