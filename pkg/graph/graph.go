package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/registry"
)

// ErrNilNode is returned when a nil node is passed where one is required.
var ErrNilNode = errors.New("node is nil")

// Graph is an ordered set of member nodes plus their editor positions.
// Members are either owned by the graph or ref nodes owned elsewhere.
type Graph struct {
	id   GraphID
	kind registry.Kind
	ws   *Workspace

	Name string
	Meta Metadata

	members   []NodeID
	positions map[NodeID]Position
}

// ID returns the graph's stable identity.
func (g *Graph) ID() GraphID { return g.id }

// Kind returns the graph kind used to look up required node types.
func (g *Graph) Kind() registry.Kind { return g.kind }

// Workspace returns the workspace the graph lives in.
func (g *Graph) Workspace() *Workspace { return g.ws }

// AddNode constructs a node of the given type owned by g and appends it.
func (g *Graph) AddNode(typ registry.TypeID) (*Node, error) {
	t, ok := g.ws.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typ, ErrUnknownType)
	}
	if t.Unique && g.ownsType(typ) {
		return nil, fmt.Errorf("%s: %w", typ, ErrUniqueNode)
	}
	n := newNode(NewNodeID(), t, g.id)
	g.ws.register(n)
	g.members = append(g.members, n.id)
	return n, nil
}

// AddExistingNode appends n if it is not already a member. Connections are
// left alone. A detached node is adopted by g; a node owned by another graph
// stays owned there and becomes a ref node of g.
func (g *Graph) AddExistingNode(n *Node) {
	if n == nil || g.Contains(n) {
		return
	}
	if n.ws != g.ws {
		return
	}
	if n.owner == "" {
		n.owner = g.id
	}
	g.members = append(g.members, n.id)
}

// CopyNode appends a clone of original owned by g. The clone has the same
// type, name, data and ports, and no connections.
func (g *Graph) CopyNode(original *Node) (*Node, error) {
	if original == nil {
		return nil, ErrNilNode
	}
	if t, ok := g.ws.registry.Lookup(original.typ); ok && t.Unique && g.ownsType(t.ID) {
		return nil, fmt.Errorf("%s: %w", t.ID, ErrUniqueNode)
	}
	c := original.clone(g.id)
	g.ws.register(c)
	g.members = append(g.members, c.id)
	return c, nil
}

// CanRemove reports whether RemoveNode would remove n. The last owned node
// of a type required by the graph kind cannot be removed.
func (g *Graph) CanRemove(n *Node) bool {
	if n == nil || g.IsRefNode(n) || !g.ws.registry.IsRequired(g.kind, n.typ) {
		return true
	}
	count := 0
	for _, m := range g.OwnedNodes() {
		if m.typ == n.typ {
			count++
		}
	}
	return count > 1
}

// RemoveNode disconnects n from every partner, drops it from g, releases it
// from the workspace and destroys it if the host is live.
//
// Ref nodes are never destroyed by a graph that does not own them; they are
// handed to RemoveRefNode. Removing a non-member is a no-op. Removing the
// last node of a required type fails with ErrRequiredNode.
func (g *Graph) RemoveNode(n *Node) error {
	if n == nil || !g.Contains(n) {
		return nil
	}
	if g.IsRefNode(n) {
		g.RemoveRefNode(n)
		return nil
	}
	if !g.CanRemove(n) {
		return fmt.Errorf("%s (%s): %w", n.id, n.typ, ErrRequiredNode)
	}
	g.drop(n.id)
	g.ws.destroy(n)
	return nil
}

// RemoveRefNode drops n from g without destroying it. Only the connections
// between n and g's own (non-ref) members are removed; connections between
// ref nodes belong to their owners and are kept. A node owned by g is not a
// ref node and is left alone; use RemoveNode for it.
func (g *Graph) RemoveRefNode(n *Node) {
	if n == nil || !g.IsRefNode(n) {
		return
	}
	for _, p := range n.Ports() {
		for _, q := range p.Connections() {
			other := q.node
			if g.Contains(other) && !g.IsRefNode(other) {
				p.Disconnect(q)
			}
		}
	}
	g.drop(n.id)
}

// IsRefNode reports whether n is owned by a graph other than g.
func (g *Graph) IsRefNode(n *Node) bool {
	if n == nil {
		return false
	}
	return n.owner != g.id
}

// PurgeOrphanRefNodes drops dangling member IDs and positions, then removes
// ref nodes that no member feeds. A ref node is an orphan when none of its
// input ports is connected to a current member. Removing an orphan can
// orphan another ref node, so passes repeat until one removes nothing. Each
// pass judges every ref node against the membership at the start of the
// pass. It returns the number of ref nodes removed.
func (g *Graph) PurgeOrphanRefNodes() int {
	g.stripDangling()

	removed := 0
	for {
		var orphans []*Node
		for _, n := range g.RefNodes() {
			if !g.reachable(n) {
				orphans = append(orphans, n)
			}
		}
		if len(orphans) == 0 {
			return removed
		}
		for _, n := range orphans {
			g.RemoveRefNode(n)
		}
		removed += len(orphans)
	}
}

func (g *Graph) stripDangling() {
	g.members = slices.DeleteFunc(g.members, func(id NodeID) bool {
		_, ok := g.ws.nodes[id]
		return !ok
	})
	maps.DeleteFunc(g.positions, func(id NodeID, _ Position) bool {
		_, ok := g.ws.nodes[id]
		return !ok
	})
}

func (g *Graph) reachable(n *Node) bool {
	for _, p := range n.Inputs() {
		for _, q := range p.Connections() {
			if g.Contains(q.node) {
				return true
			}
		}
	}
	return false
}

// Clear destroys every node g owns and empties the graph. Ref members are
// dropped without being destroyed.
func (g *Graph) Clear() {
	for _, n := range g.OwnedNodes() {
		g.ws.destroy(n)
	}
	g.members = nil
	g.positions = make(map[NodeID]Position)
}

// Copy returns a deep copy of g in the same workspace.
//
// Owned members are cloned; ref members are kept as references to the same
// foreign nodes. Connections between owned members are reproduced between
// the clones. Connections to nodes outside the cloned set are reproduced to
// the original external node, unless the external port is an override port,
// which keeps its single connection to the original. Dangling members are
// skipped. The owned members of g keep their connections as they were;
// only external partners gain a connection to each clone.
func (g *Graph) Copy() *Graph {
	ng := g.ws.newGraph(NewGraphID(), g.kind, g.Name)
	ng.Meta = maps.Clone(g.Meta)
	if ng.Meta == nil {
		ng.Meta = Metadata{}
	}

	// Partners on owned members are redirected to their clones below.
	heldOverride := func(q *Port) bool {
		return q.spec.Connection == registry.Override && !(g.Contains(q.node) && !g.IsRefNode(q.node))
	}

	var oldNodes, newNodes, clones []*Node
	for _, id := range g.members {
		n, ok := g.ws.nodes[id]
		if !ok {
			continue
		}
		m := n
		if !g.IsRefNode(n) {
			m = n.clone(ng.id)
			g.ws.register(m)
			m.copyConnectionsFrom(n, heldOverride)
			clones = append(clones, m)
		}
		oldNodes = append(oldNodes, n)
		newNodes = append(newNodes, m)
		ng.members = append(ng.members, m.id)
		if pos, ok := g.positions[id]; ok {
			ng.positions[m.id] = pos
		}
	}

	for _, c := range clones {
		for _, p := range c.Ports() {
			p.Redirect(oldNodes, newNodes)
		}
	}
	return ng
}

// Nodes returns the live members in membership order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.members))
	for _, id := range g.members {
		if n, ok := g.ws.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// NodeIDs returns the raw membership, including dangling IDs.
func (g *Graph) NodeIDs() []NodeID { return slices.Clone(g.members) }

// NodeCount returns the number of member IDs, including dangling ones.
func (g *Graph) NodeCount() int { return len(g.members) }

// Contains reports whether n is a member of g.
func (g *Graph) Contains(n *Node) bool {
	return n != nil && slices.Contains(g.members, n.id)
}

// RefNodes returns the live members owned by other graphs.
func (g *Graph) RefNodes() []*Node {
	return slices.DeleteFunc(g.Nodes(), func(n *Node) bool { return !g.IsRefNode(n) })
}

// OwnedNodes returns the live members owned by g.
func (g *Graph) OwnedNodes() []*Node {
	return slices.DeleteFunc(g.Nodes(), g.IsRefNode)
}

// SetNodePosition records the editor position of n.
func (g *Graph) SetNodePosition(n *Node, pos Position) {
	if n == nil {
		return
	}
	g.positions[n.id] = pos
}

// NodePosition returns the recorded position of n, or the zero position.
func (g *Graph) NodePosition(n *Node) Position {
	if n == nil {
		return Position{}
	}
	return g.positions[n.id]
}

// Positions returns a copy of the position table.
func (g *Graph) Positions() map[NodeID]Position { return maps.Clone(g.positions) }

// RestoreMember appends a member ID without checking that the node exists.
// Serializers use it to rebuild membership, including dangling entries.
func (g *Graph) RestoreMember(id NodeID) {
	if slices.Contains(g.members, id) {
		return
	}
	g.members = append(g.members, id)
}

// RestorePosition records a position by node ID.
func (g *Graph) RestorePosition(id NodeID, pos Position) { g.positions[id] = pos }

func (g *Graph) drop(id NodeID) {
	g.members = slices.DeleteFunc(g.members, func(m NodeID) bool { return m == id })
	delete(g.positions, id)
}

func (g *Graph) ownsType(typ registry.TypeID) bool {
	for _, n := range g.OwnedNodes() {
		if n.typ == typ {
			return true
		}
	}
	return false
}
