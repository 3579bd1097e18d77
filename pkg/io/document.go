package io

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

// Version is the document format version written by [Encode].
const Version = 1

// ErrUnsupportedVersion is returned when a document has a version this
// package cannot read.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Document is the serialized form of a workspace.
type Document struct {
	Version int     `json:"version" yaml:"version" bson:"version"`
	Graphs  []Graph `json:"graphs" yaml:"graphs" bson:"graphs"`
	Nodes   []Node  `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges   []Edge  `json:"edges" yaml:"edges" bson:"edges"`
}

// Graph is a serialized graph. Members keep their order.
type Graph struct {
	ID        string         `json:"id" yaml:"id" bson:"id"`
	Kind      string         `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Meta      graph.Metadata `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
	Members   []string       `json:"members" yaml:"members" bson:"members"`
	Positions []Position     `json:"positions,omitempty" yaml:"positions,omitempty" bson:"positions,omitempty"`
}

// Position is one entry of a graph's position table.
type Position struct {
	Node string  `json:"node" yaml:"node" bson:"node"`
	X    float64 `json:"x" yaml:"x" bson:"x"`
	Y    float64 `json:"y" yaml:"y" bson:"y"`
}

// Node is a serialized node.
type Node struct {
	ID    string         `json:"id" yaml:"id" bson:"id"`
	Type  string         `json:"type" yaml:"type" bson:"type"`
	Owner string         `json:"owner,omitempty" yaml:"owner,omitempty" bson:"owner,omitempty"`
	Name  string         `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Data  graph.Metadata `json:"data,omitempty" yaml:"data,omitempty" bson:"data,omitempty"`
	Ports []Port         `json:"ports,omitempty" yaml:"ports,omitempty" bson:"ports,omitempty"`
}

// Port is a serialized dynamic port.
type Port struct {
	Name       string `json:"name" yaml:"name" bson:"name"`
	Direction  string `json:"direction" yaml:"direction" bson:"direction"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Connection string `json:"connection,omitempty" yaml:"connection,omitempty" bson:"connection,omitempty"`
}

// Edge is a serialized connection.
type Edge struct {
	From graph.Endpoint `json:"from" yaml:"from" bson:"from"`
	To   graph.Endpoint `json:"to" yaml:"to" bson:"to"`
}

// Encode converts ws into a document. Graphs and nodes keep workspace
// order; each connection appears once.
func Encode(ws *graph.Workspace) Document {
	doc := Document{
		Version: Version,
		Graphs:  make([]Graph, 0, len(ws.Graphs())),
		Nodes:   make([]Node, 0, ws.NodeCount()),
		Edges:   []Edge{},
	}

	for _, g := range ws.Graphs() {
		doc.Graphs = append(doc.Graphs, encodeGraph(g))
	}

	seen := make(map[[2]graph.Endpoint]bool)
	for _, n := range ws.Nodes() {
		doc.Nodes = append(doc.Nodes, encodeNode(n))
		for _, p := range n.Ports() {
			for _, other := range p.Endpoints() {
				from, to := p.Endpoint(), other
				if p.IsInput() {
					if q, ok := ws.Port(other); ok && q.IsOutput() {
						from, to = other, p.Endpoint()
					}
				}
				if seen[[2]graph.Endpoint{from, to}] || seen[[2]graph.Endpoint{to, from}] {
					continue
				}
				seen[[2]graph.Endpoint{from, to}] = true
				doc.Edges = append(doc.Edges, Edge{From: from, To: to})
			}
		}
	}
	return doc
}

func encodeGraph(g *graph.Graph) Graph {
	out := Graph{
		ID:      string(g.ID()),
		Kind:    string(g.Kind()),
		Name:    g.Name,
		Members: make([]string, 0, g.NodeCount()),
	}
	if len(g.Meta) > 0 {
		out.Meta = maps.Clone(g.Meta)
	}

	positions := g.Positions()
	for _, id := range g.NodeIDs() {
		out.Members = append(out.Members, string(id))
		if pos, ok := positions[id]; ok {
			out.Positions = append(out.Positions, Position{Node: string(id), X: pos.X, Y: pos.Y})
			delete(positions, id)
		}
	}
	// Positions of non-members are kept, in a stable order.
	for _, id := range slices.Sorted(maps.Keys(positions)) {
		pos := positions[id]
		out.Positions = append(out.Positions, Position{Node: string(id), X: pos.X, Y: pos.Y})
	}
	return out
}

func encodeNode(n *graph.Node) Node {
	out := Node{
		ID:    string(n.ID()),
		Type:  string(n.Type()),
		Owner: string(n.Owner()),
		Name:  n.Name,
	}
	if len(n.Data) > 0 {
		out.Data = maps.Clone(n.Data)
	}
	for _, p := range n.Ports() {
		if !p.IsDynamic() {
			continue
		}
		spec := p.Spec()
		port := Port{Name: spec.Name, Direction: spec.Direction.String(), Type: spec.ValueType}
		if spec.Connection != registry.Multiple {
			port.Connection = spec.Connection.String()
		}
		out.Ports = append(out.Ports, port)
	}
	return out
}

// Decode rebuilds a workspace from doc using reg for node types. A version of
// zero is read as the current version.
func Decode(doc Document, reg *registry.Registry, opts ...graph.Option) (*graph.Workspace, error) {
	if doc.Version != 0 && doc.Version != Version {
		return nil, fmt.Errorf("version %d: %w", doc.Version, ErrUnsupportedVersion)
	}

	ws := graph.NewWorkspace(reg, opts...)
	for _, dg := range doc.Graphs {
		g, err := ws.RestoreGraph(graph.GraphID(dg.ID), registry.Kind(dg.Kind), dg.Name)
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", dg.ID, err)
		}
		if len(dg.Meta) > 0 {
			g.Meta = maps.Clone(dg.Meta)
		}
		for _, id := range dg.Members {
			g.RestoreMember(graph.NodeID(id))
		}
		for _, pos := range dg.Positions {
			g.RestorePosition(graph.NodeID(pos.Node), graph.Position{X: pos.X, Y: pos.Y})
		}
	}

	for _, dn := range doc.Nodes {
		if err := decodeNode(ws, dn); err != nil {
			return nil, fmt.Errorf("node %s: %w", dn.ID, err)
		}
	}

	for _, de := range doc.Edges {
		_, fromOK := ws.Node(de.From.Node)
		_, toOK := ws.Node(de.To.Node)
		if !fromOK || !toOK {
			continue
		}
		if err := ws.RestoreEdge(de.From, de.To); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", de.From, de.To, err)
		}
	}
	return ws, nil
}

func decodeNode(ws *graph.Workspace, dn Node) error {
	n, err := ws.RestoreNode(graph.NodeID(dn.ID), registry.TypeID(dn.Type), graph.GraphID(dn.Owner))
	if err != nil {
		return err
	}
	if dn.Name != "" {
		n.Name = dn.Name
	}
	if len(dn.Data) > 0 {
		n.Data = maps.Clone(dn.Data)
	}
	for _, dp := range dn.Ports {
		dir, err := registry.ParseDirection(dp.Direction)
		if err != nil {
			return fmt.Errorf("port %s: %w", dp.Name, err)
		}
		conn, err := registry.ParseConnectionType(dp.Connection)
		if err != nil {
			return fmt.Errorf("port %s: %w", dp.Name, err)
		}
		spec := registry.PortSpec{Name: dp.Name, Direction: dir, ValueType: dp.Type, Connection: conn}
		if _, err := n.AddDynamicPort(spec); err != nil {
			return err
		}
	}
	return nil
}
