package registry

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidTypeID is returned by [Registry.Register] when the type ID is empty.
	ErrInvalidTypeID = errors.New("node type ID must not be empty")

	// ErrDuplicateType is returned by [Registry.Register] when a type with the
	// same ID is already registered.
	ErrDuplicateType = errors.New("duplicate node type")

	// ErrUnknownType is returned when a type ID is not registered.
	ErrUnknownType = errors.New("unknown node type")

	// ErrInvalidPortName is returned when a port spec has an empty name.
	ErrInvalidPortName = errors.New("port name must not be empty")

	// ErrDuplicatePort is returned when two ports of one node share a name.
	ErrDuplicatePort = errors.New("duplicate port name")

	// ErrInvalidKind is returned by [Registry.RegisterGraph] when the kind is empty.
	ErrInvalidKind = errors.New("graph kind must not be empty")

	// ErrDuplicateKind is returned by [Registry.RegisterGraph] when the kind
	// is already registered.
	ErrDuplicateKind = errors.New("duplicate graph kind")
)

// TypeID identifies a node type.
type TypeID string

// Kind identifies a graph type.
type Kind string

// Direction is the flow direction of a port.
type Direction int

const (
	// Input ports receive connections from output ports.
	Input Direction = iota
	// Output ports feed input ports.
	Output
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// ParseDirection parses "input" or "output".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	}
	return Input, fmt.Errorf("invalid port direction %q", s)
}

// ConnectionType controls how many connections a port accepts.
type ConnectionType int

const (
	// Multiple ports accept any number of connections.
	Multiple ConnectionType = iota
	// Override ports hold at most one connection; connecting replaces it.
	Override
)

// String returns "multiple" or "override".
func (c ConnectionType) String() string {
	if c == Override {
		return "override"
	}
	return "multiple"
}

// ParseConnectionType parses "multiple" or "override". An empty string is
// treated as Multiple.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch s {
	case "", "multiple":
		return Multiple, nil
	case "override":
		return Override, nil
	}
	return Multiple, fmt.Errorf("invalid connection type %q", s)
}

// AnyType is the value type that is compatible with every other value type.
const AnyType = "any"

// PortSpec declares a port.
type PortSpec struct {
	Name       string
	Direction  Direction
	ValueType  string // empty or AnyType accepts anything
	Connection ConnectionType
}

// Compatible reports whether values of port a may flow into port b.
func Compatible(a, b PortSpec) bool {
	if a.ValueType == "" || b.ValueType == "" {
		return true
	}
	if a.ValueType == AnyType || b.ValueType == AnyType {
		return true
	}
	return a.ValueType == b.ValueType
}

// NodeType declares a constructible node type.
type NodeType struct {
	ID    TypeID
	Name  string // display name; defaults to ID
	Ports []PortSpec

	// Unique forbids a graph from owning more than one node of this type.
	Unique bool
}

// DisplayName returns Name if set, otherwise the ID.
func (t *NodeType) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return string(t.ID)
}

// Port returns the spec of the named static port.
func (t *NodeType) Port(name string) (PortSpec, bool) {
	for _, p := range t.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return PortSpec{}, false
}

// GraphType declares a graph kind and the node types it requires.
type GraphType struct {
	Kind     Kind
	Required []TypeID
}

// Registry is the catalog of node types and graph kinds.
// The zero value is not usable - use New.
type Registry struct {
	types  map[TypeID]*NodeType
	order  []TypeID
	graphs map[Kind]*GraphType
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		types:  make(map[TypeID]*NodeType),
		graphs: make(map[Kind]*GraphType),
	}
}

// Register adds a node type. The type's port list is copied.
func (r *Registry) Register(t NodeType) error {
	if t.ID == "" {
		return ErrInvalidTypeID
	}
	if _, exists := r.types[t.ID]; exists {
		return fmt.Errorf("%s: %w", t.ID, ErrDuplicateType)
	}
	if err := ValidatePorts(t.Ports); err != nil {
		return fmt.Errorf("%s: %w", t.ID, err)
	}
	t.Ports = slices.Clone(t.Ports)
	r.types[t.ID] = &t
	r.order = append(r.order, t.ID)
	return nil
}

// ValidatePorts checks that every port has a non-empty, unique name.
func ValidatePorts(ports []PortSpec) error {
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p.Name == "" {
			return ErrInvalidPortName
		}
		if seen[p.Name] {
			return fmt.Errorf("%s: %w", p.Name, ErrDuplicatePort)
		}
		seen[p.Name] = true
	}
	return nil
}

// RegisterGraph adds a graph kind. Every required type must already be
// registered.
func (r *Registry) RegisterGraph(gt GraphType) error {
	if gt.Kind == "" {
		return ErrInvalidKind
	}
	if _, exists := r.graphs[gt.Kind]; exists {
		return fmt.Errorf("%s: %w", gt.Kind, ErrDuplicateKind)
	}
	for _, id := range gt.Required {
		if _, ok := r.types[id]; !ok {
			return fmt.Errorf("graph %s requires %s: %w", gt.Kind, id, ErrUnknownType)
		}
	}
	gt.Required = slices.Clone(gt.Required)
	r.graphs[gt.Kind] = &gt
	return nil
}

// Lookup returns the node type with the given ID.
func (r *Registry) Lookup(id TypeID) (*NodeType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Types returns all node types in registration order.
func (r *Registry) Types() []*NodeType {
	out := make([]*NodeType, len(r.order))
	for i, id := range r.order {
		out[i] = r.types[id]
	}
	return out
}

// GraphType returns the graph kind declaration, if any.
func (r *Registry) GraphType(kind Kind) (*GraphType, bool) {
	gt, ok := r.graphs[kind]
	return gt, ok
}

// Kinds returns all registered graph kinds, sorted.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.graphs))
	for k := range r.graphs {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Required returns the node types required by a graph kind. Unknown kinds
// require nothing.
func (r *Registry) Required(kind Kind) []TypeID {
	if gt, ok := r.graphs[kind]; ok {
		return gt.Required
	}
	return nil
}

// IsRequired reports whether graphs of the given kind must contain a node of
// the given type.
func (r *Registry) IsRequired(kind Kind, id TypeID) bool {
	return slices.Contains(r.Required(kind), id)
}
