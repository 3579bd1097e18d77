package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingConnection is returned by [Workspace.Validate] when an edge
	// points at a node or port that does not exist.
	ErrDanglingConnection = errors.New("connection to missing port")

	// ErrAsymmetricConnection is returned when an edge is held by one port but
	// not by its partner.
	ErrAsymmetricConnection = errors.New("connection is not symmetric")

	// ErrDuplicateConnection is returned when two edges join the same ports.
	ErrDuplicateConnection = errors.New("duplicate connection")
)

// Validate checks every edge in the workspace. Each edge must resolve on both
// ends, be held by both of its ports, and be the only edge between the pair.
// It returns nil for any state built through the public API.
func (w *Workspace) Validate() error {
	var errs []error
	for _, n := range w.Nodes() {
		for _, p := range n.Ports() {
			if err := w.validatePort(p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (w *Workspace) validatePort(p *Port) error {
	self := p.Endpoint()
	seen := make(map[Endpoint]bool, len(p.edges))
	for _, e := range p.edges {
		if e.ends[0] != self && e.ends[1] != self {
			return fmt.Errorf("%s: edge %s-%s: %w", self, e.ends[0], e.ends[1], ErrAsymmetricConnection)
		}
		other := e.other(self)
		if seen[other] {
			return fmt.Errorf("%s -> %s: %w", self, other, ErrDuplicateConnection)
		}
		seen[other] = true

		q, ok := w.Port(other)
		if !ok {
			return fmt.Errorf("%s -> %s: %w", self, other, ErrDanglingConnection)
		}
		if !q.holds(e) {
			return fmt.Errorf("%s -> %s: %w", self, other, ErrAsymmetricConnection)
		}
	}
	return nil
}

func (p *Port) holds(e *Edge) bool {
	for _, x := range p.edges {
		if x == e {
			return true
		}
	}
	return false
}
