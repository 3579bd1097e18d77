package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

// WriteJSON encodes ws as indented JSON and writes it to w.
func WriteJSON(ws *graph.Workspace, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(ws)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader, reg *registry.Registry, opts ...graph.Option) (*graph.Workspace, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Decode(doc, reg, opts...)
}
