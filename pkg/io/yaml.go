package io

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

// WriteYAML encodes ws as YAML and writes it to w.
func WriteYAML(ws *graph.Workspace, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Encode(ws)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a YAML document from r. ReadYAML does not close r.
func ReadYAML(r io.Reader, reg *registry.Registry, opts ...graph.Option) (*graph.Workspace, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Decode(doc, reg, opts...)
}
