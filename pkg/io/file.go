package io

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an encoding that is neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown document format")

// ParseFormat parses "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Marshal encodes ws in the given format.
func Marshal(ws *graph.Workspace, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJSON:
		err = WriteJSON(ws, &buf)
	case FormatYAML:
		err = WriteYAML(ws, &buf)
	default:
		return nil, fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data in the given format.
func Unmarshal(data []byte, f Format, reg *registry.Registry, opts ...graph.Option) (*graph.Workspace, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data), reg, opts...)
	case FormatYAML:
		return ReadYAML(bytes.NewReader(data), reg, opts...)
	}
	return nil, fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// ExportFile writes ws to path in the format given by its extension.
func ExportFile(ws *graph.Workspace, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(ws, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ImportFile reads a workspace from path in the format given by its extension.
func ImportFile(path string, reg *registry.Registry, opts ...graph.Option) (*graph.Workspace, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ws, err := Unmarshal(data, f, reg, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}
