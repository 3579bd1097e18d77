// Package pipeline runs workspace operations against a store and a cache.
//
// This package is the single entry point shared by the CLI and the HTTP API.
// Every operation loads a workspace document from the [store.Store], applies
// one graph operation, and writes the document back when it changed. Errors
// are returned as coded [errs.Error] values so callers can map them to exit
// messages or HTTP statuses.
//
// # Usage
//
//	runner := pipeline.NewRunner(st, c, reg, logger)
//	defer runner.Close()
//
//	g, err := runner.Create(ctx, "demo", "math", "main")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	removed, err := runner.Purge(ctx, "demo", "")
//
// Rendering:
//
//	svg, err := runner.Render(ctx, "demo", string(g.ID()), pipeline.RenderOptions{
//	    Format: pipeline.FormatSVG,
//	})
package pipeline

import (
	"fmt"
	"time"
)

// Format constants for render outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// DefaultArtifactTTL is how long rendered SVGs stay cached.
const DefaultArtifactTTL = 24 * time.Hour

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	// Format is FormatDOT or FormatSVG. Empty means FormatSVG.
	Format string `json:"format,omitempty"`

	// Detailed adds port types and positions to node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`
}

// SetDefaults fills in empty fields.
func (o *RenderOptions) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatSVG
	}
}

// Stats summarizes a workspace.
type Stats struct {
	Workspace string       `json:"workspace"`
	Graphs    []GraphStats `json:"graphs"`
	Nodes     int          `json:"nodes"`
	Edges     int          `json:"edges"`
}

// GraphStats summarizes one graph.
type GraphStats struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Nodes    int    `json:"nodes"`
	RefNodes int    `json:"ref_nodes"`
	Edges    int    `json:"edges"`
}
