package pipeline

import (
	"context"
	goerrors "errors"
	"time"

	errs "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/registry"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// Create adds a graph of the given kind to a workspace, creating the
// workspace when it does not exist yet.
func (r *Runner) Create(ctx context.Context, name string, kind registry.Kind, graphName string) (*graph.Graph, error) {
	if _, ok := r.Registry.GraphType(kind); !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown graph kind %q", kind)
	}
	if err := errs.ValidateName(graphName); err != nil {
		return nil, err
	}

	ws, err := r.Load(ctx, name)
	if errs.Is(err, errs.ErrCodeWorkspaceNotFound) {
		ws, err = r.New(), nil
		r.Logger.Info("creating workspace", "workspace", name)
	}
	if err != nil {
		return nil, err
	}

	g, err := ws.NewGraph(kind, graphName)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRegistry, err, "create %s graph", kind)
	}
	if err := r.Save(ctx, name, ws); err != nil {
		return nil, err
	}

	r.Logger.Info("created graph", "workspace", name, "graph", g.ID(), "kind", kind, "nodes", g.NodeCount())
	return g, nil
}

// Import reads a JSON or YAML document from path and stores it under name,
// replacing any existing workspace of that name.
func (r *Runner) Import(ctx context.Context, name, path string) (*graph.Workspace, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "workspace %q", name)
	}
	ws, err := ngio.ImportFile(path, r.Registry, graph.WithHost(r.Host))
	if err != nil {
		return nil, importError(err, path)
	}
	if err := r.Save(ctx, name, ws); err != nil {
		return nil, err
	}

	r.Logger.Info("imported workspace", "workspace", name, "path", path, "graphs", len(ws.Graphs()), "nodes", ws.NodeCount())
	return ws, nil
}

func importError(err error, path string) error {
	switch {
	case goerrors.Is(err, ngio.ErrUnknownFormat):
		return errs.Wrap(errs.ErrCodeUnsupported, err, "import %s", path)
	case goerrors.Is(err, registry.ErrUnknownType):
		return errs.Wrap(errs.ErrCodeInvalidRegistry, err, "import %s", path)
	}
	return errs.Wrap(errs.ErrCodeInvalidFormat, err, "import %s", path)
}

// Export writes a stored workspace to path. The extension picks the format.
func (r *Runner) Export(ctx context.Context, name, path string) error {
	ws, err := r.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := ngio.ExportFile(ws, path); err != nil {
		if goerrors.Is(err, ngio.ErrUnknownFormat) {
			return errs.Wrap(errs.ErrCodeUnsupported, err, "export %s", path)
		}
		return errs.Wrap(errs.ErrCodeInternal, err, "export %s", path)
	}

	r.Logger.Info("exported workspace", "workspace", name, "path", path)
	return nil
}

// Purge removes orphan ref nodes from one graph, or from every graph of the
// workspace when graphID is empty. It returns the number of nodes removed.
// The workspace is saved only when orphans or dangling entries were removed.
func (r *Runner) Purge(ctx context.Context, name, graphID string) (int, error) {
	var (
		ws     *graph.Workspace
		graphs []*graph.Graph
		err    error
	)
	if graphID == "" {
		ws, err = r.Load(ctx, name)
		if err != nil {
			return 0, err
		}
		graphs = ws.Graphs()
	} else {
		var g *graph.Graph
		ws, g, err = r.loadGraph(ctx, name, graphID)
		if err != nil {
			return 0, err
		}
		graphs = []*graph.Graph{g}
	}

	total, changed := 0, false
	for _, g := range graphs {
		members, positions := g.NodeCount(), len(g.Positions())
		start := time.Now()
		removed := g.PurgeOrphanRefNodes()
		observability.Graph().OnPurge(ctx, name, string(g.ID()), removed, time.Since(start))
		if removed > 0 {
			r.Logger.Info("purged orphan ref nodes", "workspace", name, "graph", g.ID(), "removed", removed)
		}
		// Dangling members and positions are stripped even when no ref node goes.
		if removed > 0 || g.NodeCount() != members || len(g.Positions()) != positions {
			changed = true
		}
		total += removed
	}

	if !changed {
		r.Logger.Debug("nothing to purge", "workspace", name)
		return 0, nil
	}
	if err := r.Save(ctx, name, ws); err != nil {
		return 0, err
	}
	return total, nil
}

// Copy duplicates a graph inside its workspace and returns the copy.
func (r *Runner) Copy(ctx context.Context, name, graphID string) (*graph.Graph, error) {
	ws, g, err := r.loadGraph(ctx, name, graphID)
	if err != nil {
		return nil, err
	}
	cp := g.Copy()
	observability.Graph().OnCopy(ctx, name, graphID, string(cp.ID()), cp.NodeCount())
	if err := r.Save(ctx, name, ws); err != nil {
		return nil, err
	}

	r.Logger.Info("copied graph", "workspace", name, "graph", graphID, "copy", cp.ID(), "nodes", cp.NodeCount())
	return cp, nil
}

// RemoveNode removes a member node from a graph. Ref nodes are detached
// from the graph; owned nodes are destroyed.
func (r *Runner) RemoveNode(ctx context.Context, name, graphID, nodeID string) (err error) {
	defer func() {
		observability.Graph().OnRemove(ctx, name, graphID, nodeID, err)
	}()

	if err := errs.ValidateID("node", nodeID); err != nil {
		return err
	}
	ws, g, err := r.loadGraph(ctx, name, graphID)
	if err != nil {
		return err
	}
	n, ok := ws.Node(graph.NodeID(nodeID))
	if !ok || !g.Contains(n) {
		return errs.New(errs.ErrCodeNodeNotFound, "node %q not found in graph %s", nodeID, graphID)
	}
	ref := g.IsRefNode(n)
	if err := g.RemoveNode(n); err != nil {
		if goerrors.Is(err, graph.ErrRequiredNode) {
			return errs.Wrap(errs.ErrCodeRequiredNode, err, "remove %s node %s", n.Type(), nodeID)
		}
		return errs.Wrap(errs.ErrCodeInternal, err, "remove node %s", nodeID)
	}
	if err := r.Save(ctx, name, ws); err != nil {
		return err
	}

	r.Logger.Info("removed node", "workspace", name, "graph", graphID, "node", nodeID, "ref", ref)
	return nil
}

// Validate checks the connection invariants of a stored workspace.
func (r *Runner) Validate(ctx context.Context, name string) error {
	ws, err := r.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := ws.Validate(); err != nil {
		r.Logger.Warn("workspace failed validation", "workspace", name, "err", err)
		return errs.Wrap(errs.ErrCodeCorruptGraph, err, "workspace %s", name)
	}
	return nil
}

// Stats summarizes a stored workspace.
func (r *Runner) Stats(ctx context.Context, name string) (Stats, error) {
	ws, err := r.Load(ctx, name)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(name, ws), nil
}

// Summarize counts the graphs, nodes and edges of ws. Each edge is counted
// once, from its output side.
func Summarize(name string, ws *graph.Workspace) Stats {
	s := Stats{Workspace: name, Nodes: ws.NodeCount()}
	for _, n := range ws.Nodes() {
		s.Edges += outgoing(n)
	}
	for _, g := range ws.Graphs() {
		gs := GraphStats{
			ID:       string(g.ID()),
			Kind:     string(g.Kind()),
			Name:     g.Name,
			Nodes:    g.NodeCount(),
			RefNodes: len(g.RefNodes()),
		}
		for _, n := range g.Nodes() {
			gs.Edges += outgoing(n)
		}
		s.Graphs = append(s.Graphs, gs)
	}
	return s
}

func outgoing(n *graph.Node) int {
	count := 0
	for _, p := range n.Outputs() {
		count += p.ConnectionCount()
	}
	return count
}
