package pipeline

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/cache"
	errs "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/registry"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// Runner executes workspace operations with storage and caching.
// Both CLI and API use this to avoid duplicating load/save logic.
//
// The Runner holds no workspace state between calls. Each operation works
// on a freshly decoded workspace, so the graph core stays single-threaded
// as long as callers do not share workspaces across goroutines.
type Runner struct {
	Store    store.Store
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *registry.Registry
	Logger   *log.Logger

	// Host is attached to every loaded workspace. Nil is an EditorHost.
	Host graph.Host

	// ArtifactTTL is the cache lifetime of rendered SVGs.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner.
// If st is nil, a MemoryStore is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(st store.Store, c cache.Cache, reg *registry.Registry, logger *log.Logger) *Runner {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if reg == nil {
		reg = registry.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:       st,
		Cache:       c,
		Keyer:       cache.NewDefaultKeyer(),
		Registry:    reg,
		Logger:      logger,
		ArtifactTTL: DefaultArtifactTTL,
	}
}

// New creates an empty workspace bound to the runner's registry and host.
func (r *Runner) New() *graph.Workspace {
	return graph.NewWorkspace(r.Registry, graph.WithHost(r.Host))
}

// List returns the stored workspace names in sorted order.
func (r *Runner) List(ctx context.Context) ([]string, error) {
	names, err := r.Store.List(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list workspaces")
	}
	return names, nil
}

// Load reads and decodes a stored workspace.
func (r *Runner) Load(ctx context.Context, name string) (ws *graph.Workspace, err error) {
	start := time.Now()
	defer func() {
		count := 0
		if ws != nil {
			count = ws.NodeCount()
		}
		observability.Graph().OnLoad(ctx, name, count, time.Since(start), err)
	}()

	if err := store.ValidateName(name); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "workspace %q", name)
	}
	data, err := r.Store.Get(ctx, name)
	if goerrors.Is(err, store.ErrNotFound) {
		return nil, errs.New(errs.ErrCodeWorkspaceNotFound, "workspace %q not found", name)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "load workspace %s", name)
	}
	ws, err = ngio.Unmarshal(data, ngio.FormatJSON, r.Registry, graph.WithHost(r.Host))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode workspace %s", name)
	}

	r.Logger.Debug("loaded workspace", "workspace", name, "graphs", len(ws.Graphs()), "nodes", ws.NodeCount())
	return ws, nil
}

// Save encodes ws and writes it to the store under name.
func (r *Runner) Save(ctx context.Context, name string, ws *graph.Workspace) (err error) {
	start := time.Now()
	size := 0
	defer func() {
		observability.Graph().OnSave(ctx, name, size, time.Since(start), err)
	}()

	if err := store.ValidateName(name); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "workspace %q", name)
	}
	data, err := ngio.Marshal(ws, ngio.FormatJSON)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode workspace %s", name)
	}
	size = len(data)
	if err := r.Store.Put(ctx, name, data); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save workspace %s", name)
	}

	r.Logger.Debug("saved workspace", "workspace", name, "bytes", size)
	return nil
}

// Delete removes a stored workspace. Deleting a missing workspace is not an error.
func (r *Runner) Delete(ctx context.Context, name string) error {
	if err := store.ValidateName(name); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "workspace %q", name)
	}
	if err := r.Store.Delete(ctx, name); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete workspace %s", name)
	}
	r.Logger.Info("deleted workspace", "workspace", name)
	return nil
}

// Close releases the store and the cache.
func (r *Runner) Close() error {
	var closeErrs []error
	if r.Store != nil {
		closeErrs = append(closeErrs, r.Store.Close())
	}
	if r.Cache != nil {
		closeErrs = append(closeErrs, r.Cache.Close())
	}
	return goerrors.Join(closeErrs...)
}

// loadGraph loads a workspace and looks up one of its graphs.
func (r *Runner) loadGraph(ctx context.Context, name, graphID string) (*graph.Workspace, *graph.Graph, error) {
	if err := errs.ValidateID("graph", graphID); err != nil {
		return nil, nil, err
	}
	ws, err := r.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	g, ok := ws.Graph(graph.GraphID(graphID))
	if !ok {
		return nil, nil, errs.New(errs.ErrCodeGraphNotFound, "graph %q not found in workspace %s", graphID, name)
	}
	return ws, g, nil
}
