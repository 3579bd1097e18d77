package pipeline

import (
	"context"

	"github.com/matzehuels/nodegraph/pkg/cache"
	errs "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/render/nodelink"
)

// Render draws a graph as DOT source or SVG.
//
// SVG output is cached under a key derived from the DOT source, so an
// unchanged graph renders with Graphviz only once.
func (r *Runner) Render(ctx context.Context, name, graphID string, opts RenderOptions) ([]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "render")
	}
	_, g, err := r.loadGraph(ctx, name, graphID)
	if err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		return []byte(dot), nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{
		Format:   opts.Format,
		Detailed: opts.Detailed,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, opts.Format)
			r.Logger.Debug("render cache hit", "graph", graphID, "format", opts.Format)
			return data, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, opts.Format)
	}

	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render graph %s", graphID)
	}
	if err := r.Cache.Set(ctx, key, svg, r.ArtifactTTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, opts.Format, len(svg))
	}

	r.Logger.Info("rendered graph", "workspace", name, "graph", graphID, "format", opts.Format, "bytes", len(svg))
	return svg, nil
}
