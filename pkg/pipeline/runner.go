package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutmap/pkg/cache"
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/layout"
	"github.com/matzehuels/mutmap/pkg/observability"
	"github.com/matzehuels/mutmap/pkg/overlay"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → overlay → render pipeline.
//
// Structural failures (duplicate ids, unknown layout ids, inconsistent
// layouts) abort the run. An unplaced mutation does not unless
// Options.OverlayStrict is set: it is reported in Result.Overlay and the graph
// is returned unannotated.
func (r *Runner) Execute(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, len(in.Records))
	ped, err := pedigree.BuildGraph(in.Records)
	result.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, personCount(ped), result.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Pedigree = ped
	result.Stats.Persons = ped.PersonCount()

	r.Logger.Info("built pedigree",
		"persons", ped.PersonCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, in.Layout.Rows())
	g, err := layout.Build(ped, in.Layout, opts.LayoutOptions())
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, result.Stats.LayoutTime, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	hooks.OnLayoutComplete(ctx, len(g.Nodes), len(g.Links), result.Stats.LayoutTime, nil)
	result.Graph = g
	result.Stats.Marriages = ped.MarriageCount()
	result.Stats.Nodes = len(g.Nodes)
	result.Stats.Links = len(g.Links)

	r.Logger.Info("mapped layout",
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"marriages", ped.MarriageCount(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Overlay
	if in.Variants != nil {
		overlayStart := time.Now()
		hooks.OnOverlayStart(ctx, len(in.Variants.Header.SampleNames))
		report, err := overlay.Apply(ctx, ped, in.Variants, opts.OverlayOptions())
		result.Stats.OverlayTime = time.Since(overlayStart)
		hooks.OnOverlayComplete(ctx, report.Applied, len(report.Unmatched), result.Stats.OverlayTime, err)
		if err != nil {
			if errors.IsFatal(err) || opts.OverlayStrict {
				return nil, fmt.Errorf("overlay: %w", err)
			}
			r.Logger.Warn("mutation not placed", "reason", errors.Detail(err))
		}
		result.Overlay = report

		if report.Applied {
			r.Logger.Info("applied mutation overlay",
				"owner", report.OwnerID(),
				"mutation", report.Mutation,
				"annotated", len(report.Annotated),
				"unmatched", len(report.Unmatched),
				"duration", result.Stats.OverlayTime)
		}
	}

	// Compute graph hash for cache keys and API responses
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// graphHash keys the cache; an empty hash is computed from g.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	if graphHash == "" {
		data, err := graph.MarshalGraph(g)
		if err != nil {
			return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
		}
		graphHash = cache.Hash(data)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("artifact not cached", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func personCount(g *pedigree.Graph) int {
	if g == nil {
		return 0
	}
	return g.PersonCount()
}
