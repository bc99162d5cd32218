package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/selfmap/pkg/cache"
	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer uses
// [cache.DefaultKeyer]; a nil logger uses log.Default.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute lays out and renders m.
func (r *Runner) Execute(ctx context.Context, m *identity.Map, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	result := &Result{Data: m, DataHash: cache.Hash(data)}
	result.Stats.Entries = m.Len()
	if out := m.OutOfRange(); len(out) > 0 {
		r.Logger.Warn("strengths outside 0-10 are drawn as given", "categories", out)
	}

	layoutStart := time.Now()
	points, hit, err := r.LayoutWithCacheInfo(ctx, m, result.DataHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Points = points
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Debug("computed layout", "role", opts.Role, "mode", opts.Mode, "points", len(points), "cached", hit)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, points, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered chart",
		"role", opts.Role,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of m, keyed by its content hash.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, m *identity.Map, dataHash string, opts Options) ([]layout.Point, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(dataHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := UnmarshalLayout(data); err == nil {
				return l.ToPoints(), true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Mode, m.Len())
	start := time.Now()
	points := GenerateLayout(m, opts)
	hooks.OnLayoutComplete(ctx, opts.Mode, time.Since(start), nil)

	if data, err := MarshalLayout(ExportLayout(points, opts)); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("layout cache write failed", "error", err)
		}
	}
	return points, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit.
func (r *Runner) Layout(ctx context.Context, m *identity.Map, opts Options) ([]layout.Point, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	points, _, err := r.LayoutWithCacheInfo(ctx, m, cache.Hash(data), opts)
	return points, err
}

// RenderWithCacheInfo renders points, serving all formats from cache when
// every one of them is present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, points []layout.Point, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := MarshalLayout(ExportLayout(points, opts))
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	if opts.Cacheable() {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, points, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if opts.Links == nil {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				r.Logger.Debug("artifact cache write failed", "format", format, "error", err)
			}
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit.
func (r *Runner) Render(ctx context.Context, points []layout.Point, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, points, opts)
	return artifacts, err
}

// Expand returns the drill-down detail map of category generated with seed.
// Equal seeds yield equal maps, so results are cached by category and seed.
func (r *Runner) Expand(ctx context.Context, category string, seed uint64) (*identity.Map, error) {
	key := r.Keyer.DrillKey(category, seed)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if m, err := identity.ReadJSON(bytes.NewReader(data)); err == nil {
			return m, nil
		}
	}

	detail := drilldown.NewSeeded(seed).Detail(category)
	if !drilldown.Known(category) {
		r.Logger.Debug("no curated aspects, using placeholders", "category", category)
	}
	data, err := detail.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDrill); err != nil {
		r.Logger.Debug("drill cache write failed", "error", err)
	}
	return detail, nil
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
