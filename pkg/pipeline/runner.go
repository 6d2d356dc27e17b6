package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kleviz/pkg/cache"
	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/observability"
)

// Input is one layout to render. Name identifies it in logs, hooks and
// batch results; Data holds KLE JSON or raw data.
type Input struct {
	Name string
	Data []byte
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Name string

	// Keyboard and Viewport are nil/zero when every artifact came from the
	// cache.
	Keyboard *kle.Keyboard
	Viewport layout.Viewport

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeyCount      int
	LoadTime      time.Duration
	NormalizeTime time.Duration
	RenderTime    time.Duration
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; several goroutines may share one, as
// the HTTP service does.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to stored artifacts; zero selects cache.TTLArtifact.
	TTL time.Duration
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

// Execute loads, normalizes and renders one layout. Artifacts are looked up
// by the content hash of in.Data plus the render options; only when every
// requested format is cached does the run skip parsing.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := cache.Hash(in.Data)
	result := &Result{Name: in.Name}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, hash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			opts.Logger.Debug("served from cache", "layout", in.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	hooks := observability.Pipeline()

	// Stage 1: Load
	start := time.Now()
	hooks.OnLoadStart(ctx, in.Name)
	kb, err := kle.Parse(in.Data)
	result.Stats.LoadTime = time.Since(start)
	keyCount := 0
	if kb != nil {
		keyCount = len(kb.Keys)
	}
	hooks.OnLoadComplete(ctx, in.Name, keyCount, result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	result.Keyboard = kb
	result.Stats.KeyCount = keyCount

	// Stage 2: Normalize
	start = time.Now()
	hooks.OnNormalizeStart(ctx, in.Name, keyCount)
	vp, err := layout.Normalize(kb, opts.PaddingValue())
	result.Stats.NormalizeTime = time.Since(start)
	hooks.OnNormalizeComplete(ctx, in.Name, vp.Width, vp.Height, result.Stats.NormalizeTime, err)
	if err != nil {
		return nil, err
	}
	result.Viewport = vp

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	start = time.Now()
	hooks.OnRenderStart(ctx, in.Name, opts.Formats)
	artifacts, err := RenderNormalized(kb, vp, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, in.Name, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	r.store(ctx, hash, opts, artifacts)

	opts.Logger.Debug("rendered layout",
		"layout", in.Name,
		"keys", keyCount,
		"viewport", fmt.Sprintf("%gx%g", vp.Width, vp.Height),
		"duration", result.Stats.LoadTime+result.Stats.NormalizeTime+result.Stats.RenderTime)

	return result, nil
}

// cached returns every requested artifact, or false if any is missing.
func (r *Runner) cached(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

// store writes artifacts to the cache. Failures are logged, not returned:
// the render itself succeeded.
func (r *Runner) store(ctx context.Context, hash string, opts Options, artifacts map[string][]byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	hooks := observability.Cache()
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}
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
