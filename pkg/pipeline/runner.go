package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockgen/pkg/cache"
	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default expiry of cache entries when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means [cache.DefaultKeyer]; a nil cache disables caching.
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

// Execute runs generate → export.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	genStart := time.Now()
	d, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Diagram = d
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)
	result.CacheInfo.GenerateHit = hit

	r.Logger.Info("generated diagram",
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	exportStart := time.Now()
	artifacts, hash, hit, err := r.export(ctx, d, opts.ExportFormats(), opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.DiagramHash = hash
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = hit

	r.Logger.Info("exported diagram",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// GenerateWithCacheInfo builds the diagram for opts.Text and reports whether
// it came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (diagram.Diagram, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return diagram.Diagram{}, false, err
	}

	vocab, vocabHash := opts.Vocabulary, ""
	if vocab == nil {
		vocab = generate.DefaultVocabulary()
	} else if data, err := json.Marshal(vocab); err == nil {
		vocabHash = cache.Hash(data)
	}
	key := r.Keyer.DiagramKey(opts.Text, vocabHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if d, err := export.ImportJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cache.KeyTypeDiagram)
				return d, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeDiagram)
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, len(opts.Text))
	start := time.Now()
	d, _ := generate.GenerateWith(opts.Text, vocab, generate.BaseID)
	hooks.OnGenerateComplete(ctx, len(d.Nodes), len(d.Edges), time.Since(start))

	if data, err := export.JSON(d.Nodes, d.Edges); err == nil {
		r.store(ctx, key, cache.KeyTypeDiagram, data, r.ttl(cache.TTLDiagram))
	}
	return d, false, nil
}

// Generate is [Runner.GenerateWithCacheInfo] without the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (diagram.Diagram, error) {
	d, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return d, err
}

// ExportWithCacheInfo encodes d in every format of opts and reports whether
// all artifacts came from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) (map[export.Format][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.export(ctx, d, opts.ExportFormats(), opts.Refresh)
	return artifacts, hit, err
}

// Export is [Runner.ExportWithCacheInfo] without the cache hit info.
func (r *Runner) Export(ctx context.Context, d diagram.Diagram, opts Options) (map[export.Format][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

func (r *Runner) export(ctx context.Context, d diagram.Diagram, formats []export.Format, refresh bool) (map[export.Format][]byte, string, bool, error) {
	data, err := export.JSON(d.Nodes, d.Edges)
	if err != nil {
		return nil, "", false, err
	}
	hash := cache.Hash(data)

	artifacts := make(map[export.Format][]byte, len(formats))
	allHit := true
	for _, f := range formats {
		if ctx.Err() != nil {
			return nil, "", false, ctx.Err()
		}
		key := r.Keyer.ArtifactKey(hash, string(f))

		if !refresh {
			if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
				artifacts[f] = cached
				continue
			}
			observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
		}
		allHit = false

		out, err := r.exportOne(ctx, f, d, data)
		if err != nil {
			return nil, "", false, err
		}
		artifacts[f] = out
		r.store(ctx, key, cache.KeyTypeArtifact, out, r.ttl(cache.TTLArtifact))
	}
	return artifacts, hash, allHit && len(formats) > 0, nil
}

func (r *Runner) exportOne(ctx context.Context, f export.Format, d diagram.Diagram, jsonData []byte) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, string(f))
	start := time.Now()

	var out []byte
	var err error
	if f == export.FormatJSON {
		out = jsonData
	} else {
		out, err = export.Export(ctx, f, d.Nodes, d.Edges)
	}

	elapsed := time.Since(start)
	hooks.OnExportComplete(ctx, string(f), len(out), elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	r.Logger.Debug("exported format", "format", f, "bytes", len(out), "duration", elapsed)
	return out, nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
