package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/upstreamer/pkg/cache"
	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/extract/extractors"
	upio "github.com/matzehuels/upstreamer/pkg/io"
	"github.com/matzehuels/upstreamer/pkg/observability"
	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/source/local"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Runner executes runs with caching. The CLI and the API server both use
// it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is how long cached guesses live; zero means cache.TTLGuesses.
	TTL time.Duration
	// Concurrency bounds parallel artifact work; zero means unbounded.
	Concurrency int
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run loads, extracts and reconciles one project.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result := &Result{ID: uuid.NewString()}
	logger := r.Logger.With("run", result.ID[:8])

	// Phase 1: Load
	loadStart := time.Now()
	set, err := r.load(ctx, logger, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Artifacts = set.Labels()
	logger.Info("loaded artifacts",
		"count", len(set),
		"duration", result.Stats.LoadTime)

	// Phase 2: Extract
	extractStart := time.Now()
	primary, secondary := extract.Split(extract.Filter(extractors.All(), opts.Disabled))

	first, firstHits, err := r.stage(ctx, logger, primary, set, opts.Seed, opts.Refresh)
	if err != nil {
		return nil, err
	}
	refined := opts.Seed.Refine(reconcile.Reconcile(first))
	logger.Debug("refined context",
		"name", refined.Name,
		"homepage", refined.Homepage,
		"repository", refined.Repository.URL)

	second, secondHits, err := r.stage(ctx, logger, secondary, set, refined, opts.Refresh)
	if err != nil {
		return nil, err
	}
	derived := extract.Derive(secondary, refined)

	result.Guesses = slices.Concat(first, second, derived)
	result.CacheHits = mergeHits(firstHits, secondHits)
	result.Stats.ExtractTime = time.Since(extractStart)
	logger.Info("extracted guesses",
		"guesses", len(result.Guesses),
		"duration", result.Stats.ExtractTime)

	// Phase 3: Reconcile
	reconcileStart := time.Now()
	rec := reconcile.Reconcile(result.Guesses)
	if opts.MinimumCertainty > upstream.Unknown {
		rec = reconcile.FilterMinimum(rec, opts.MinimumCertainty)
	}
	result.Record = rec
	result.Problems = reconcile.Check(rec)
	result.Stats.ReconcileTime = time.Since(reconcileStart)
	observability.Pipeline().OnReconcile(ctx, len(result.Guesses), rec.Len(), result.Stats.ReconcileTime)
	logger.Info("reconciled",
		"fields", rec.Len(),
		"problems", len(result.Problems),
		"duration", result.Stats.ReconcileTime)

	return result, nil
}

func (r *Runner) load(ctx context.Context, logger *log.Logger, opts Options) (extract.Set, error) {
	if opts.Artifacts != nil {
		return opts.Artifacts, nil
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Dir)
	loader := &local.Loader{Logger: logger, Concurrency: r.Concurrency}
	set, err := loader.Load(ctx, opts.Dir)
	observability.Pipeline().OnLoadComplete(ctx, opts.Dir, len(set), time.Since(start), err)
	return set, err
}

// stage runs exs over every artifact of set, one goroutine per artifact,
// consulting the cache first. Results keep artifact order. hits records,
// per label, whether the artifact's guesses came from the cache; artifacts
// no extractor supports are absent.
func (r *Runner) stage(ctx context.Context, logger *log.Logger, exs []extract.Extractor, set extract.Set, ectx upstream.Context, refresh bool) ([]upstream.Guess, map[string]bool, error) {
	encodedCtx, err := json.Marshal(ectx)
	if err != nil {
		return nil, nil, err
	}

	type outcome struct {
		guesses []upstream.Guess
		ran     bool
		hit     bool
	}
	results := make([]outcome, len(set))

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, a := range set {
		supporting := supportingNames(exs, a)
		if len(supporting) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			guesses, hit := r.extractCached(gctx, logger, exs, a, ectx, supporting, string(encodedCtx), refresh)
			results[i] = outcome{guesses: guesses, ran: true, hit: hit}
			observability.Pipeline().OnExtract(gctx, a.Label(), len(guesses), hit, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []upstream.Guess
	hits := make(map[string]bool)
	for i, res := range results {
		if !res.ran {
			continue
		}
		out = append(out, res.guesses...)
		hits[set[i].Label()] = res.hit
	}
	return out, hits, nil
}

// extractCached answers from the cache when possible. Cache failures are
// logged and treated as misses.
func (r *Runner) extractCached(ctx context.Context, logger *log.Logger, exs []extract.Extractor, a extract.Artifact, ectx upstream.Context, names []string, encodedCtx string, refresh bool) ([]upstream.Guess, bool) {
	encoded, err := upio.MarshalArtifact(a)
	if err != nil {
		logger.Debug("artifact not cacheable", "label", a.Label(), "err", err)
		return extract.Apply(exs, a, ectx), false
	}
	key := r.Keyer.GuessKey(cache.GuessKeyOpts{
		Label:      a.Label(),
		Artifact:   encoded,
		Extractors: names,
		Context:    encodedCtx,
	})

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache read failed", "label", a.Label(), "err", err)
		case hit:
			var cached []upstream.Guess
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "guesses")
				logger.Debug("cache hit", "label", a.Label(), "guesses", len(cached))
				return cached, true
			}
			logger.Debug("discarding undecodable cache entry", "label", a.Label())
		}
		observability.Cache().OnCacheMiss(ctx, "guesses")
	}

	guesses := extract.Apply(exs, a, ectx)
	data, err := json.Marshal(guesses)
	if err != nil {
		return guesses, false
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLGuesses
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "label", a.Label(), "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "guesses", len(data))
	}
	return guesses, false
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func supportingNames(exs []extract.Extractor, a extract.Artifact) []string {
	var out []string
	for _, ex := range exs {
		if ex.Supports(a) {
			out = append(out, ex.Name())
		}
	}
	return out
}

func mergeHits(stages ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, s := range stages {
		for label, hit := range s {
			prev, seen := out[label]
			out[label] = hit && (!seen || prev)
		}
	}
	return out
}
