package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/observability"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// Cache key types reported to observability hooks.
const (
	keyTypeForward = "forward"
	keyTypeReverse = "reverse"
)

// Runner executes pipeline stages with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-call state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached results. Zero uses DefaultTTL.
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

// Forward converts prog, serving the result from cache when possible.
func (r *Runner) Forward(ctx context.Context, prog ladder.Program, opts Options) (*ForwardResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := program.MarshalProgram(prog)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ForwardKey(cache.Hash(data), opts.ForwardKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.load(ctx, keyTypeForward, key); ok {
			var res ForwardResult
			if err := json.Unmarshal(cached, &res); err == nil {
				res.CacheHit = true
				opts.Logger.Debug("forward result from cache", "networks", len(res.Document.Networks))
				return &res, nil
			}
		}
	}

	res, err := Forward(ctx, prog, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("converted program",
		"networks", res.Stats.Networks,
		"elements", res.Stats.Elements,
		"wires", res.Stats.Wires,
		"fallbacks", res.Stats.Fallbacks,
		"duration", res.Stats.Duration)

	r.store(ctx, keyTypeForward, key, res)
	return res, nil
}

// reverseEntry is the cached form of a ReverseResult. Trees are stored in
// the program codec because ladder nodes do not marshal on their own.
type reverseEntry struct {
	Program  program.Program `json:"program"`
	Dropped  [][]string      `json:"dropped"`
	GridHash string          `json:"grid_hash"`
	Stats    Stats           `json:"stats"`
}

// Reverse rebuilds trees from doc, serving the result from cache when
// possible.
func (r *Runner) Reverse(ctx context.Context, doc program.GridDocument, opts Options) (*ReverseResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := program.MarshalGridDocument(doc)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ReverseKey(cache.Hash(data), opts.ReverseKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.load(ctx, keyTypeReverse, key); ok {
			if res, err := decodeReverse(cached); err == nil {
				opts.Logger.Debug("reverse result from cache", "networks", len(res.Networks))
				return res, nil
			}
		}
	}

	res, err := Reverse(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("reconstructed program",
		"networks", len(res.Networks),
		"dropped", res.Stats.Dropped,
		"duration", res.Stats.Duration)

	entry := reverseEntry{
		Program:  program.FromProgram(res.Program()),
		GridHash: res.GridHash,
		Stats:    res.Stats,
	}
	for _, nw := range res.Networks {
		entry.Dropped = append(entry.Dropped, nw.Dropped)
	}
	r.store(ctx, keyTypeReverse, key, entry)
	return res, nil
}

func decodeReverse(data []byte) (*ReverseResult, error) {
	var entry reverseEntry
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}
	prog, err := entry.Program.ToProgram()
	if err != nil {
		return nil, err
	}
	if len(entry.Dropped) != len(prog.Networks) {
		return nil, fmt.Errorf("cached reverse entry: %d dropped lists for %d networks", len(entry.Dropped), len(prog.Networks))
	}
	res := &ReverseResult{Name: prog.Name, GridHash: entry.GridHash, Stats: entry.Stats, CacheHit: true}
	for i, nw := range prog.Networks {
		res.Networks = append(res.Networks, ReverseNetwork{
			Step:    nw.Step,
			Comment: nw.Comment,
			Root:    nw.Root(),
			Dropped: entry.Dropped[i],
		})
	}
	return res, nil
}

// RoundTrip runs Forward then Reverse on prog and compares each network
// against its original.
func (r *Runner) RoundTrip(ctx context.Context, prog ladder.Program, opts Options) (*RoundTripResult, error) {
	fwd, err := r.Forward(ctx, prog, opts)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	rev, err := r.Reverse(ctx, fwd.Document, opts)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	res := &RoundTripResult{Forward: fwd, Reverse: rev, Equivalent: compareNetworks(prog, rev)}
	if !res.Lossless() {
		r.Logger.Warn("round trip changed program structure", "networks", len(prog.Networks))
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) load(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store caches v. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "key", key, "err", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
