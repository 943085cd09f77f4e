// Package pipeline runs whole-program conversions for the CLI and the HTTP
// API.
//
// The converter packages work on one tree or one grid at a time and never
// fail. This package adds the edges around them: it converts every network
// of a program, caches results by content hash, validates options, logs
// stage completion and lossy fallbacks, and emits observability hooks.
//
// # Stages
//
//  1. Forward: program → one grid per network ([Forward])
//  2. Reverse: grid document → one tree per network ([Reverse])
//  3. RoundTrip: Forward followed by Reverse, with a structural comparison
//     of each network against its normalized original ([RoundTrip])
//
// Each stage is available as a plain function and as a cached method on
// [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Forward(ctx, prog, pipeline.Options{IDs: "uuid"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, nw := range res.Document.Networks {
//	    fmt.Println(nw.Step, len(nw.Elements))
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultIDs is the identifier strategy used when Options.IDs is empty.
const DefaultIDs = ids.StrategySequential

// DefaultTTL is how long cached results are kept when the runner has no
// TTL configured.
const DefaultTTL = 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline call. It is accepted as JSON by the HTTP
// API.
type Options struct {
	// IDs names the identifier strategy: "sequential" or "uuid".
	IDs string `json:"ids,omitempty"`

	// SkipNormalize leaves reverse-built trees unnormalized
	// (default: false = normalize).
	SkipNormalize bool `json:"skip_normalize,omitempty"`

	// Refresh bypasses cached results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.IDs == "" {
		o.IDs = DefaultIDs
	}
	if !ids.ValidStrategy(o.IDs) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid ids: %q (must be one of: sequential, uuid)", o.IDs)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Normalize reports whether reverse results are normalized.
func (o *Options) Normalize() bool { return !o.SkipNormalize }

// ForwardKeyOpts returns cache key options for forward results.
func (o *Options) ForwardKeyOpts() cache.ForwardKeyOpts {
	return cache.ForwardKeyOpts{IDs: o.IDs}
}

// ReverseKeyOpts returns cache key options for reverse results.
func (o *Options) ReverseKeyOpts() cache.ReverseKeyOpts {
	return cache.ReverseKeyOpts{IDs: o.IDs, Normalize: o.Normalize()}
}

// =============================================================================
// Results
// =============================================================================

// Stats summarizes a pipeline call.
type Stats struct {
	Networks  int           `json:"networks"`
	Elements  int           `json:"elements"`
	Wires     int           `json:"wires"`
	Fallbacks int           `json:"fallbacks"`
	Dropped   int           `json:"dropped"`
	Duration  time.Duration `json:"duration_ns"`
}

// Fallback is a node placed with the substitute element kind because its
// opcode has no grid counterpart.
type Fallback struct {
	Step   int           `json:"step"`
	NodeID string        `json:"node_id,omitempty"`
	Opcode ladder.Opcode `json:"opcode"`
}

// ForwardResult is the output of a forward conversion.
type ForwardResult struct {
	// Document holds one grid per network, in program order.
	Document program.GridDocument `json:"document"`

	// ProgramHash is the SHA-256 of the canonical program encoding.
	ProgramHash string `json:"program_hash"`

	// Fallbacks lists lossy placements.
	Fallbacks []Fallback `json:"fallbacks,omitempty"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// ReverseNetwork is one reconstructed network.
type ReverseNetwork struct {
	Step    int    `json:"step"`
	Comment string `json:"comment,omitempty"`

	// Root is nil when the grid held no convertible element.
	Root ladder.Node `json:"-"`

	// Dropped lists the IDs of elements that did not convert to a node.
	Dropped []string `json:"dropped,omitempty"`
}

// ReverseResult is the output of a reverse conversion.
type ReverseResult struct {
	Name     string           `json:"name,omitempty"`
	Networks []ReverseNetwork `json:"networks"`
	GridHash string           `json:"grid_hash"`
	Stats    Stats            `json:"stats"`
	CacheHit bool             `json:"cache_hit"`
}

// Program returns the reconstructed networks as a program.
func (r *ReverseResult) Program() ladder.Program {
	p := ladder.Program{Name: r.Name, Networks: make([]ladder.Network, 0, len(r.Networks))}
	for _, nw := range r.Networks {
		ln := ladder.Network{Step: nw.Step, Comment: nw.Comment}
		if nw.Root != nil {
			ln.Nodes = []ladder.Node{nw.Root}
		}
		p.Networks = append(p.Networks, ln)
	}
	return p
}

// RoundTripResult pairs a forward and a reverse conversion of the same
// program.
type RoundTripResult struct {
	Forward *ForwardResult `json:"forward"`
	Reverse *ReverseResult `json:"reverse"`

	// Equivalent reports, per network, whether the rebuilt tree matches
	// the normalized original structurally.
	Equivalent []bool `json:"equivalent"`
}

// Lossless reports whether every network survived the round trip.
func (r *RoundTripResult) Lossless() bool {
	for _, ok := range r.Equivalent {
		if !ok {
			return false
		}
	}
	return true
}
