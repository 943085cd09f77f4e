package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/ladder/transform"
)

// RoundTrip converts prog to grids and back without caching.
func RoundTrip(ctx context.Context, prog ladder.Program, opts Options) (*RoundTripResult, error) {
	fwd, err := Forward(ctx, prog, opts)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	rev, err := Reverse(ctx, fwd.Document, opts)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	return &RoundTripResult{Forward: fwd, Reverse: rev, Equivalent: compareNetworks(prog, rev)}, nil
}

// compareNetworks reports, per network, whether the rebuilt tree matches
// the normalized original. Rebuilt trees are normalized before comparison
// so SkipNormalize does not affect the verdict.
func compareNetworks(prog ladder.Program, rev *ReverseResult) []bool {
	out := make([]bool, len(prog.Networks))
	for i, nw := range prog.Networks {
		if i >= len(rev.Networks) {
			break
		}
		want := transform.Normalize(nw.Root())
		got := transform.Normalize(rev.Networks[i].Root)
		out[i] = ladder.Equivalent(want, got)
	}
	return out
}
