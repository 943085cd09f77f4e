package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/convert"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/observability"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// Reverse rebuilds one tree per network of doc.
func Reverse(ctx context.Context, doc program.GridDocument, opts Options) (*ReverseResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Convert()
	stats := documentStats(doc)
	hooks.OnReverseStart(ctx, stats.Elements)
	start := time.Now()

	data, err := program.MarshalGridDocument(doc)
	if err != nil {
		hooks.OnReverseComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}

	res := &ReverseResult{Name: doc.Name, GridHash: cache.Hash(data)}
	for _, nw := range doc.Networks {
		if err := ctx.Err(); err != nil {
			hooks.OnReverseComplete(ctx, 0, time.Since(start), err)
			return nil, err
		}
		s := nw.Snapshot()
		rec := convert.ReverseDetailed(s.ElementMap(), s.Wires,
			convert.WithIDGenerator(ids.New(opts.IDs)),
			convert.WithNormalize(opts.Normalize()))
		for _, id := range rec.Dropped {
			opts.Logger.Warn("element has no tree counterpart, dropped", "step", nw.Step, "element", id)
		}
		opts.Logger.Debug("reconstructed network",
			"step", nw.Step,
			"rows", len(rec.Rows),
			"groups", len(rec.Groups))
		res.Networks = append(res.Networks, ReverseNetwork{
			Step:    nw.Step,
			Comment: nw.Comment,
			Root:    rec.Root,
			Dropped: rec.Dropped,
		})
		stats.Dropped += len(rec.Dropped)
	}

	stats.Duration = time.Since(start)
	res.Stats = stats
	hooks.OnReverseComplete(ctx, stats.Dropped, stats.Duration, nil)
	return res, nil
}
