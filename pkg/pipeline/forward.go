package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/convert"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/mapping"
	"github.com/matzehuels/laddergrid/pkg/observability"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// Forward converts every network of prog into a grid. Each network gets
// its own identifier generator and is laid out as an implicit series.
func Forward(ctx context.Context, prog ladder.Program, opts Options) (*ForwardResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Convert()
	hooks.OnForwardStart(ctx, len(prog.Networks))
	start := time.Now()

	data, err := program.MarshalProgram(prog)
	if err != nil {
		hooks.OnForwardComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	res := &ForwardResult{
		Document:    program.GridDocument{Name: prog.Name},
		ProgramHash: cache.Hash(data),
	}
	for _, nw := range prog.Networks {
		if err := ctx.Err(); err != nil {
			hooks.OnForwardComplete(ctx, 0, 0, time.Since(start), err)
			return nil, err
		}
		gr := convert.ConvertNetwork(nw.Nodes, convert.WithIDGenerator(ids.New(opts.IDs)))
		res.Document.Networks = append(res.Document.Networks, program.GridNetwork{
			Step:             nw.Step,
			Comment:          nw.Comment,
			ConversionResult: gr,
		})
		res.Fallbacks = append(res.Fallbacks, fallbacks(nw)...)
	}
	for _, fb := range res.Fallbacks {
		hooks.OnFallback(ctx, string(fb.Opcode))
		opts.Logger.Warn("no grid element for opcode, placed as fallback",
			"step", fb.Step,
			"node", fb.NodeID,
			"opcode", fb.Opcode,
			"kind", mapping.Fallback)
	}

	res.Stats = documentStats(res.Document)
	res.Stats.Fallbacks = len(res.Fallbacks)
	res.Stats.Duration = time.Since(start)
	hooks.OnForwardComplete(ctx, res.Stats.Elements, res.Stats.Wires, res.Stats.Duration, nil)
	return res, nil
}

// fallbacks lists the leaves of nw that have no grid counterpart.
func fallbacks(nw ladder.Network) []Fallback {
	var out []Fallback
	for _, n := range nw.Nodes {
		for _, leaf := range ladder.Flatten(n) {
			if _, ok := mapping.KindOf(leaf); !ok {
				out = append(out, Fallback{Step: nw.Step, NodeID: leaf.NodeID(), Opcode: ladder.OpcodeOf(leaf)})
			}
		}
	}
	return out
}

func documentStats(doc program.GridDocument) Stats {
	s := Stats{Networks: len(doc.Networks)}
	for _, nw := range doc.Networks {
		s.Elements += len(nw.Elements)
		s.Wires += len(nw.Wires)
	}
	return s
}
