package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
	"github.com/matzehuels/laddergrid/pkg/program"
	"github.com/matzehuels/laddergrid/pkg/render/dot"
)

type dotOpts struct {
	network int
	grid    bool
	svg     bool
	output  string
}

func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot [program.json]",
		Short: "Export a network as Graphviz DOT or SVG",
		Long: `Export one network of a program as a Graphviz graph.

By default the logic tree is drawn: AND boxes for series blocks, OR ellipses
for parallel blocks and one node per instruction. With --grid the network is
placed first and its elements are drawn at their grid positions, joined by
their wires.

With --svg the graph is laid out and rendered to SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(log.WithContext(cmd.Context(), c.Logger), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.network, "network", "n", 0, "index of the network to export")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the placed grid instead of the tree")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, w io.Writer, input string, opts dotOpts) error {
	prog, err := program.ReadProgramFile(input)
	if err != nil {
		return fmt.Errorf("load program %s: %w", input, err)
	}
	if opts.network < 0 || opts.network >= len(prog.Networks) {
		return errors.New(errors.ErrCodeInvalidInput, "network %d out of range (program has %d)", opts.network, len(prog.Networks))
	}
	nw := prog.Networks[opts.network]

	var src string
	if opts.grid {
		res, err := pipeline.Forward(ctx, ladder.Program{Networks: []ladder.Network{nw}}, pipeline.Options{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("forward: %w", err)
		}
		src = dot.GridToDOT(res.Document.Networks[0].Snapshot())
	} else {
		src = dot.ToDOT(nw.Root())
	}

	data := []byte(src)
	if opts.svg {
		data, err = dot.RenderSVG(ctx, src)
		if err != nil {
			return err
		}
	}
	if err := writeOutput(w, opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Exported %s", StyleHighlight.Render(networkTitle(nw.Step, nw.Comment)))
		printFile(opts.output)
	}
	return nil
}
