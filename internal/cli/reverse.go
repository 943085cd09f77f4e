package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/pipeline"
	"github.com/matzehuels/laddergrid/pkg/program"
)

func (c *CLI) reverseCommand() *cobra.Command {
	var (
		flags  convertFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "reverse [grid.json]",
		Short: "Rebuild a program from editor grids",
		Long: `Rebuild the logic tree of each network from placed elements and wires.

The input is a grid document as written by 'forward', or a bare editor
snapshot ({"elements": [...], "wires": [...]}) which is read as a single
network. Rebuilt trees are normalized unless --no-normalize is given.

Elements that have no instruction counterpart are dropped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(flags)
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context(), c.Logger)
			return c.runReverse(ctx, cmd.OutOrStdout(), args[0], output, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runReverse(ctx context.Context, w io.Writer, input, output string, noCache bool, opts pipeline.Options) error {
	doc, err := program.ReadGridDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load grid %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(log.FromContext(ctx))
	res, err := runner.Reverse(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	p.done("Rebuilt %d networks", res.Stats.Networks)

	var buf bytes.Buffer
	if err := program.WriteProgram(res.Program(), &buf); err != nil {
		return err
	}
	if err := writeOutput(w, output, buf.Bytes()); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	printSuccess("Rebuilt %s", StyleHighlight.Render(input))
	printStats(res.Stats.Networks, res.Stats.Elements, res.Stats.Wires, 0, res.CacheHit)
	printFile(output)
	for _, nw := range res.Networks {
		if len(nw.Dropped) > 0 {
			printWarning("step %d: dropped %d elements", nw.Step, len(nw.Dropped))
		}
	}
	return nil
}
