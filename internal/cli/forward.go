package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/pipeline"
	"github.com/matzehuels/laddergrid/pkg/program"
	"github.com/matzehuels/laddergrid/pkg/render/textgrid"
)

func (c *CLI) forwardCommand() *cobra.Command {
	var (
		flags  convertFlags
		output string
		table  bool
	)

	cmd := &cobra.Command{
		Use:   "forward [program.json]",
		Short: "Place a program on editor grids",
		Long: `Place each network of a ladder program on a grid of elements and wires.

The output is a grid document with one grid per network, in program order.
Instructions without a grid counterpart (math, move) are placed as
comparison elements and reported as fallbacks.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(flags)
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context(), c.Logger)
			return c.runForward(ctx, cmd.OutOrStdout(), args[0], output, table, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&table, "table", false, "print each grid as a table instead of JSON")

	return cmd
}

func (c *CLI) runForward(ctx context.Context, w io.Writer, input, output string, table, noCache bool, opts pipeline.Options) error {
	logger := log.FromContext(ctx)

	prog, err := program.ReadProgramFile(input)
	if err != nil {
		return fmt.Errorf("load program %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(logger)
	res, err := runner.Forward(ctx, prog, opts)
	if err != nil {
		return fmt.Errorf("forward: %w", err)
	}
	p.done("Placed %d networks", res.Stats.Networks)

	if table {
		for _, nw := range res.Document.Networks {
			fmt.Fprintf(w, "%s\n%s\n", StyleTitle.Render(networkTitle(nw.Step, nw.Comment)), textgrid.Render(nw.ConversionResult))
		}
		return nil
	}

	data, err := program.MarshalGridDocument(res.Document)
	if err != nil {
		return err
	}
	if err := writeOutput(w, output, data); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	printSuccess("Placed %s", StyleHighlight.Render(input))
	printStats(res.Stats.Networks, res.Stats.Elements, res.Stats.Wires, res.Stats.Fallbacks, res.CacheHit)
	printFile(output)
	for _, fb := range res.Fallbacks {
		printWarning("step %d: %s placed as comparison", fb.Step, fb.Opcode)
	}
	printNextStep("Rebuild the program", fmt.Sprintf("%s reverse %s", appName, output))
	return nil
}

// networkTitle formats a network heading such as "Step 3 · Start motor".
func networkTitle(step int, comment string) string {
	if comment == "" {
		return fmt.Sprintf("Step %d", step)
	}
	return fmt.Sprintf("Step %d · %s", step, comment)
}
