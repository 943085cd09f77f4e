package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
	"github.com/matzehuels/laddergrid/pkg/program"
)

func (c *CLI) roundTripCommand() *cobra.Command {
	var (
		flags  convertFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "roundtrip [program.json]",
		Short: "Check that a program survives forward and reverse conversion",
		Long: `Convert a program to grids and back, then compare each rebuilt network
with the normalized original.

Placed grids carry only horizontal wires, so parallel branches come back
as independent rows and such networks are reported as lossy. With --strict
a lossy network fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(flags)
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context(), c.Logger)
			return c.runRoundTrip(ctx, args[0], strict, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any network is lossy")

	return cmd
}

func (c *CLI) runRoundTrip(ctx context.Context, input string, strict, noCache bool, opts pipeline.Options) error {
	prog, err := program.ReadProgramFile(input)
	if err != nil {
		return fmt.Errorf("load program %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Converting...")
	spinner.Start()
	res, err := runner.RoundTrip(ctx, prog, opts)
	if err != nil {
		spinner.StopWithError("Round trip failed")
		return fmt.Errorf("roundtrip: %w", err)
	}
	spinner.Stop()

	lossy := 0
	for i, ok := range res.Equivalent {
		nw := prog.Networks[i]
		if ok {
			printSuccess("%s", networkTitle(nw.Step, nw.Comment))
			continue
		}
		lossy++
		printError("%s", networkTitle(nw.Step, nw.Comment))
	}
	printStats(res.Forward.Stats.Networks, res.Forward.Stats.Elements, res.Forward.Stats.Wires,
		res.Forward.Stats.Fallbacks, res.Forward.CacheHit && res.Reverse.CacheHit)

	if lossy == 0 {
		return nil
	}
	printWarning("%d of %d networks changed shape", lossy, len(res.Equivalent))
	if strict {
		return errors.New(errors.ErrCodeUnsupported, "%s: %d networks are not lossless", input, lossy)
	}
	return nil
}
