package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/program"
)

func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags  convertFlags
		isGrid bool
	)

	cmd := &cobra.Command{
		Use:   "view [program.json]",
		Short: "Browse a program's grids interactively",
		Long: `Place a program and browse the resulting grids in the terminal.

With --grid the input is read as a grid document written by 'forward'
(or a bare editor snapshot) and shown as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.WithContext(cmd.Context(), c.Logger)

			var doc program.GridDocument
			if isGrid {
				d, err := program.ReadGridDocumentFile(args[0])
				if err != nil {
					return fmt.Errorf("load grid %s: %w", args[0], err)
				}
				doc = d
			} else {
				opts, err := c.options(flags)
				if err != nil {
					return err
				}
				prog, err := program.ReadProgramFile(args[0])
				if err != nil {
					return fmt.Errorf("load program %s: %w", args[0], err)
				}
				runner, err := c.newRunner(ctx, flags.noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
				res, err := runner.Forward(ctx, prog, opts)
				if err != nil {
					return fmt.Errorf("forward: %w", err)
				}
				doc = res.Document
			}

			p := tea.NewProgram(NewNetworkBrowserModel(doc), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&isGrid, "grid", false, "read the input as a grid document")

	return cmd
}
