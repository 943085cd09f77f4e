package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// networkStats is the JSON form of one row of the stats command.
type networkStats struct {
	Step    int    `json:"step"`
	Comment string `json:"comment,omitempty"`
	ladder.Summary
}

func (c *CLI) statsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [program.json]",
		Short: "Summarize the shape of each network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := program.ReadProgramFile(args[0])
			if err != nil {
				return fmt.Errorf("load program %s: %w", args[0], err)
			}
			rows := make([]networkStats, 0, len(prog.Networks))
			for _, nw := range prog.Networks {
				rows = append(rows, networkStats{Step: nw.Step, Comment: nw.Comment, Summary: ladder.Summarize(nw.Root())})
			}
			if asJSON {
				return program.WriteJSON(cmd.OutOrStdout(), rows)
			}
			writeStatsTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func writeStatsTable(w io.Writer, rows []networkStats) {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Leaves),
			strconv.Itoa(r.Blocks),
			strconv.Itoa(r.Depth),
			formatOpcodes(r.ByOpcode),
			r.Comment,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("STEP", "LEAVES", "BLOCKS", "DEPTH", "INSTRUCTIONS", "COMMENT").
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Foreground(colorGray).Bold(true)
			case col >= 1 && col <= 3:
				return base.Foreground(colorCyan)
			case col == 5:
				return base.Foreground(colorDim)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}

// formatOpcodes renders counts as "LOAD×2 OUT", sorted by opcode.
func formatOpcodes(counts map[ladder.Opcode]int) string {
	parts := make([]string, 0, len(counts))
	for _, op := range slices.Sorted(maps.Keys(counts)) {
		if n := counts[op]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s×%d", op, n))
		} else {
			parts = append(parts, string(op))
		}
	}
	return strings.Join(parts, " ")
}
