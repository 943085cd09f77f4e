// Package textgrid draws a converted grid as a terminal table with one cell
// per (row, column).
//
// Cells use the usual ladder shorthand:
//
//	[ ] M0000   normally open contact
//	[/] M0001   normally closed contact
//	( ) P0040   output coil
//	[>] D0000   compare greater than
//
// Empty cells are left blank.
package textgrid

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/laddergrid/pkg/grid"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	coilStyle   = cellStyle.Foreground(lipgloss.Color("36"))
)

var symbols = map[grid.Kind]string{
	grid.ContactNO:   "[ ]",
	grid.ContactNC:   "[/]",
	grid.ContactP:    "[P]",
	grid.ContactN:    "[N]",
	grid.CoilOut:     "( )",
	grid.CoilSet:     "(S)",
	grid.CoilReset:   "(R)",
	grid.Timer:       "[T]",
	grid.Counter:     "[C]",
	grid.CompareEQ:   "[=]",
	grid.CompareGT:   "[>]",
	grid.CompareLT:   "[<]",
	grid.CompareGE:   "[>=]",
	grid.CompareLE:   "[<=]",
	grid.CompareNE:   "[<>]",
	grid.WireSegment: "---",
	grid.Rail:        "|",
}

// Symbol returns the shorthand for an element: its kind symbol followed by
// its address.
func Symbol(el grid.Element) string {
	s, ok := symbols[el.Kind]
	if !ok {
		s = "[?]"
	}
	if el.Address != "" {
		s += " " + el.Address
	}
	return s
}

// Cells lays the elements of a result out as rows of cell text. The grid
// spans rows 0..RowCount-1 and columns 0..MaxColumn.
func Cells(r grid.ConversionResult) [][]string {
	cols := r.MaxColumn + 1
	if r.RowCount <= 0 || cols <= 0 {
		return nil
	}
	cells := make([][]string, r.RowCount)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	for _, el := range r.Elements {
		p := el.Position
		if p.Row < 0 || p.Row >= r.RowCount || p.Column < 0 || p.Column >= cols {
			continue
		}
		cells[p.Row][p.Column] = Symbol(el)
	}
	return cells
}

// Render returns the result as a bordered table. An empty result renders
// as an empty string.
func Render(r grid.ConversionResult) string {
	cells := Cells(r)
	if cells == nil {
		return ""
	}

	headers := []string{""}
	for c := range cells[0] {
		headers = append(headers, strconv.Itoa(c))
	}
	rows := make([][]string, len(cells))
	for i, row := range cells {
		rows[i] = append([]string{strconv.Itoa(i)}, row...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle.Padding(0, 1)
			}
			if row < len(rows) && col < len(rows[row]) && len(rows[row][col]) > 0 && rows[row][col][0] == '(' {
				return coilStyle
			}
			return cellStyle
		})
	return t.Render()
}
