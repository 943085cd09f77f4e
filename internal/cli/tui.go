package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/laddergrid/pkg/program"
	"github.com/matzehuels/laddergrid/pkg/render/textgrid"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle      = lipgloss.NewStyle().PaddingLeft(2)
)

// =============================================================================
// NetworkBrowserModel - Interactive grid browser
// =============================================================================

// NetworkBrowserModel is the bubbletea model for browsing the grids of a
// converted program. The network list is on the left and the selected grid
// on the right.
type NetworkBrowserModel struct {
	Title    string
	Networks []program.GridNetwork
	Cursor   int
	Height   int
	Offset   int
}

// NewNetworkBrowserModel creates a browser over doc.
func NewNetworkBrowserModel(doc program.GridDocument) NetworkBrowserModel {
	title := doc.Name
	if title == "" {
		title = "Program"
	}
	return NetworkBrowserModel{
		Title:    title,
		Networks: doc.Networks,
		Height:   15,
	}
}

func (m NetworkBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NetworkBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Networks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Networks)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m NetworkBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Networks) == 0 {
		b.WriteString(listDimStyle.Render("  no networks"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), previewStyle.Render(m.previewView())))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Networks))))

	return b.String()
}

func (m NetworkBrowserModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Networks))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		nw := m.Networks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		comment := nw.Comment
		if comment == "" {
			comment = "-"
		}
		rows = append(rows, []string{cursor, strconv.Itoa(nw.Step), strconv.Itoa(len(nw.Elements)), truncate(comment, 24)})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "STEP", "CELLS", "COMMENT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Foreground(colorGray).Bold(true)
			}
			if m.Offset+row == m.Cursor {
				return base.Inherit(listSelectedStyle)
			}
			if len(m.Networks[m.Offset+row].Elements) == 0 {
				return base.Inherit(listDimStyle)
			}
			return base.Inherit(listNormalStyle)
		})
	return t.Render()
}

func (m NetworkBrowserModel) previewView() string {
	nw := m.Networks[m.Cursor]
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(networkTitle(nw.Step, nw.Comment)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d elements · %d wires · %d rows", len(nw.Elements), len(nw.Wires), nw.RowCount)))
	b.WriteString("\n")
	if grid := textgrid.Render(nw.ConversionResult); grid != "" {
		b.WriteString(grid)
	} else {
		b.WriteString(listDimStyle.Render("(empty)"))
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
