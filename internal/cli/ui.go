package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette, ANSI 256.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the table and grid views.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

// statusMark is the leading glyph of a status line.
type statusMark struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = statusMark{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markFail = statusMark{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarn = statusMark{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markNote = statusMark{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func printStatus(m statusMark, body string) {
	fmt.Println(m.style.Render(m.glyph) + " " + body)
}

func printSuccess(format string, args ...any) {
	printStatus(markOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(markFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(markWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(markNote, fmt.Sprintf(format, args...))
}

// printDetail prints a dimmed line indented under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printNextStep suggests the command a user would likely run next.
func printNextStep(what, cmd string) {
	fmt.Println(StyleDim.Render(what+":") + " " + lipgloss.NewStyle().Foreground(colorBlue).Render(cmd))
}

// printStats summarizes a conversion run. Fallback leaves are highlighted
// because they were placed as a stand-in kind.
func printStats(networks, elements, wires, fallbacks int, cached bool) {
	counts := []string{
		StyleDim.Render(plural(networks, "network")),
		StyleDim.Render(plural(elements, "element")),
		StyleDim.Render(plural(wires, "wire")),
	}
	if fallbacks > 0 {
		counts = append(counts, StyleWarning.Render(plural(fallbacks, "fallback")))
	}
	if cached {
		counts = append(counts, markOK.style.Render("cached"))
	} else {
		counts = append(counts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	fmt.Println("  " + strings.Join(counts, StyleDim.Render(" · ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
