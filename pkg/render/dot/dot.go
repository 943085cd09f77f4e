// Package dot exports logic trees and grids as Graphviz DOT and renders
// them to SVG.
//
// Trees are drawn top-down. Series blocks are boxes labelled "AND",
// parallel blocks are ellipses labelled "OR" and instructions are rounded
// boxes labelled with their opcode and operands:
//
//	digraph Ladder {
//	  n0 [label="AND", shape=box];
//	  n0 -> n1;
//	  n1 [label="LOAD M0000", shape=box, style="filled,rounded"];
//	  ...
//	}
//
// Grids are drawn with fixed node positions, one node per element at its
// (row, column) cell, and one edge per wire.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// ToDOT returns a DOT digraph of the tree rooted at n. A nil tree yields
// an empty graph.
func ToDOT(n ladder.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Ladder {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	if n != nil {
		writeNode(&buf, n, 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n ladder.Node, id int) int {
	nodeID := fmt.Sprintf("n%d", id)
	next := id + 1

	b, ok := n.(*ladder.Block)
	if !ok {
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", nodeID, Label(n))
		return next
	}

	if b.Kind == ladder.Parallel {
		fmt.Fprintf(buf, "  %s [label=\"OR\", shape=ellipse];\n", nodeID)
	} else {
		fmt.Fprintf(buf, "  %s [label=\"AND\", shape=box];\n", nodeID)
	}
	for _, c := range b.Children {
		fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
		next = writeNode(buf, c, next)
	}
	return next
}

// Label returns the instruction text of a leaf: the opcode followed by its
// operands, e.g. "LOAD_NOT M0001" or "TMR T0000 100 100ms".
func Label(n ladder.Node) string {
	op := string(ladder.OpcodeOf(n))
	switch n := n.(type) {
	case *ladder.Contact:
		return op + " " + n.Address.String()
	case *ladder.Coil:
		return op + " " + n.Address.String()
	case *ladder.Timer:
		return fmt.Sprintf("%s %s %d %s", op, n.Address, n.Preset, n.TimeBase)
	case *ladder.Counter:
		return fmt.Sprintf("%s %s %d %s", op, n.Address, n.Preset, n.Direction)
	case *ladder.Comparison:
		return fmt.Sprintf("%s %s %s %s", op, n.Left, n.Operator, n.Right)
	case *ladder.Math:
		parts := []string{op, n.Operation, n.Dest.String()}
		for _, o := range n.Operands {
			parts = append(parts, o.String())
		}
		return strings.Join(parts, " ")
	case *ladder.Move:
		return fmt.Sprintf("%s %s %s", op, n.Source, n.Dest)
	}
	return op
}

// GridToDOT returns a DOT digraph of a grid with each element pinned to
// its cell. Render it with the neato layout, which GridToDOT selects.
func GridToDOT(s grid.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Grid {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"SF Mono, Menlo, monospace\", fontsize=12, width=1.4];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	for _, el := range s.Elements {
		label := string(el.Kind)
		if el.Address != "" {
			label += "\n" + el.Address
		}
		// Columns grow to the right and rows grow downwards.
		x := float64(el.Position.Column) * 2
		y := float64(-el.Position.Row) * 1.2
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%.1f,%.1f!\"", x, y),
		}
		if el.Kind.Structural() {
			attrs = append(attrs, "style=\"dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", el.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, w := range s.Wires {
		attrs := []string{fmt.Sprintf("label=%q", w.ID)}
		if w.Kind == grid.Vertical {
			attrs = append(attrs, "style=bold")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", w.From.ElementID, w.To.ElementID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
