// Package render groups the output formats for trees and grids.
//
// # Graphviz
//
// The [dot] subpackage writes a logic tree, or a placed grid, as a Graphviz
// DOT graph and renders it to SVG with go-graphviz:
//
//	src := dot.ToDOT(root)
//	svg, err := dot.RenderSVG(ctx, src)
//
// Tree graphs draw one box per leaf and one ellipse per series or parallel
// block. Grid graphs pin each element to its cell and draw wires as edges.
//
// # Text
//
// The [textgrid] subpackage draws a conversion result as a terminal table,
// one cell per grid position, using the same symbols an editor shows:
//
//	fmt.Println(textgrid.Render(res))
//
// [dot]: github.com/matzehuels/laddergrid/pkg/render/dot
// [textgrid]: github.com/matzehuels/laddergrid/pkg/render/textgrid
package render
