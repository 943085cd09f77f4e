// Package ladder defines the hierarchical logic tree of a ladder program.
//
// # Overview
//
// A ladder network is a tree of instructions: leaf nodes ([Contact], [Coil],
// [Timer], [Counter], [Comparison], [Math], [Move]) composed by [Block] nodes
// that evaluate their children either in series (an AND chain, drawn left to
// right) or in parallel (an OR group, drawn top to bottom).
//
//	series
//	├── parallel
//	│   ├── contact M0000
//	│   └── contact M0001
//	└── coil P0040
//
// [Node] is a closed sum type: every concrete node embeds [Common] and the
// interface carries an unexported marker method, so a type switch over the
// eight node types is exhaustive.
//
// # Addresses
//
// Device addresses such as "M0000" or "D0100.3" are parsed with
// [ParseAddress]. Invalid input never produces an error; the second return
// value is false instead, so a partially typed address in the editor cannot
// break layout.
//
// # Well-formed Trees
//
// A Block's children list is never empty in a tree handed out by a program
// reader. Empty blocks can appear as transient artifacts of reverse
// conversion and are removed by the transform subpackage.
//
// # Utilities
//
// [Flatten], [CountLeaves], [CountBlocks], [Depth], [CountByOpcode] and
// [Summarize] are used for diagnostics and tests. [Equivalent] compares two
// trees structurally, ignoring identifiers, position hints and comments.
package ladder
