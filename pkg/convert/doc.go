// Package convert translates between the ladder logic tree and the editor
// grid.
//
// # Forward (tree → grid)
//
// [Convert] lays out one subtree at a starting cell and [ConvertNetwork]
// lays out the top-level nodes of a network as an implicit series on row 0.
// Series children advance the column, parallel children advance the row,
// and sizes come from [Dimensions]:
//
//	leaf      (1, 1)
//	series    rows = max(child rows), cols = sum(child cols)
//	parallel  rows = sum(child rows), cols = max(child cols)
//
// Adjacent series children are joined by a full cross product: every exit
// element of child i-1 is wired to every entry element of child i. This is
// what connects each branch of a parallel block to the element after it.
// Parallel siblings are never wired to each other. Every wire the forward
// converter creates is horizontal, from the right port to the left port.
//
// Nodes without a grid counterpart (math and move instructions) are placed
// as compare_eq elements and listed in [grid.ConversionResult.Fallbacks].
//
// # Reverse (grid → tree)
//
// [Reverse] rebuilds a tree from a grid snapshot in three stages:
// [GroupByRow] buckets non-structural elements by row, [DetectParallelGroups]
// infers branch regions from vertical wires, and [BuildTree] assembles the
// tree. The result is normalized with the transform package.
//
// Branch inference is a heuristic. It trusts the vertical wires to encode
// the intended topology, and nested parallel regions spanning several branch
// columns are flattened rather than rebuilt. When several rows exist but no
// vertical wire connects them, every row becomes an independent parallel
// branch. Elements with a missing or malformed address are dropped.
//
// # Concurrency
//
// Every call owns its accumulator and identifier generator; separate calls
// may run concurrently without coordination.
package convert
