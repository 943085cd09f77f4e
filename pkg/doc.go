// Package pkg provides the libraries behind laddergrid, a converter between
// ladder logic trees and editor grids.
//
// # Overview
//
// A ladder program is a list of networks. Each network is a tree of
// instructions (contacts, coils, timers, counters, comparisons) composed in
// series and parallel blocks. A ladder editor shows the same network as a
// grid of elements joined by wires. The packages here convert in both
// directions:
//
//  1. [ladder] - The logic tree, addresses and tree statistics
//  2. [grid] - Elements, wires and editor snapshots
//  3. [convert] - Forward layout and reverse reconstruction
//  4. [program] - JSON codecs for programs and grid documents
//  5. [pipeline] - Cached orchestration used by the CLI and HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	program.json
//	     ↓
//	[program] package (decode and validate)
//	     ↓
//	[convert] package (tree → grid, grid → tree)
//	     ↓
//	[render] packages (DOT/SVG, terminal tables) or grid JSON
//
// # Quick Start
//
// Lay out one network and rebuild it:
//
//	prog, _ := program.ReadProgramFile("motor.json")
//	res := convert.ConvertNetwork(prog.Networks[0].Nodes)
//	back := convert.ReverseSnapshot(res.Snapshot())
//	fmt.Println(ladder.Equivalent(prog.Networks[0].Root(), back))
//
// The reverse direction infers parallel branches only from vertical wires,
// so a forward result (which carries horizontal wires only) rebuilds series
// networks exactly and parallel networks as independent rows.
//
// # Infrastructure
//
//   - [cache] - File, Redis and null result caches with content-hashed keys
//   - [config] - TOML configuration
//   - [errors] - Coded errors shared by the CLI and API
//   - [observability] - Conversion hooks with a Prometheus implementation
//   - [api] - chi-based HTTP API
//
// [ladder]: github.com/matzehuels/laddergrid/pkg/ladder
// [grid]: github.com/matzehuels/laddergrid/pkg/grid
// [convert]: github.com/matzehuels/laddergrid/pkg/convert
// [program]: github.com/matzehuels/laddergrid/pkg/program
// [pipeline]: github.com/matzehuels/laddergrid/pkg/pipeline
// [render]: github.com/matzehuels/laddergrid/pkg/render
// [cache]: github.com/matzehuels/laddergrid/pkg/cache
// [config]: github.com/matzehuels/laddergrid/pkg/config
// [errors]: github.com/matzehuels/laddergrid/pkg/errors
// [observability]: github.com/matzehuels/laddergrid/pkg/observability
// [api]: github.com/matzehuels/laddergrid/pkg/api
package pkg
