package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/ladder/transform"
	"github.com/matzehuels/laddergrid/pkg/program"
)

const seriesProgram = `{"name": "motor", "networks": [{"step": 0, "comment": "Start motor", "nodes": [
  {"type": "series", "children": [
    {"type": "contact", "address": "M0000"},
    {"type": "contact", "address": "M0001", "polarity": "nc"},
    {"type": "coil", "address": "P0040"}
  ]}
]}]}`

const parallelProgram = `{"networks": [{"step": 10, "nodes": [
  {"type": "series", "children": [
    {"type": "parallel", "children": [
      {"type": "contact", "address": "M0000"},
      {"type": "contact", "address": "M0001"}
    ]},
    {"type": "coil", "address": "P0040"}
  ]}
]}]}`

const bareSnapshot = `{"elements": [
  {"id": "e1", "kind": "contact_no", "position": {"row": 0, "column": 0}, "address": "M0000"},
  {"id": "e2", "kind": "coil_out", "position": {"row": 0, "column": 1}, "address": "P0040"}
], "wires": []}`

type testEnv struct {
	dir      string
	cacheDir string
	config   string
}

func newTestEnv(t *testing.T, backend string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{dir: dir, cacheDir: filepath.Join(dir, "cache"), config: filepath.Join(dir, "config.toml")}
	cfg := "[cache]\nbackend = \"" + backend + "\"\ndir = \"" + filepath.ToSlash(env.cacheDir) + "\"\n"
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e testEnv) file(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// run executes the root command and returns what it wrote to its output.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestForwardCommand(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "program.json", seriesProgram)

	out, err := env.run(t, "forward", in)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	doc, err := program.ReadGridDocument(strings.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc.Name != "motor" || len(doc.Networks) != 1 {
		t.Fatalf("doc = %q with %d networks, want motor with 1", doc.Name, len(doc.Networks))
	}
	nw := doc.Networks[0]
	if len(nw.Elements) != 3 || len(nw.Wires) != 2 {
		t.Errorf("got %d elements and %d wires, want 3 and 2", len(nw.Elements), len(nw.Wires))
	}
	if nw.Comment != "Start motor" {
		t.Errorf("comment = %q", nw.Comment)
	}
}

func TestForwardTable(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "program.json", seriesProgram)

	out, err := env.run(t, "forward", "--table", in)
	if err != nil {
		t.Fatalf("forward --table: %v", err)
	}
	for _, want := range []string{"Step 0", "M0000", "P0040"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestForwardReverseFiles(t *testing.T) {
	env := newTestEnv(t, "file")
	in := env.file(t, "program.json", seriesProgram)
	grid := filepath.Join(env.dir, "grid.json")
	rebuilt := filepath.Join(env.dir, "rebuilt.json")

	if _, err := env.run(t, "forward", in, "-o", grid); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if _, err := env.run(t, "reverse", grid, "-o", rebuilt); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	want, err := program.ReadProgramFile(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := program.ReadProgramFile(rebuilt)
	if err != nil {
		t.Fatalf("read rebuilt program: %v", err)
	}
	if len(got.Networks) != 1 {
		t.Fatalf("got %d networks, want 1", len(got.Networks))
	}
	if !ladder.Equivalent(transform.Normalize(want.Networks[0].Root()), got.Networks[0].Root()) {
		t.Error("rebuilt network differs from the original")
	}

	entries, err := os.ReadDir(env.cacheDir)
	if err != nil || len(entries) == 0 {
		t.Errorf("expected cache entries in %s (err=%v)", env.cacheDir, err)
	}
}

func TestReverseBareSnapshot(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "snapshot.json", bareSnapshot)

	out, err := env.run(t, "reverse", in)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	prog, err := program.ReadProgram(strings.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	root := prog.Networks[0].Root()
	b, ok := root.(*ladder.Block)
	if !ok || b.Kind != ladder.Series || len(b.Children) != 2 {
		t.Fatalf("root = %#v, want a two-child series", root)
	}
}

func TestRoundTripCommand(t *testing.T) {
	env := newTestEnv(t, "none")
	series := env.file(t, "series.json", seriesProgram)
	parallel := env.file(t, "parallel.json", parallelProgram)

	if _, err := env.run(t, "roundtrip", "--strict", series); err != nil {
		t.Errorf("series roundtrip: %v", err)
	}
	if _, err := env.run(t, "roundtrip", parallel); err != nil {
		t.Errorf("parallel roundtrip without --strict: %v", err)
	}
	_, err := env.run(t, "roundtrip", "--strict", parallel)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("parallel roundtrip --strict = %v, want UNSUPPORTED", err)
	}
}

func TestStatsCommand(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "program.json", seriesProgram)

	out, err := env.run(t, "stats", "--json", in)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{`"leaves": 3`, `"blocks": 1`, `"LOAD_NOT": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %s:\n%s", want, out)
		}
	}

	out, err = env.run(t, "stats", in)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Start motor") {
		t.Errorf("table output missing comment:\n%s", out)
	}
}

func TestDotCommand(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "program.json", seriesProgram)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"tree", []string{"dot", in}, "digraph Ladder"},
		{"grid", []string{"dot", "--grid", in}, "layout=neato"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatalf("dot: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	_, err := env.run(t, "dot", "--network", "3", in)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out-of-range network = %v, want INVALID_INPUT", err)
	}
}

func TestCommandErrors(t *testing.T) {
	env := newTestEnv(t, "none")
	in := env.file(t, "program.json", seriesProgram)
	bad := env.file(t, "bad.json", `{"networks": [{"step": 0, "nodes": [{"type": "series", "children": []}]}]}`)
	garbage := env.file(t, "garbage.json", `not json`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown ids", []string{"forward", "--ids", "random", in}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"forward", filepath.Join(env.dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"empty block", []string{"forward", bad}, errors.ErrCodeInvalidProgram},
		{"malformed grid", []string{"reverse", garbage}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "none")
	if err := os.WriteFile(env.config, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := env.run(t, "cache", "path")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t, "file")
	in := env.file(t, "program.json", seriesProgram)

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != env.cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), env.cacheDir)
	}

	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on missing dir: %v", err)
	}
	if _, err := env.run(t, "forward", in); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if _, err := env.run(t, "cache", "prune"); err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	var files int
	filepath.WalkDir(env.cacheDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("%d files left after clear", files)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Convert.Normalize = false

	opts, err := c.options(convertFlags{ids: "uuid"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.IDs != "uuid" {
		t.Errorf("IDs = %q, want uuid", opts.IDs)
	}
	if !opts.SkipNormalize {
		t.Error("normalize = false in config should skip normalization")
	}

	c.Config.Convert.Normalize = true
	opts, err = c.options(convertFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.IDs != "sequential" || opts.SkipNormalize {
		t.Errorf("opts = %+v, want sequential and normalized", opts)
	}
}

func TestFormatOpcodes(t *testing.T) {
	got := formatOpcodes(map[ladder.Opcode]int{ladder.OpOut: 1, ladder.OpLoad: 2})
	if want := "LOAD×2 OUT"; got != want {
		t.Errorf("formatOpcodes() = %q, want %q", got, want)
	}
	if got := formatOpcodes(nil); got != "" {
		t.Errorf("formatOpcodes(nil) = %q, want empty", got)
	}
}

func TestNetworkTitle(t *testing.T) {
	if got := networkTitle(3, ""); got != "Step 3" {
		t.Errorf("got %q", got)
	}
	if got := networkTitle(3, "Stop"); got != "Step 3 · Stop" {
		t.Errorf("got %q", got)
	}
}
