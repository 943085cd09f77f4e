package program

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

const motorProgram = `{
  "name": "motor",
  "networks": [
    {"step": 0, "comment": "Start motor", "nodes": [
      {"type": "contact", "address": "M0000"},
      {"type": "contact", "address": "M0001", "polarity": "nc"},
      {"type": "coil", "address": "P0040"}
    ]},
    {"step": 1, "nodes": []}
  ]
}`

func TestReadProgram(t *testing.T) {
	p, err := ReadProgram(strings.NewReader(motorProgram))
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	if p.Name != "motor" || len(p.Networks) != 2 {
		t.Fatalf("program = %+v", p)
	}
	nw := p.Networks[0]
	if nw.Comment != "Start motor" || len(nw.Nodes) != 3 {
		t.Errorf("network 0 = %+v", nw)
	}
	if p.Networks[1].Root() != nil {
		t.Error("empty network should have no root")
	}
}

func TestProgramRoundTrip(t *testing.T) {
	p, err := ReadProgram(strings.NewReader(motorProgram))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadProgram(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, data)
	}
	if back.Name != p.Name || len(back.Networks) != len(p.Networks) {
		t.Fatalf("round trip = %+v", back)
	}
	for i := range p.Networks {
		if !ladder.Equivalent(p.Networks[i].Root(), back.Networks[i].Root()) {
			t.Errorf("network %d changed", i)
		}
	}
}

func TestReadProgramFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "motor.json")
	if err := os.WriteFile(path, []byte(motorProgram), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadProgramFile(path); err != nil {
		t.Errorf("ReadProgramFile: %v", err)
	}
	_, err := ReadProgramFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadGridInput(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		bare     bool
		networks int
		code     errors.Code
	}{
		{
			name:     "document",
			in:       `{"name": "m", "networks": [{"step": 3, "elements": [{"id": "a", "kind": "contact_no", "address": "M0000"}], "wires": []}]}`,
			networks: 1,
		},
		{
			name:     "bare snapshot",
			in:       `{"elements": [{"id": "a", "kind": "contact_no", "address": "M0000"}], "wires": []}`,
			bare:     true,
			networks: 1,
		},
		{
			name: "duplicate id",
			in:   `{"elements": [{"id": "a", "kind": "contact_no"}, {"id": "a", "kind": "coil_out", "position": {"row": 0, "column": 1}}]}`,
			code: errors.ErrCodeInvalidGrid,
		},
		{
			name: "shared cell",
			in:   `{"elements": [{"id": "a", "kind": "contact_no"}, {"id": "b", "kind": "coil_out"}]}`,
			code: errors.ErrCodeInvalidGrid,
		},
		{
			name:     "structural elements may share a cell",
			in:       `{"elements": [{"id": "a", "kind": "contact_no"}, {"id": "r", "kind": "rail"}, {"id": "w", "kind": "wire"}]}`,
			bare:     true,
			networks: 1,
		},
		{
			name: "missing id",
			in:   `{"elements": [{"kind": "contact_no"}]}`,
			code: errors.ErrCodeInvalidGrid,
		},
		{
			name: "not json",
			in:   `elements`,
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "not an object",
			in:   `[1, 2]`,
			code: errors.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, bare, err := ReadGridInput(strings.NewReader(tt.in))
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGridInput: %v", err)
			}
			if bare != tt.bare || len(doc.Networks) != tt.networks {
				t.Errorf("bare = %v, networks = %d", bare, len(doc.Networks))
			}
		})
	}
}

func TestGridDocumentRoundTrip(t *testing.T) {
	doc := GridDocument{Name: "m", Networks: []GridNetwork{{
		Step:    4,
		Comment: "pump",
		ConversionResult: grid.ConversionResult{
			Elements: []grid.Element{
				{ID: "el1", Kind: grid.ContactNO, Address: "M0000"},
				{ID: "el2", Kind: grid.CoilOut, Address: "P0040", Position: grid.Position{Column: 1}},
			},
			Wires: []grid.Wire{{
				ID:   "w1",
				From: grid.Endpoint{ElementID: "el1", Port: grid.PortRight},
				To:   grid.Endpoint{ElementID: "el2", Port: grid.PortLeft},
				Kind: grid.Horizontal,
			}},
			RowCount:  1,
			MaxColumn: 1,
		},
	}}}
	data, err := MarshalGridDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"row_count": 1`)) {
		t.Errorf("embedded result fields are not inlined:\n%s", data)
	}
	back, err := ReadGridDocument(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGridDocument: %v", err)
	}
	nw := back.Networks[0]
	if nw.Step != 4 || nw.Comment != "pump" || len(nw.Elements) != 2 || len(nw.Wires) != 1 {
		t.Errorf("round trip = %+v", nw)
	}
	if nw.Wires[0].From.Port != grid.PortRight {
		t.Errorf("wire port = %s", nw.Wires[0].From.Port)
	}
}

func TestReadSnapshot(t *testing.T) {
	s, err := ReadSnapshot(strings.NewReader(`{"elements": [{"id": "a", "kind": "timer", "address": "T0001", "properties": {"preset": 5}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 1 || s.Elements[0].Properties.Preset != 5 {
		t.Errorf("snapshot = %+v", s)
	}
	if _, err := ReadSnapshot(strings.NewReader(`{`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed snapshot error = %v", err)
	}
}

func TestWriteNetworks(t *testing.T) {
	nw := ladder.Network{Step: 2, Nodes: []ladder.Node{
		&ladder.Contact{Address: ladder.MustParseAddress("M0"), Polarity: ladder.NormallyOpen},
	}}
	var buf bytes.Buffer
	if err := WriteNetworks("rebuilt", []ladder.Network{nw}, &buf); err != nil {
		t.Fatal(err)
	}
	p, err := ReadProgram(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "rebuilt" || p.Networks[0].Step != 2 {
		t.Errorf("program = %+v", p)
	}
}
