package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// GridNetwork is one network's grid in a GridDocument.
type GridNetwork struct {
	Step    int    `json:"step"`
	Comment string `json:"comment,omitempty"`
	grid.ConversionResult
}

// Snapshot returns the network's elements and wires.
func (g GridNetwork) Snapshot() grid.Snapshot { return g.ConversionResult.Snapshot() }

// GridDocument is the on-disk form of a converted program.
type GridDocument struct {
	Name     string        `json:"name,omitempty"`
	Networks []GridNetwork `json:"networks"`
}

// =============================================================================
// Programs
// =============================================================================

// ReadProgram decodes and validates a JSON program.
func ReadProgram(r io.Reader) (ladder.Program, error) {
	var p Program
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return ladder.Program{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode program")
	}
	return p.ToProgram()
}

// ReadProgramFile reads a JSON program from path.
func ReadProgramFile(path string) (ladder.Program, error) {
	f, err := open(path)
	if err != nil {
		return ladder.Program{}, err
	}
	defer f.Close()
	return ReadProgram(f)
}

// MarshalProgram encodes a program as indented JSON.
func MarshalProgram(p ladder.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteProgram(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteProgram writes a program as indented JSON.
func WriteProgram(p ladder.Program, w io.Writer) error {
	return writeJSON(w, FromProgram(p))
}

// =============================================================================
// Grids
// =============================================================================

// ReadGridDocument decodes a grid document. A bare snapshot
// ({"elements": [...], "wires": [...]}) is accepted as a single network
// with step 0.
func ReadGridDocument(r io.Reader) (GridDocument, error) {
	doc, _, err := ReadGridInput(r)
	return doc, err
}

// ReadGridInput is ReadGridDocument that also reports whether the input
// was a bare snapshot.
func ReadGridInput(r io.Reader) (doc GridDocument, bare bool, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return GridDocument{}, false, fmt.Errorf("read grid: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return GridDocument{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid")
	}

	if _, ok := probe["networks"]; ok {
		if err := json.Unmarshal(data, &doc); err != nil {
			return GridDocument{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid document")
		}
	} else {
		var s grid.Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return GridDocument{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
		}
		doc.Networks = []GridNetwork{{ConversionResult: grid.ConversionResult{Elements: s.Elements, Wires: s.Wires}}}
		bare = true
	}

	for i, nw := range doc.Networks {
		if err := ValidateSnapshot(nw.Snapshot()); err != nil {
			return GridDocument{}, false, fmt.Errorf("network %d: %w", i, err)
		}
	}
	return doc, bare, nil
}

// ReadGridDocumentFile reads a grid document from path.
func ReadGridDocumentFile(path string) (GridDocument, error) {
	f, err := open(path)
	if err != nil {
		return GridDocument{}, err
	}
	defer f.Close()
	return ReadGridDocument(f)
}

// ReadSnapshot decodes and validates a single snapshot.
func ReadSnapshot(r io.Reader) (grid.Snapshot, error) {
	var s grid.Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return grid.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := ValidateSnapshot(s); err != nil {
		return grid.Snapshot{}, err
	}
	return s, nil
}

// ValidateSnapshot checks the editor-side guarantees the reverse converter
// relies on: unique element IDs and at most one element per cell.
// Structural elements are exempt from the cell rule.
func ValidateSnapshot(s grid.Snapshot) error {
	seen := make(map[string]bool, len(s.Elements))
	cells := make(map[grid.Position]string, len(s.Elements))
	for _, el := range s.Elements {
		if el.ID == "" {
			return errors.New(errors.ErrCodeInvalidGrid, "element without id at %d,%d", el.Position.Row, el.Position.Column)
		}
		if err := errors.ValidateIdentifier(el.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGrid, err, "element %q", el.ID)
		}
		if seen[el.ID] {
			return errors.New(errors.ErrCodeInvalidGrid, "duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
		if el.Kind.Structural() {
			continue
		}
		if other, ok := cells[el.Position]; ok {
			return errors.New(errors.ErrCodeInvalidGrid, "elements %q and %q share cell %d,%d",
				other, el.ID, el.Position.Row, el.Position.Column)
		}
		cells[el.Position] = el.ID
	}
	return nil
}

// MarshalGridDocument encodes a grid document as indented JSON.
func MarshalGridDocument(doc GridDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGridDocument(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGridDocument writes a grid document as indented JSON.
func WriteGridDocument(doc GridDocument, w io.Writer) error {
	return writeJSON(w, doc)
}

// WriteNetworks writes reconstructed networks as an indented JSON program.
func WriteNetworks(name string, networks []ladder.Network, w io.Writer) error {
	return WriteProgram(ladder.Program{Name: name, Networks: networks}, w)
}

// =============================================================================
// Helpers
// =============================================================================

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	return writeJSON(w, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
