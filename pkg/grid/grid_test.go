package grid

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind       Kind
		structural bool
		compare    bool
		valid      bool
	}{
		{ContactNO, false, false, true},
		{CoilReset, false, false, true},
		{Timer, false, false, true},
		{CompareEQ, false, true, true},
		{CompareNE, false, true, true},
		{WireSegment, true, false, true},
		{Rail, true, false, true},
		{"lamp", false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Structural(); got != tt.structural {
				t.Errorf("Structural() = %v", got)
			}
			if got := tt.kind.IsCompare(); got != tt.compare {
				t.Errorf("IsCompare() = %v", got)
			}
			if got := tt.kind.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v", got)
			}
		})
	}
}

func TestElementJSON(t *testing.T) {
	el := Element{
		ID:         "el1",
		Kind:       Timer,
		Position:   Position{Row: 1, Column: 2},
		Address:    "T0001",
		Properties: Properties{Preset: 50, TimeBase: "100ms"},
	}
	data, err := json.Marshal(el)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"kind":"timer"`, `"position":{"row":1,"column":2}`, `"preset":50`, `"time_base":"100ms"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	for _, absent := range []string{"label", "operator", "direction"} {
		if strings.Contains(s, absent) {
			t.Errorf("JSON %s should omit %s", s, absent)
		}
	}
}

func TestSnapshotElementMap(t *testing.T) {
	s := Snapshot{Elements: []Element{
		{ID: "a", Kind: ContactNO},
		{ID: "b", Kind: CoilOut},
		{ID: "a", Kind: ContactNC},
	}}
	m := s.ElementMap()
	if len(m) != 2 {
		t.Fatalf("ElementMap() has %d entries, want 2", len(m))
	}
	if m["a"].Kind != ContactNC {
		t.Errorf("duplicate id kept %s, want the later contact_nc", m["a"].Kind)
	}
}

func TestConversionResult(t *testing.T) {
	r := ConversionResult{
		Elements:  []Element{{ID: "a", Kind: ContactNO}, {ID: "b", Kind: ContactNO}, {ID: "c", Kind: CoilOut}},
		Wires:     []Wire{{ID: "w1"}},
		RowCount:  1,
		MaxColumn: 2,
	}
	if r.Empty() {
		t.Error("Empty() = true for a populated result")
	}
	snap := r.Snapshot()
	if len(snap.Elements) != 3 || len(snap.Wires) != 1 {
		t.Errorf("Snapshot() = %+v", snap)
	}
	counts := CountByKind(r.Elements)
	if counts[ContactNO] != 2 || counts[CoilOut] != 1 {
		t.Errorf("CountByKind() = %v", counts)
	}
	if !(ConversionResult{}).Empty() {
		t.Error("zero result should be empty")
	}
}

func TestPositionAdd(t *testing.T) {
	if got := (Position{Row: 1, Column: 2}).Add(3, -1); got != (Position{Row: 4, Column: 1}) {
		t.Errorf("Add() = %+v", got)
	}
}
