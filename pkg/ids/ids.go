// Package ids generates identifiers for elements, wires and blocks created
// during a conversion.
//
// Identifiers only need to be unique within one conversion result, so each
// conversion call should own its own [Generator].
package ids

import (
	"strconv"

	"github.com/google/uuid"
)

// Prefixes used by the converters.
const (
	PrefixElement = "el"
	PrefixWire    = "w"
	PrefixNode    = "n"
)

// Generator returns a fresh identifier on every call.
type Generator interface {
	Next(prefix string) string
}

// Sequential numbers identifiers per prefix: el1, el2, w1, ...
// It is not safe for concurrent use.
type Sequential struct {
	counters map[string]int
}

// NewSequential returns a Sequential generator starting at 1 for every prefix.
func NewSequential() *Sequential {
	return &Sequential{counters: make(map[string]int)}
}

// Next returns the next identifier for prefix.
func (s *Sequential) Next(prefix string) string {
	if s.counters == nil {
		s.counters = make(map[string]int)
	}
	s.counters[prefix]++
	return prefix + strconv.Itoa(s.counters[prefix])
}

// UUID generates random version 4 identifiers, "prefix-<uuid>".
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() UUID { return UUID{} }

// Next returns prefix joined to a new random UUID.
func (UUID) Next(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Strategy names accepted by New.
const (
	StrategySequential = "sequential"
	StrategyUUID       = "uuid"
)

// New returns a generator for the named strategy. Unknown or empty names
// yield a Sequential generator.
func New(strategy string) Generator {
	if strategy == StrategyUUID {
		return NewUUID()
	}
	return NewSequential()
}

// ValidStrategy reports whether s names a known strategy.
func ValidStrategy(s string) bool {
	return s == StrategySequential || s == StrategyUUID
}
