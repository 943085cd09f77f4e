// Package cache stores conversion results keyed by content hash.
//
// Conversions are cheap, but the HTTP API and the CLI see the same program
// and grid documents over and over while a user edits. Results are cached
// as encoded JSON under keys derived from the SHA-256 of the input document
// and the options that affect the output.
//
// Three backends are provided: [NullCache] (disabled), [FileCache] for the
// CLI, and [RedisCache] for the shared HTTP server.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for conversion results.
type Keyer interface {
	// ForwardKey is the key of a converted program.
	ForwardKey(programHash string, opts ForwardKeyOpts) string
	// ReverseKey is the key of a reconstructed grid document.
	ReverseKey(gridHash string, opts ReverseKeyOpts) string
}

// ForwardKeyOpts lists the options that change a forward result.
type ForwardKeyOpts struct {
	IDs string `json:"ids"`
}

// ReverseKeyOpts lists the options that change a reverse result.
type ReverseKeyOpts struct {
	IDs       string `json:"ids"`
	Normalize bool   `json:"normalize"`
}

// DefaultKeyer produces "forward:<sha256>" and "reverse:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ForwardKey hashes the program hash together with opts.
func (DefaultKeyer) ForwardKey(programHash string, opts ForwardKeyOpts) string {
	return hashKey("forward", programHash, opts)
}

// ReverseKey hashes the grid hash together with opts.
func (DefaultKeyer) ReverseKey(gridHash string, opts ReverseKeyOpts) string {
	return hashKey("reverse", gridHash, opts)
}
