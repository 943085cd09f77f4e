// Package observability lets the binary observe conversions without the
// converter packages importing a metrics backend.
//
// The pipeline, cache and API layers report events through [Convert],
// [Cache] and [HTTP]. Until a backend is installed with the Set functions
// those return no-op hooks, so callers never check for nil. Package
// [promhooks] is the Prometheus backend used by `laddergrid serve`:
//
//	h := promhooks.New(prometheus.DefaultRegisterer)
//	observability.SetConvertHooks(h)
//	observability.SetCacheHooks(h)
//
// [promhooks]: github.com/matzehuels/laddergrid/pkg/observability/promhooks
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ConvertHooks observes forward and reverse conversions of whole programs.
type ConvertHooks interface {
	OnForwardStart(ctx context.Context, networks int)
	OnForwardComplete(ctx context.Context, elements, wires int, duration time.Duration, err error)
	OnReverseStart(ctx context.Context, elements int)
	// OnReverseComplete reports how many grid elements could not be
	// turned back into ladder nodes.
	OnReverseComplete(ctx context.Context, dropped int, duration time.Duration, err error)
	// OnFallback fires once per node placed as the fallback element kind.
	OnFallback(ctx context.Context, opcode string)
}

// CacheHooks observes result cache lookups. keyType is "forward" or "reverse".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes served API requests. route is the chi pattern, not
// the raw path.
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopConvertHooks struct{}

func (NoopConvertHooks) OnForwardStart(context.Context, int)                                {}
func (NoopConvertHooks) OnForwardComplete(context.Context, int, int, time.Duration, error) {}
func (NoopConvertHooks) OnReverseStart(context.Context, int)                                {}
func (NoopConvertHooks) OnReverseComplete(context.Context, int, time.Duration, error)      {}
func (NoopConvertHooks) OnFallback(context.Context, string)                                 {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed hook set. An empty slot yields noop.
type slot[H any] struct {
	cur  atomic.Pointer[H]
	noop H
}

func (s *slot[H]) get() H {
	if h := s.cur.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[H]) set(h H) {
	if any(h) != nil {
		s.cur.Store(&h)
	}
}

var (
	convertSlot = slot[ConvertHooks]{noop: NoopConvertHooks{}}
	cacheSlot   = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot    = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetConvertHooks installs h. A nil h is ignored.
func SetConvertHooks(h ConvertHooks) { convertSlot.set(h) }

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

func Convert() ConvertHooks { return convertSlot.get() }
func Cache() CacheHooks     { return cacheSlot.get() }
func HTTP() HTTPHooks       { return httpSlot.get() }

// Reset uninstalls every backend. Tests call it between cases.
func Reset() {
	convertSlot.cur.Store(nil)
	cacheSlot.cur.Store(nil)
	httpSlot.cur.Store(nil)
}
