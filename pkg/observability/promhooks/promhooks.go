// Package promhooks implements the observability hooks with Prometheus
// collectors.
package promhooks

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/laddergrid/pkg/observability"
)

// Hooks records conversion, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	conversions    *prometheus.CounterVec
	conversionTime *prometheus.HistogramVec
	placed         *prometheus.CounterVec
	dropped        prometheus.Counter
	fallbacks      *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec

	requests    *prometheus.CounterVec
	requestTime *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_conversions_total",
			Help: "Conversions by direction and result.",
		}, []string{"direction", "result"}),
		conversionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laddergrid_conversion_duration_seconds",
			Help:    "Conversion latency by direction.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"direction"}),
		placed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_placed_total",
			Help: "Elements and wires emitted by forward conversions.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laddergrid_reverse_dropped_elements_total",
			Help: "Grid elements that did not convert back to a node.",
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_fallbacks_total",
			Help: "Nodes placed as the fallback element kind, by opcode.",
		}, []string{"opcode"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_cache_lookups_total",
			Help: "Cache lookups by key type and outcome.",
		}, []string{"key_type", "outcome"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laddergrid_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laddergrid_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(
			h.conversions, h.conversionTime, h.placed, h.dropped, h.fallbacks,
			h.cacheLookups, h.cacheBytes, h.requests, h.requestTime,
		)
	}
	return h
}

// Register installs h in the global observability registry.
func (h *Hooks) Register() {
	observability.SetConvertHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) OnForwardStart(context.Context, int) {}

func (h *Hooks) OnForwardComplete(_ context.Context, elements, wires int, d time.Duration, err error) {
	h.conversions.WithLabelValues("forward", result(err)).Inc()
	h.conversionTime.WithLabelValues("forward").Observe(d.Seconds())
	if err == nil {
		h.placed.WithLabelValues("element").Add(float64(elements))
		h.placed.WithLabelValues("wire").Add(float64(wires))
	}
}

func (h *Hooks) OnReverseStart(context.Context, int) {}

func (h *Hooks) OnReverseComplete(_ context.Context, dropped int, d time.Duration, err error) {
	h.conversions.WithLabelValues("reverse", result(err)).Inc()
	h.conversionTime.WithLabelValues("reverse").Observe(d.Seconds())
	h.dropped.Add(float64(dropped))
}

func (h *Hooks) OnFallback(_ context.Context, opcode string) {
	h.fallbacks.WithLabelValues(opcode).Inc()
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestTime.WithLabelValues(method, route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.ConvertHooks = (*Hooks)(nil)
	_ observability.CacheHooks   = (*Hooks)(nil)
	_ observability.HTTPHooks    = (*Hooks)(nil)
)
