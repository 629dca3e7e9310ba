package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdcore"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	cacheHits      prom.Counter
	cacheMisses    prom.Counter
	cacheEvictions prom.Counter
	cacheEntries   prom.Gauge
	parseDuration  prom.Histogram
	brokenLinks    prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Parse requests answered from the document cache",
		}),
		cacheMisses: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Parse requests that required a fresh parse",
		}),
		cacheEvictions: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Documents evicted from the cache",
		}),
		cacheEntries: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Documents currently held by the cache",
		}),
		parseDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of fresh document parses",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}),
		brokenLinks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Links reported as missing-file by validation",
		}),
	}

	reg.MustRegister(pr.cacheHits, pr.cacheMisses, pr.cacheEvictions, pr.cacheEntries, pr.parseDuration, pr.brokenLinks)
	return pr
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil {
		return
	}
	p.cacheHits.Inc()
}

func (p *PrometheusRecorder) IncCacheMiss() {
	if p == nil {
		return
	}
	p.cacheMisses.Inc()
}

func (p *PrometheusRecorder) IncCacheEviction() {
	if p == nil {
		return
	}
	p.cacheEvictions.Inc()
}

func (p *PrometheusRecorder) SetCacheEntries(n int) {
	if p == nil {
		return
	}
	p.cacheEntries.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveParseDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.parseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddBrokenLinks(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.brokenLinks.Add(float64(n))
}

var _ Recorder = (*PrometheusRecorder)(nil)
