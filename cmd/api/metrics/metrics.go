package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blog-catalog/cache"
)

// Collector owns the service's Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	cacheEventsTotal    *prometheus.CounterVec
	upstreamFetch       *prometheus.HistogramVec
	categoryFallbacks   prometheus.Counter
}

func New(serviceName string) *Collector {
	prefix := strings.ReplaceAll(serviceName, "-", "_")
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	c.cacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_events_total",
			Help: "Cache hits, misses, stores, evictions and purges by key family",
		},
		[]string{"event", "family"},
	)
	c.upstreamFetch = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_upstream_fetch_duration_seconds",
			Help:    "Upstream fetch latency by source and outcome",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source", "operation", "outcome"},
	)
	c.categoryFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_category_fallbacks_total",
		Help: "Number of times the fixed category list was served",
	})

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.cacheEventsTotal,
		c.upstreamFetch,
		c.categoryFallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// family reduces a cache key such as "list:1:6:cat=" to "list" to keep label cardinality low.
func family(labels map[string]string) string {
	key := labels["key"]
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	if key == "" {
		return "all"
	}
	return key
}

// CacheHooks feeds cache events into the cache_events_total counter.
func (c *Collector) CacheHooks() cache.MetricsHooks {
	inc := func(event string) func(map[string]string) {
		return func(labels map[string]string) {
			c.cacheEventsTotal.WithLabelValues(event, family(labels)).Inc()
		}
	}
	return cache.MetricsHooks{
		OnHit:   inc("hit"),
		OnMiss:  inc("miss"),
		OnStore: inc("store"),
		OnEvict: inc("evict"),
		OnPurge: inc("purge"),
	}
}

// ObserveFetch records one upstream call.
func (c *Collector) ObserveFetch(source, operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.upstreamFetch.WithLabelValues(source, operation, outcome).Observe(time.Since(started).Seconds())
}

func (c *Collector) IncCategoryFallback() {
	c.categoryFallbacks.Inc()
}

// Middleware records request count and latency per matched route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, route, status).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
