package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client owns the isolated Prometheus registry, the HTTP server exposing
// it, and the pipeline's metric families.
type Client struct {
	Server   *http.Server
	Registry *prometheus.Registry

	generations         *prometheus.CounterVec
	generationDuration  *prometheus.HistogramVec
	generatorAttempts   *prometheus.CounterVec
	attemptDuration     *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	cacheSimilarity     *prometheus.HistogramVec
	cacheEntriesWritten prometheus.Counter
}

// NewMetrics builds the registry, registers the pipeline metric families
// and prepares the /metrics HTTP server. The registry is isolated; nothing
// uses the global default registry.
func NewMetrics(cfg Config) *Client {
	registry := prometheus.NewRegistry()

	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	c := &Client{
		Registry: registry,
		Server: &http.Server{
			Addr:    cfg.Address,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},

		generations: createCounterVec(
			"imagegen_generations_total",
			"Completed pipeline requests by outcome.",
			[]string{"outcome"},
		),
		generationDuration: createHistogramVec(
			"imagegen_generation_duration_seconds",
			"End-to-end pipeline latency by outcome.",
			[]string{"outcome"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		),
		generatorAttempts: createCounterVec(
			"imagegen_generator_attempts_total",
			"Backend generation attempts by backend and outcome.",
			[]string{"backend", "outcome"},
		),
		attemptDuration: createHistogramVec(
			"imagegen_generator_attempt_duration_seconds",
			"Single backend attempt latency.",
			[]string{"backend"},
			[]float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		),
		cacheLookups: createCounterVec(
			"imagegen_cache_lookups_total",
			"Semantic cache lookups by stage and result.",
			[]string{"stage", "result"},
		),
		cacheSimilarity: createHistogramVec(
			"imagegen_cache_similarity",
			"Best similarity observed per vector search.",
			[]string{"stage"},
			prometheus.LinearBuckets(0.5, 0.05, 11),
		),
		cacheEntriesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imagegen_cache_entries_written_total",
			Help: "Entries inserted into the semantic cache.",
		}),
	}

	wrapped.MustRegister(
		c.generations,
		c.generationDuration,
		c.generatorAttempts,
		c.attemptDuration,
		c.cacheLookups,
		c.cacheSimilarity,
		c.cacheEntriesWritten,
	)

	return c
}

// ObservePipeline records one completed pipeline request.
func (c *Client) ObservePipeline(outcome string, d time.Duration) {
	c.generations.WithLabelValues(outcome).Inc()
	c.generationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveGeneratorAttempt records one backend attempt.
func (c *Client) ObserveGeneratorAttempt(backend, outcome string, d time.Duration) {
	c.generatorAttempts.WithLabelValues(backend, outcome).Inc()
	c.attemptDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// ObserveCacheLookup records one cache lookup. Similarity is only observed
// when a vector search actually ran.
func (c *Client) ObserveCacheLookup(stage, result string, similarity float64) {
	c.cacheLookups.WithLabelValues(stage, result).Inc()
	if similarity > 0 {
		c.cacheSimilarity.WithLabelValues(stage).Observe(similarity)
	}
}

// ObserveCacheWrite records one cache insert.
func (c *Client) ObserveCacheWrite() {
	c.cacheEntriesWritten.Inc()
}
