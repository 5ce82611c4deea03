package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bdactivity"

var (
	datasetLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "loads_total",
		Help:      "Number of dataset loads grouped by source and outcome.",
	}, []string{"source", "outcome"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "cache_lookups_total",
		Help:      "Memo cache lookups grouped by result (hit or miss).",
	}, []string{"result"})

	parseFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "parse_failures_total",
		Help:      "Number of loads rejected because a cell could not be parsed.",
	}, []string{"source"})

	loadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "load_duration_seconds",
		Help:      "Time spent fetching and parsing a dataset.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	datasetRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "dataset_records",
		Help:      "Record count of the most recently loaded dataset per source.",
	}, []string{"source"})

	invalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "invalidations_total",
		Help:      "Memo invalidations grouped by trigger.",
	}, []string{"trigger"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests grouped by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		datasetLoads,
		cacheLookups,
		parseFailures,
		loadDuration,
		datasetRecords,
		invalidations,
		httpRequests,
		httpDuration,
	)
}

// RecordLoad records a completed fetch+parse of source.
func RecordLoad(source string, records int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	datasetLoads.WithLabelValues(source, outcome).Inc()
	loadDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err == nil {
		datasetRecords.WithLabelValues(source).Set(float64(records))
	}
}

// RecordCacheLookup counts a memo hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// RecordParseFailure counts a load rejected with a parse error.
func RecordParseFailure(source string) {
	parseFailures.WithLabelValues(source).Inc()
}

// RecordInvalidation counts a memo invalidation; trigger is e.g. "http", "amqp" or "cli".
func RecordInvalidation(trigger string) {
	invalidations.WithLabelValues(trigger).Inc()
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
