package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the marketplace collectors; /metrics serves only this.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "artmarket",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artmarket",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	bids = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "auctions",
			Name:      "bids_total",
			Help:      "Bids by outcome (accepted or the rejection reason).",
		},
		[]string{"result"},
	)

	auctionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "auctions",
			Name:      "closed_total",
			Help:      "Auctions closed, by outcome.",
		},
		[]string{"outcome"},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "orders",
			Name:      "payments_total",
			Help:      "Payment attempts by method and result.",
		},
		[]string{"method", "result"},
	)

	aiGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "studio",
			Name:      "generations_total",
			Help:      "Text-to-image calls by result.",
		},
		[]string{"result"},
	)

	aiDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "artmarket",
			Subsystem: "studio",
			Name:      "generation_duration_seconds",
			Help:      "Duration of text-to-image calls.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 9),
		},
	)

	sweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artmarket",
			Subsystem: "jobs",
			Name:      "auction_sweeps_total",
			Help:      "Auction sweep runs by success.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		bids,
		auctionsClosed,
		payments,
		aiGenerations,
		aiDuration,
		sweepRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by route template,
// so /auctions/1 and /auctions/2 share a series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordBid(result string) {
	bids.WithLabelValues(result).Inc()
}

func RecordAuctionClosed(outcome string) {
	auctionsClosed.WithLabelValues(outcome).Inc()
}

func RecordPayment(method string, ok bool) {
	result := "failed"
	if ok {
		result = "succeeded"
	}
	payments.WithLabelValues(method, result).Inc()
}

func RecordGeneration(ok bool, took time.Duration) {
	result := "failed"
	if ok {
		result = "succeeded"
	}
	aiGenerations.WithLabelValues(result).Inc()
	aiDuration.Observe(took.Seconds())
}

func RecordSweep(ok bool) {
	sweepRuns.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
