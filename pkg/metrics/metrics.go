package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const subsystem = "dunning"

// Latency buckets in milliseconds.
var HistogramBuckets = []float64{
	5, 10, 25, 50, 75, 100, 150, 200, 300, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000,
}

// Metric describes one collector registered by the Registry.
type Metric struct {
	Name        string
	Description string
	Type        string // counter_vec, histogram_vec
	Args        []string
}

var reqCnt = &Metric{
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code, method and route.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "route"},
}

var reqDur = &Metric{
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "route"},
}

var webhookEvents = &Metric{
	Name:        "webhook_events_total",
	Description: "Webhook deliveries partitioned by endpoint and outcome.",
	Type:        "counter_vec",
	Args:        []string{"endpoint", "outcome"},
}

var emailsSent = &Metric{
	Name:        "emails_sent_total",
	Description: "Recovery email send attempts partitioned by outcome.",
	Type:        "counter_vec",
	Args:        []string{"outcome"},
}

// NewMetric builds the prometheus.Collector for a Metric definition.
func NewMetric(m *Metric) prometheus.Collector {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
		}, m.Args)
	case "histogram_vec":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
			Buckets:   HistogramBuckets,
		}, m.Args)
	}
	return nil
}

// Registry owns the collectors of one process. It keeps its own
// prometheus.Registry so tests can build independent instances.
type Registry struct {
	reg           *prometheus.Registry
	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	webhookEvents *prometheus.CounterVec
	emailsSent    *prometheus.CounterVec
}

// New registers the standard HTTP metrics, the business counters and the Go
// runtime collectors.
func New() *Registry {
	r := &Registry{
		reg:           prometheus.NewRegistry(),
		reqCnt:        NewMetric(reqCnt).(*prometheus.CounterVec),
		reqDur:        NewMetric(reqDur).(*prometheus.HistogramVec),
		webhookEvents: NewMetric(webhookEvents).(*prometheus.CounterVec),
		emailsSent:    NewMetric(emailsSent).(*prometheus.CounterVec),
	}
	r.reg.MustRegister(
		r.reqCnt,
		r.reqDur,
		r.webhookEvents,
		r.emailsSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Middleware records request count and latency, labelled by route template
// so path parameters don't blow up cardinality.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)

		r.reqCnt.WithLabelValues(status, c.Request.Method, route).Inc()
		r.reqDur.WithLabelValues(status, c.Request.Method, route).Observe(elapsed)
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// WebhookEvent counts a webhook delivery outcome.
func (r *Registry) WebhookEvent(endpoint, outcome string) {
	if r == nil {
		return
	}
	r.webhookEvents.WithLabelValues(endpoint, outcome).Inc()
}

// EmailSent counts an email send outcome ("sent", "failed").
func (r *Registry) EmailSent(outcome string) {
	if r == nil {
		return
	}
	r.emailsSent.WithLabelValues(outcome).Inc()
}
