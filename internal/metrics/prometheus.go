package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	requests      *prom.CounterVec
	nonFatal      *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "readme_generator",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generate stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "readme_generator",
			Name:      "requests_total",
			Help:      "Generate requests by outcome and error code",
		}, []string{"outcome", "code"}),
		nonFatal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "readme_generator",
			Name:      "nonfatal_errors_total",
			Help:      "Non-fatal errors recorded on otherwise successful requests",
		}, []string{"code"}),
	}
	reg.MustRegister(pr.stageDuration, pr.requests, pr.nonFatal)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRequestOutcome(outcome string, code string) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(outcome, code).Inc()
}

func (p *PrometheusRecorder) IncNonFatalError(code string) {
	if p == nil {
		return
	}
	p.nonFatal.WithLabelValues(code).Inc()
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg prom.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
