package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "v0mcp"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	errors         *prom.CounterVec
	unhandled      *prom.CounterVec
	handlerRetries *prom.CounterVec
	cache          *prom.CounterVec
	upstreamRetry  *prom.CounterVec
	toolDuration   *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the collectors on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		errors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Normalized errors by code and category",
		}, []string{"code", "category"}),
		unhandled: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "errors_unhandled_total",
			Help:      "Errors no handler claimed",
		}, []string{"operation"}),
		handlerRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "handler_retries_total",
			Help:      "Handler re-invocations performed by WithRetry",
		}, []string{"operation"}),
		cache: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "handler_cache_total",
			Help:      "Handler cache lookups by result",
		}, []string{"result"}),
		upstreamRetry: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Retries of v0 API calls after retryable failures",
		}, []string{"tool"}),
		toolDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Duration of MCP tool executions",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"tool", "result"}),
	}
	reg.MustRegister(pr.errors, pr.unhandled, pr.handlerRetries, pr.cache, pr.upstreamRetry, pr.toolDuration)
	return pr
}

func (p *PrometheusRecorder) IncNormalizedError(code, category string) {
	if p == nil {
		return
	}
	p.errors.WithLabelValues(code, category).Inc()
}

func (p *PrometheusRecorder) IncUnhandled(operation string) {
	if p == nil {
		return
	}
	p.unhandled.WithLabelValues(operation).Inc()
}

func (p *PrometheusRecorder) IncHandlerRetry(operation string) {
	if p == nil {
		return
	}
	p.handlerRetries.WithLabelValues(operation).Inc()
}

func (p *PrometheusRecorder) IncCacheResult(hit bool) {
	if p == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cache.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncUpstreamRetry(tool string) {
	if p == nil {
		return
	}
	p.upstreamRetry.WithLabelValues(tool).Inc()
}

func (p *PrometheusRecorder) ObserveToolDuration(tool string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.toolDuration.WithLabelValues(tool, res).Observe(d.Seconds())
}
