package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pageDuration       prom.Histogram
	pageResults        *prom.CounterVec
	warnings           *prom.CounterVec
	conversionDuration *prom.HistogramVec
	runDuration        prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pageDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikimigrate",
			Name:      "page_duration_seconds",
			Help:      "Duration of transforming and handing off a single page",
			Buckets:   prom.DefBuckets,
		}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikimigrate",
			Name:      "page_results_total",
			Help:      "Page results by outcome",
		}, []string{"result"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikimigrate",
			Name:      "warnings_total",
			Help:      "Recovered node-level problems by kind",
		}, []string{"kind"}),
		conversionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "wikimigrate",
			Name:      "conversion_duration_seconds",
			Help:      "Duration of external document conversion",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: "wikimigrate",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last migration run",
		}),
	}
	reg.MustRegister(pr.pageDuration, pr.pageResults, pr.warnings, pr.conversionDuration, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncWarning(kind string) {
	p.warnings.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveConversionDuration(d time.Duration, success bool) {
	res := "failed"
	if success {
		res = "success"
	}
	p.conversionDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Set(d.Seconds())
}

// WriteTextfile writes the registry in the text exposition format, atomically,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string, reg *prom.Registry) error {
	return prom.WriteToTextfile(path, reg)
}
