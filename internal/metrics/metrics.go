// Package metrics records Prometheus metrics for linkage runs.
//
// Every Recorder owns a private registry so repeated runs in one process
// never collide, and the collected values can be exported to a node-exporter
// textfile at the end of a run.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"playerxref/internal/assemble"
	"playerxref/internal/linkage"
	"playerxref/internal/records"
)

const defaultNamespace = "playerxref"

// Recorder collects run metrics. It implements linkage.Observer.
type Recorder struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	links         *prometheus.CounterVec
	unmatched     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageLinks    *prometheus.CounterVec
	records       *prometheus.GaugeVec
	runs          prometheus.Counter
}

// New creates a Recorder with its own registry.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:        defaultNamespace,
		histogramBuckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.initializeMetrics()
	return r
}

func (r *Recorder) initializeMetrics() {
	auto := promauto.With(r.registry)

	r.links = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "links_total",
		Help:      "Committed links by method",
	}, []string{"method"})

	r.unmatched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "unmatched_total",
		Help:      "Performance records left unlinked by reason",
	}, []string{"reason"})

	r.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each linkage stage",
		Buckets:   r.histogramBuckets,
	}, []string{"stage"})

	r.stageLinks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "stage_links_total",
		Help:      "Links committed by each linkage stage",
	}, []string{"stage"})

	r.records = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "records",
		Help:      "Input records of the last run by side",
	}, []string{"side"})

	r.runs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "runs_total",
		Help:      "Completed linkage runs",
	})
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StageCompleted observes a finished linkage stage.
func (r *Recorder) StageCompleted(stats linkage.StageStats) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stats.Stage).Observe(stats.Duration.Seconds())
	r.stageLinks.WithLabelValues(stats.Stage).Add(float64(stats.Matched))
}

// RecordRecords sets the input size for one side.
func (r *Recorder) RecordRecords(side records.Side, n int) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(string(side)).Set(float64(n))
}

// RecordOutput counts the links and unmatched rows of an assembled run.
func (r *Recorder) RecordOutput(out *assemble.Output) {
	if r == nil || out == nil {
		return
	}
	for _, row := range out.Linked {
		if row.Matched {
			r.links.WithLabelValues(row.Method).Inc()
		}
	}
	for _, u := range out.Unmatched {
		r.unmatched.WithLabelValues(u.Reason).Inc()
	}
	r.runs.Inc()
}

// WriteTextfile writes the registry in the text exposition format, replacing
// path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return records.Wrap(records.ErrIO, "metrics", "write textfile", path, err)
	}
	return nil
}
