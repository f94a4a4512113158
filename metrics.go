package godisruptor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// pipelineMetrics is the optional Prometheus wiring enabled by
// WithMetrics: the published cursor, each consumer's lag behind it, how
// many events each consumer has processed, and how many handler errors
// each has isolated.
type pipelineMetrics struct {
	cursor        prometheus.Gauge
	lag           *prometheus.GaugeVec
	processed     *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec

	stop     chan struct{}
	interval time.Duration
}

func newPipelineMetrics(reg *prometheus.Registry, namePrefix string) *pipelineMetrics {
	m := &pipelineMetrics{
		cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: namePrefix + "_cursor",
			Help: "Highest sequence number currently published on the ring.",
		}),
		lag: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: namePrefix + "_consumer_lag",
			Help: "cursor minus the consumer's last-processed sequence.",
		}, []string{"processor"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: namePrefix + "_events_processed_total",
			Help: "Events drained by each consumer.",
		}, []string{"processor"}),
		handlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: namePrefix + "_handler_errors_total",
			Help: "Handler errors isolated by each consumer.",
		}, []string{"processor"}),
		stop:     make(chan struct{}),
		interval: 100 * time.Millisecond,
	}
	reg.MustRegister(m.cursor, m.lag, m.processed, m.handlerErrors)
	return m
}

// run periodically snapshots the pipeline's cursor and every processor's
// counters into the registered collectors. Prometheus counters can only
// go up, so processed/handlerErrors are set via a monotonic gauge-style
// Add of the delta since the last snapshot.
func (m *pipelineMetrics) run(pipeline statsSource) {
	last := make(map[int]struct{ processed, errs int64 })
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			stats := pipeline.snapshot()
			m.cursor.Set(float64(stats.Cursor))
			for _, ps := range stats.Processors {
				label := strconv.Itoa(ps.ID)
				m.lag.WithLabelValues(label).Set(float64(stats.Cursor - ps.Sequence))
				prev := last[ps.ID]
				if d := ps.Processed - prev.processed; d > 0 {
					m.processed.WithLabelValues(label).Add(float64(d))
				}
				if d := ps.HandlerErrors - prev.errs; d > 0 {
					m.handlerErrors.WithLabelValues(label).Add(float64(d))
				}
				last[ps.ID] = struct{ processed, errs int64 }{ps.Processed, ps.HandlerErrors}
			}
		}
	}
}

func (m *pipelineMetrics) close() { close(m.stop) }

// statsSource decouples pipelineMetrics from the generic Pipeline[T] type
// (Go's generics don't allow a *Pipeline[T] field on a non-generic
// struct).
type statsSource interface {
	snapshot() PipelineStats
}
